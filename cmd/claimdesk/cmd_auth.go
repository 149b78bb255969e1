package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/session"
	"github.com/paracurve/claimdesk/internal/stubapi"
)

var demoRole string

var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Sign in with an access token",
	Long: `Stores an access token and signs you in as the identity it encodes.

Tokens come from your administrator. Against the bundled stub backend,
--demo mints a token for one of the seeded demo users instead:

  claimdesk login --demo employee
  claimdesk login --demo manager`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	var token string
	switch {
	case demoRole != "" && len(args) > 0:
		return errors.New("pass either a token or --demo, not both")
	case demoRole != "":
		var err error
		token, err = demoToken(demoRole)
		if err != nil {
			return err
		}
	case len(args) == 1:
		token = args[0]
	default:
		return errors.New("a token argument or --demo <role> is required")
	}

	if err := sess.SetToken(token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	user, err := sess.Identity()
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := sess.Clear(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	fmt.Printf("Name:    %s\n", user.Name)
	fmt.Printf("Role:    %s\n", user.Role)
	fmt.Printf("User ID: %s\n", user.ID)
	if user.Email != "" {
		fmt.Printf("Email:   %s\n", user.Email)
	}
	if user.TenantID != "" {
		fmt.Printf("Tenant:  %s\n", user.TenantID)
	}
	return nil
}

// demoSigningKey signs demo tokens. The stub backend reads tokens without
// verifying signatures, so the key only has to exist.
const demoSigningKey = "claimdesk-demo"

// demoToken mints a short-lived token for the stub backend's demo user
// with the given role.
func demoToken(role string) (string, error) {
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return "", err
	}
	for _, u := range stubapi.DemoUsers() {
		if u.Role != parsed {
			continue
		}
		now := time.Now()
		claims := session.Claims{
			UserID:   u.ID,
			TenantID: u.TenantID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     string(u.Role),
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "claimdesk-demo",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(12 * time.Hour)),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(demoSigningKey))
	}
	return "", fmt.Errorf("no demo user with role %q (available: employee, manager, hr, finance, admin)", parsed)
}

func init() {
	loginCmd.Flags().StringVar(&demoRole, "demo", "", "Sign in as the stub backend's demo user with this role")
}
