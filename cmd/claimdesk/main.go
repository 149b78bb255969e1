package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/api"
	"github.com/paracurve/claimdesk/internal/app"
	"github.com/paracurve/claimdesk/internal/attachment"
	"github.com/paracurve/claimdesk/internal/config"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/export"
	"github.com/paracurve/claimdesk/internal/fetch"
	"github.com/paracurve/claimdesk/internal/localstore"
	"github.com/paracurve/claimdesk/internal/notify"
	"github.com/paracurve/claimdesk/internal/session"
	"github.com/paracurve/claimdesk/pkg/utils"
)

var (
	// Global flags
	cfgFile string
	apiURL  string
	verbose bool

	// Built once in PersistentPreRunE, shared by every command.
	cfg    *config.Config
	logger *zap.Logger
	store  *localstore.Store
	sess   *session.Manager
	center *notify.Center

	claimsSvc     *app.ClaimService
	allowancesSvc *app.AllowanceService
	policiesSvc   *app.PolicyService
	orgSvc        *app.OrgService
	dashboardSvc  *app.DashboardService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimdesk",
	Short: "Expense claims and allowances from the terminal",
	Long: `claimdesk is the command-line client for the claims backend: submit and
review expense claims and monthly allowances, manage policy documents and
reference data, and export reports.

To try it without a backend, run the bundled stub in another terminal and
sign in as one of its demo users:

  claimdesk-stub
  claimdesk login --demo manager
  claimdesk claims list`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
	PersistentPostRun: teardownApp,
}

// initApp builds the service stack every command runs against.
func initApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	logger, err = utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err = localstore.Open(cfg.Store.Path, logger)
	if err != nil {
		return err
	}

	sess = session.NewManager(store, logger)
	if err := sess.Restore(); err != nil {
		return err
	}

	client, err := api.NewClient(api.Config{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		ReadAttempts: cfg.API.ReadAttempts,
	}, sess, logger)
	if err != nil {
		return err
	}

	cache := fetch.New(cfg.Cache.TTL, logger)
	center = notify.NewCenter(cfg.Notifications.Capacity, logger)
	exporter := export.NewExcelExporter(logger)
	preflight := attachment.NewValidator(cfg.Upload.MaxSizeBytes, logger)

	claimsSvc = app.NewClaimService(client, cache, center, store, exporter, logger)
	allowancesSvc = app.NewAllowanceService(client, cache, center, exporter, logger)
	policiesSvc = app.NewPolicyService(client, cache, center, preflight, logger)
	orgSvc = app.NewOrgService(client, cache, center, logger)
	dashboardSvc = app.NewDashboardService(claimsSvc, allowancesSvc, sess, logger)
	return nil
}

// teardownApp flushes this run's notifications into the persisted feed and
// releases the local store.
func teardownApp(cmd *cobra.Command, args []string) {
	flushFeed()
	if store != nil {
		_ = store.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// flushFeed persists the notifications the services pushed during this run
// and echoes them to stderr, oldest first, so mutations leave a visible
// trace without polluting stdout.
func flushFeed() {
	if center == nil || store == nil || center.Len() == 0 {
		return
	}
	items := center.Recent(0)
	if err := store.AppendNotifications(items); err != nil {
		logger.Warn("Failed to persist notifications", zap.Error(err))
	}
	for i := len(items) - 1; i >= 0; i-- {
		n := items[i]
		line := n.Title
		if n.Message != "" {
			line += ": " + n.Message
		}
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, line)
	}
}

// currentUser returns the signed-in identity or a sign-in hint.
func currentUser() (domain.User, error) {
	user, err := sess.Identity()
	if err != nil {
		return domain.User{}, fmt.Errorf("not signed in (run 'claimdesk login')")
	}
	return user, nil
}

// preferredPageSize reads the page-size preference; zero means the list
// view's default applies.
func preferredPageSize() int {
	value, ok, err := store.Preference(localstore.PrefPageSize)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logger.Warn("Ignoring invalid page-size preference", zap.String("value", value))
		return 0
	}
	return n
}

// exportDir resolves where reports land: the folder preference when set,
// the configured output directory otherwise.
func exportDir() string {
	if dir, ok, err := store.Preference(localstore.PrefExportFolder); err == nil && ok && dir != "" {
		return dir
	}
	return cfg.Export.OutputDir
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: ./claimdesk.yaml, ~/.config/claimdesk/claimdesk.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add commands to root
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(claimsCmd)
	rootCmd.AddCommand(allowancesCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(departmentsCmd)
	rootCmd.AddCommand(ibusCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(prefsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
