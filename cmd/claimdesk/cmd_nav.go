package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paracurve/claimdesk/internal/navigation"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Show the screens available to your role",
	Args:  cobra.NoArgs,
	RunE:  runNav,
}

func runNav(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}

	items := navigation.ForRole(user.Role)
	if len(items) == 0 {
		fmt.Printf("No screens are available to role %s.\n", user.Role)
		return nil
	}

	fmt.Printf("Navigation for %s (%s):\n\n", user.Name, user.Role)
	w := newTab(os.Stdout)
	printNavTree(w, items, 0)
	return w.Flush()
}

func printNavTree(w *tabwriter.Writer, items []navigation.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		fmt.Fprintf(w, "%s%s\t%s\n", indent, it.Label, it.Path)
		printNavTree(w, it.Children, depth+1)
	}
}
