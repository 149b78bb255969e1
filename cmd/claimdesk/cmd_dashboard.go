package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/workflow"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Status overview of claims and allowances",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	summary, err := dashboardSvc.Summary(cmd.Context())
	if err != nil {
		return err
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "Claims by status:")
	printCounts(w, summary.ClaimsByStatus)
	fmt.Fprintln(w, "\nAllowances by status:")
	printCounts(w, summary.AllowancesByStatus)
	fmt.Fprintln(w, "\nClaim totals by type:")
	printTotals(w, summary.ClaimTotalsByType)
	fmt.Fprintln(w, "\nAllowance totals by type:")
	printTotals(w, summary.AllowanceTotalsByType)
	w.Flush()

	if user, err := sess.Identity(); err == nil && roleHasReviewQueue(user.Role) {
		fmt.Printf("\nPending your review: %d\n", summary.PendingReview)
	}
	return nil
}

// roleHasReviewQueue reports whether any review stage belongs to the role.
func roleHasReviewQueue(role domain.Role) bool {
	for _, s := range workflow.ClaimLifecycle().Mainline() {
		if workflow.CanReview(role, s) {
			return true
		}
	}
	return false
}

func printCounts[K ~string](w *tabwriter.Writer, counts map[K]int) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, k := range sortedKeys(counts) {
		fmt.Fprintf(w, "  %s\t%d\n", k, counts[K(k)])
	}
}

func printTotals[K ~string](w *tabwriter.Writer, totals map[K]float64) {
	if len(totals) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, k := range sortedKeys(totals) {
		fmt.Fprintf(w, "  %s\t%.2f\n", k, totals[K(k)])
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
