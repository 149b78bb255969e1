package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// newTab returns the column writer list commands render tables with.
func newTab(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func money(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func printPageFooter(page, totalPages, totalItems int, noun string) {
	fmt.Printf("\nPage %d of %d (%d %s)\n", page, totalPages, totalItems, noun)
}

// printHistory renders an approval trail oldest first, one transition per
// line.
func printHistory(history domain.ApprovalHistory) {
	if len(history) == 0 {
		return
	}
	fmt.Println("\nHistory:")
	w := newTab(os.Stdout)
	for _, h := range history {
		actor := h.ActorName
		if actor == "" {
			actor = h.ActorID
		}
		fmt.Fprintf(w, "  %s\t%s\t%s -> %s\t%s\t%s\n",
			stamp(h.Timestamp), h.Action, h.FromStatus, h.ToStatus, actor, h.Comment)
	}
	w.Flush()
}

// printNextActions lists what the lifecycle offers from the current status.
func printNextActions(lc *workflow.Lifecycle, status domain.Status) {
	actions := lc.PermittedActions(status)
	if len(actions) == 0 {
		return
	}
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.String()
	}
	fmt.Printf("\nNext actions: %s\n", strings.Join(labels, ", "))
}

// statusLine formats a status with its mainline progress when it has one.
func statusLine(lc *workflow.Lifecycle, status domain.Status) string {
	step, total := lc.Progress(status)
	if step == 0 {
		return string(status)
	}
	return fmt.Sprintf("%s (step %d of %d)", status, step, total)
}
