package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	notifyLimit int
	notifyClear bool
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show the recent activity feed",
	Long: `Shows the outcomes of past commands, newest first. The feed is kept in
the local store; --clear empties it.`,
	Args: cobra.NoArgs,
	RunE: runNotifications,
}

func runNotifications(cmd *cobra.Command, args []string) error {
	if notifyClear {
		if err := store.ClearNotifications(); err != nil {
			return err
		}
		fmt.Println("Feed cleared.")
		return nil
	}

	items, err := store.Notifications(notifyLimit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "TIME\tLEVEL\tTITLE\tMESSAGE")
	for _, n := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", stamp(n.CreatedAt), n.Level, n.Title, n.Message)
	}
	return w.Flush()
}

func init() {
	notificationsCmd.Flags().IntVar(&notifyLimit, "limit", 20, "Maximum entries to show (0 shows all)")
	notificationsCmd.Flags().BoolVar(&notifyClear, "clear", false, "Empty the feed")
}
