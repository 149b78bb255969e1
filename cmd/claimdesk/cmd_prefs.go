package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/paracurve/claimdesk/internal/localstore"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Local preferences",
	Long: fmt.Sprintf(`Reads and writes preferences stored on this machine.

Well-known keys:
  %s    rows per page in list commands
  %s  status filter applied when claims list has no --status
  %s      folder export commands write reports to`,
		localstore.PrefPageSize, localstore.PrefDefaultView, localstore.PrefExportFolder),
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all stored preferences",
	Args:  cobra.NoArgs,
	RunE:  runPrefsList,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

var prefsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsUnset,
}

func runPrefsList(cmd *cobra.Command, args []string) error {
	prefs, err := store.Preferences()
	if err != nil {
		return err
	}
	if len(prefs) == 0 {
		fmt.Println("No preferences set.")
		return nil
	}

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := newTab(os.Stdout)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, prefs[k])
	}
	return w.Flush()
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	if err := store.SetPreference(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runPrefsUnset(cmd *cobra.Command, args []string) error {
	if err := store.DeletePreference(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s unset.\n", args[0])
	return nil
}

func init() {
	prefsCmd.AddCommand(prefsListCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsUnsetCmd)
}
