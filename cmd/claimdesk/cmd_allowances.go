package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/export"
	"github.com/paracurve/claimdesk/internal/listview"
	"github.com/paracurve/claimdesk/internal/workflow"
)

var allowancesCmd = &cobra.Command{
	Use:   "allowances",
	Short: "Request, review and export monthly allowances",
}

var (
	allowanceSearch     string
	allowanceStatus     string
	allowanceType       string
	allowanceDepartment string
	allowancePage       int
)

var (
	allowanceFormType       string
	allowanceFormPeriod     string
	allowanceFormAmount     float64
	allowanceFormCurrency   string
	allowanceFormDepartment string
)

var allowanceComment string

var allowancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowances with search, filters and paging",
	Args:  cobra.NoArgs,
	RunE:  runAllowancesList,
}

var allowancesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one allowance with its approval history",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowancesShow,
}

var allowancesSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Request a new allowance",
	Long: `Requests an allowance for one entitlement period.

  claimdesk allowances submit --type on_call --period 2026-08 --amount 240 --currency EUR`,
	Args: cobra.NoArgs,
	RunE: runAllowancesSubmit,
}

var allowancesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a draft or returned allowance",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowancesEdit,
}

var allowancesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a draft allowance",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowancesRm,
}

var allowancesApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve an allowance at your review stage",
	Args:  cobra.ExactArgs(1),
	RunE:  allowanceTransitionRunner(workflow.ActionApprove),
}

var allowancesRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject an allowance",
	Args:  cobra.ExactArgs(1),
	RunE:  allowanceTransitionRunner(workflow.ActionReject),
}

var allowancesReturnCmd = &cobra.Command{
	Use:   "return <id>",
	Short: "Return an allowance to its owner for rework",
	Args:  cobra.ExactArgs(1),
	RunE:  allowanceTransitionRunner(workflow.ActionReturn),
}

var allowancesActCmd = &cobra.Command{
	Use:   "act <id> <action>",
	Short: "Apply any workflow action to an allowance",
	Long: `Applies a workflow action the named commands do not cover.

Actions: submit, route, approve, payroll, settle, reject, return,
resubmit, reopen.`,
	Args: cobra.ExactArgs(2),
	RunE: runAllowancesAct,
}

var allowancesExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export allowances to an .xlsx report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAllowancesExport,
}

func allowanceView(pageSize int) *listview.View[domain.Allowance] {
	return listview.New(listview.Config[domain.Allowance]{
		SearchFields: []func(domain.Allowance) string{
			func(a domain.Allowance) string { return a.Number },
			func(a domain.Allowance) string { return a.Period },
			func(a domain.Allowance) string { return a.EmployeeName },
		},
		FilterFields: map[string]func(domain.Allowance) string{
			"status":     func(a domain.Allowance) string { return string(a.Status) },
			"type":       func(a domain.Allowance) string { return string(a.Type) },
			"department": func(a domain.Allowance) string { return a.Department },
		},
		SortKey:  func(a domain.Allowance) time.Time { return a.SubmittedAt },
		PageSize: pageSize,
	})
}

func allowanceFilters() (map[string]string, error) {
	if allowanceStatus != "" && allowanceStatus != "all" {
		if _, err := domain.ParseStatus(allowanceStatus); err != nil {
			return nil, err
		}
	}
	status := allowanceStatus
	if status == "all" {
		status = ""
	}
	return map[string]string{
		"status":     status,
		"type":       allowanceType,
		"department": allowanceDepartment,
	}, nil
}

func runAllowancesList(cmd *cobra.Command, args []string) error {
	filters, err := allowanceFilters()
	if err != nil {
		return err
	}
	rows, err := allowancesSvc.List(cmd.Context())
	if err != nil {
		return err
	}

	result := allowanceView(preferredPageSize()).Apply(rows, listview.Query{
		Search:  allowanceSearch,
		Filters: filters,
		Page:    allowancePage,
	})
	if result.TotalItems == 0 {
		fmt.Println("No allowances match.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "NUMBER\tTYPE\tPERIOD\tAMOUNT\tSTATUS\tSUBMITTED\tEMPLOYEE")
	for _, a := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Number, a.Type, a.Period, money(a.Amount, a.Currency),
			a.Status, day(a.SubmittedAt), a.EmployeeName)
	}
	w.Flush()
	printPageFooter(result.Page, result.TotalPages, result.TotalItems, "allowances")
	return nil
}

func runAllowancesShow(cmd *cobra.Command, args []string) error {
	allowance, err := allowancesSvc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if allowance == nil {
		return fmt.Errorf("allowance %s not found", args[0])
	}

	lc := workflow.AllowanceLifecycle()
	fmt.Printf("%s  %s  %s\n", allowance.Number, allowance.Type, money(allowance.Amount, allowance.Currency))
	fmt.Printf("Status:    %s\n", statusLine(lc, allowance.Status))
	fmt.Printf("Employee:  %s (%s)\n", allowance.EmployeeName, allowance.Department)
	fmt.Printf("Period:    %s\n", allowance.Period)
	fmt.Printf("Submitted: %s\n", day(allowance.SubmittedAt))

	printHistory(allowance.History)
	printNextActions(lc, allowance.Status)
	return nil
}

func allowanceInputFromFlags() domain.AllowanceInput {
	return domain.AllowanceInput{
		Type:       domain.AllowanceType(allowanceFormType),
		Period:     allowanceFormPeriod,
		Amount:     allowanceFormAmount,
		Currency:   allowanceFormCurrency,
		Department: allowanceFormDepartment,
	}
}

func runAllowancesSubmit(cmd *cobra.Command, args []string) error {
	allowance, err := allowancesSvc.Submit(cmd.Context(), allowanceInputFromFlags())
	if err != nil {
		return err
	}
	fmt.Printf("Allowance %s submitted (%s).\n", allowance.Number, allowance.Status)
	return nil
}

func runAllowancesEdit(cmd *cobra.Command, args []string) error {
	allowance, err := allowancesSvc.Update(cmd.Context(), args[0], allowanceInputFromFlags())
	if err != nil {
		return err
	}
	fmt.Printf("Allowance %s updated.\n", allowance.Number)
	return nil
}

func runAllowancesRm(cmd *cobra.Command, args []string) error {
	if err := allowancesSvc.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Allowance %s deleted.\n", args[0])
	return nil
}

func allowanceTransitionRunner(action workflow.Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return applyAllowanceAction(cmd.Context(), args[0], action)
	}
}

func runAllowancesAct(cmd *cobra.Command, args []string) error {
	action, err := workflow.ParseAction(args[1])
	if err != nil {
		return err
	}
	return applyAllowanceAction(cmd.Context(), args[0], action)
}

func applyAllowanceAction(ctx context.Context, id string, action workflow.Action) error {
	allowance, err := allowancesSvc.Transition(ctx, id, action, allowanceComment)
	if err != nil {
		return err
	}
	fmt.Printf("Allowance %s is now %s.\n", allowance.Number, allowance.Status)
	return nil
}

func runAllowancesExport(cmd *cobra.Command, args []string) error {
	filters, err := allowanceFilters()
	if err != nil {
		return err
	}
	rows, err := allowancesSvc.List(cmd.Context())
	if err != nil {
		return err
	}

	filtered := allowanceView(len(rows) + 1).Apply(rows, listview.Query{
		Search:  allowanceSearch,
		Filters: filters,
		Page:    1,
	}).Items

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		folder := export.NewReportFolder(exportDir(), logger)
		if err := folder.Ensure(); err != nil {
			return err
		}
		path = folder.FilePath("allowances")
	}

	if err := allowancesSvc.Export(path, filtered); err != nil {
		return err
	}
	fmt.Printf("Exported %d allowances to %s\n", len(filtered), path)
	return nil
}

func addAllowanceFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&allowanceSearch, "search", "", "Free-text search over number, period and employee")
	cmd.Flags().StringVar(&allowanceStatus, "status", "", "Filter by status")
	cmd.Flags().StringVar(&allowanceType, "type", "", "Filter by allowance type")
	cmd.Flags().StringVar(&allowanceDepartment, "department", "", "Filter by department")
}

func addAllowanceFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&allowanceFormType, "type", "", "Allowance type: on_call, shift, standby, acting, other")
	cmd.Flags().StringVar(&allowanceFormPeriod, "period", "", "Entitlement period as YYYY-MM")
	cmd.Flags().Float64Var(&allowanceFormAmount, "amount", 0, "Amount in the given currency")
	cmd.Flags().StringVar(&allowanceFormCurrency, "currency", "EUR", "ISO 4217 currency code")
	cmd.Flags().StringVar(&allowanceFormDepartment, "department", "", "Charge a different department (default: yours)")
}

func init() {
	addAllowanceFilterFlags(allowancesListCmd)
	allowancesListCmd.Flags().IntVar(&allowancePage, "page", 1, "Page number")

	addAllowanceFormFlags(allowancesSubmitCmd)
	addAllowanceFormFlags(allowancesEditCmd)

	for _, c := range []*cobra.Command{allowancesApproveCmd, allowancesRejectCmd, allowancesReturnCmd, allowancesActCmd} {
		c.Flags().StringVar(&allowanceComment, "comment", "", "Reviewer comment recorded with the transition")
	}

	addAllowanceFilterFlags(allowancesExportCmd)

	allowancesCmd.AddCommand(allowancesListCmd)
	allowancesCmd.AddCommand(allowancesShowCmd)
	allowancesCmd.AddCommand(allowancesSubmitCmd)
	allowancesCmd.AddCommand(allowancesEditCmd)
	allowancesCmd.AddCommand(allowancesRmCmd)
	allowancesCmd.AddCommand(allowancesApproveCmd)
	allowancesCmd.AddCommand(allowancesRejectCmd)
	allowancesCmd.AddCommand(allowancesReturnCmd)
	allowancesCmd.AddCommand(allowancesActCmd)
	allowancesCmd.AddCommand(allowancesExportCmd)
}
