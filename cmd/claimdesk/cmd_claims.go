package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/export"
	"github.com/paracurve/claimdesk/internal/listview"
	"github.com/paracurve/claimdesk/internal/localstore"
	"github.com/paracurve/claimdesk/internal/workflow"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Create, review and export expense claims",
}

// Filter flags shared by `claims list` and `claims export`.
var (
	claimSearch     string
	claimStatus     string
	claimType       string
	claimDepartment string
	claimPage       int
)

// Form flags for `claims submit` and `claims edit`.
var (
	claimFormType        string
	claimFormDescription string
	claimFormAmount      float64
	claimFormCurrency    string
	claimFormDepartment  string
	claimFormProject     string
	claimSaveAsDraft     bool
	claimFromDraft       string
)

var claimComment string

var claimsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List claims with search, filters and paging",
	Args:  cobra.NoArgs,
	RunE:  runClaimsList,
}

var claimsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one claim with its approval history",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsShow,
}

var claimsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new expense claim",
	Long: `Submits a new expense claim, or saves the form locally with --draft.

  claimdesk claims submit --type travel --description "Taxi to client" --amount 23.50 --currency EUR
  claimdesk claims submit --type meal --description "Team lunch" --amount 64 --currency EUR --draft
  claimdesk claims submit --from-draft <draft-id>`,
	Args: cobra.NoArgs,
	RunE: runClaimsSubmit,
}

var claimsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a draft or returned claim",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsEdit,
}

var claimsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a draft claim",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsRm,
}

var claimsDraftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List locally saved claim drafts",
	Args:  cobra.NoArgs,
	RunE:  runClaimsDrafts,
}

var claimsDraftsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a locally saved draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsDraftsRm,
}

var claimsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a claim at your review stage",
	Args:  cobra.ExactArgs(1),
	RunE:  claimTransitionRunner(workflow.ActionApprove),
}

var claimsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a claim",
	Args:  cobra.ExactArgs(1),
	RunE:  claimTransitionRunner(workflow.ActionReject),
}

var claimsReturnCmd = &cobra.Command{
	Use:   "return <id>",
	Short: "Return a claim to its owner for rework",
	Args:  cobra.ExactArgs(1),
	RunE:  claimTransitionRunner(workflow.ActionReturn),
}

var claimsActCmd = &cobra.Command{
	Use:   "act <id> <action>",
	Short: "Apply any workflow action to a claim",
	Long: `Applies a workflow action the named commands do not cover, e.g. routing
a submitted claim or resubmitting a returned one.

Actions: submit, route, approve, finance_approve, settle, reject, return,
resubmit, reopen.`,
	Args: cobra.ExactArgs(2),
	RunE: runClaimsAct,
}

var claimsExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export claims to an .xlsx report",
	Long: `Writes the claims matching the given filters to an Excel report. Without
a path the file lands in the export folder under a timestamped name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClaimsExport,
}

// claimView builds the list query shared by list and export.
func claimView(pageSize int) *listview.View[domain.Claim] {
	return listview.New(listview.Config[domain.Claim]{
		SearchFields: []func(domain.Claim) string{
			func(c domain.Claim) string { return c.Number },
			func(c domain.Claim) string { return c.Description },
			func(c domain.Claim) string { return c.EmployeeName },
		},
		FilterFields: map[string]func(domain.Claim) string{
			"status":     func(c domain.Claim) string { return string(c.Status) },
			"type":       func(c domain.Claim) string { return string(c.Type) },
			"department": func(c domain.Claim) string { return c.Department },
		},
		SortKey:  func(c domain.Claim) time.Time { return c.SubmittedAt },
		PageSize: pageSize,
	})
}

// claimFilters resolves the status filter against the default-view
// preference: an unset --status falls back to the preference, "all" clears
// it.
func claimFilters(applyDefaultView bool) (map[string]string, error) {
	status := claimStatus
	if status == "" && applyDefaultView {
		if value, ok, err := store.Preference(localstore.PrefDefaultView); err == nil && ok {
			status = value
		}
	}
	if status == "all" {
		status = ""
	}
	if status != "" {
		if _, err := domain.ParseStatus(status); err != nil {
			return nil, err
		}
	}
	return map[string]string{
		"status":     status,
		"type":       claimType,
		"department": claimDepartment,
	}, nil
}

func runClaimsList(cmd *cobra.Command, args []string) error {
	filters, err := claimFilters(true)
	if err != nil {
		return err
	}
	rows, err := claimsSvc.List(cmd.Context())
	if err != nil {
		return err
	}

	result := claimView(preferredPageSize()).Apply(rows, listview.Query{
		Search:  claimSearch,
		Filters: filters,
		Page:    claimPage,
	})
	if result.TotalItems == 0 {
		fmt.Println("No claims match.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "NUMBER\tTYPE\tDESCRIPTION\tAMOUNT\tSTATUS\tSUBMITTED\tEMPLOYEE")
	for _, c := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Number, c.Type, truncate(c.Description, 40), money(c.Amount, c.Currency),
			c.Status, day(c.SubmittedAt), c.EmployeeName)
	}
	w.Flush()
	printPageFooter(result.Page, result.TotalPages, result.TotalItems, "claims")
	return nil
}

func runClaimsShow(cmd *cobra.Command, args []string) error {
	claim, err := claimsSvc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if claim == nil {
		return fmt.Errorf("claim %s not found", args[0])
	}

	lc := workflow.ClaimLifecycle()
	fmt.Printf("%s  %s  %s\n", claim.Number, claim.Type, money(claim.Amount, claim.Currency))
	fmt.Printf("Status:      %s\n", statusLine(lc, claim.Status))
	fmt.Printf("Employee:    %s (%s)\n", claim.EmployeeName, claim.Department)
	if claim.ProjectID != "" {
		fmt.Printf("Project:     %s\n", claim.ProjectID)
	}
	fmt.Printf("Submitted:   %s\n", day(claim.SubmittedAt))
	fmt.Printf("Description: %s\n", claim.Description)
	if claim.AIScore != nil {
		fmt.Printf("AI score:    %.2f\n", *claim.AIScore)
	}

	if len(claim.Attachments) > 0 {
		fmt.Println("\nAttachments:")
		w := newTab(os.Stdout)
		for _, a := range claim.Attachments {
			fmt.Fprintf(w, "  %s\t%s\t%.1f KB\n", a.FileName, a.ContentType, float64(a.SizeBytes)/1024)
		}
		w.Flush()
	}

	printHistory(claim.History)
	printNextActions(lc, claim.Status)
	return nil
}

func claimInputFromFlags() domain.ClaimInput {
	return domain.ClaimInput{
		Type:        domain.ClaimType(claimFormType),
		Description: claimFormDescription,
		Amount:      claimFormAmount,
		Currency:    claimFormCurrency,
		Department:  claimFormDepartment,
		ProjectID:   claimFormProject,
	}
}

func runClaimsSubmit(cmd *cobra.Command, args []string) error {
	if claimFromDraft != "" {
		return submitFromDraft(cmd.Context(), claimFromDraft)
	}

	in := claimInputFromFlags()
	if claimSaveAsDraft {
		draft, err := claimsSvc.SaveDraft(domain.ClaimDraft{Input: in})
		if err != nil {
			return err
		}
		fmt.Printf("Draft %s saved locally.\n", draft.ID)
		return nil
	}

	claim, err := claimsSvc.Submit(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Printf("Claim %s submitted (%s).\n", claim.Number, claim.Status)
	return nil
}

// submitFromDraft submits a saved draft and deletes it on success.
func submitFromDraft(ctx context.Context, id string) error {
	drafts, err := claimsSvc.Drafts()
	if err != nil {
		return err
	}
	for _, d := range drafts {
		if d.ID != id {
			continue
		}
		claim, err := claimsSvc.Submit(ctx, d.Input)
		if err != nil {
			return err
		}
		if err := claimsSvc.DeleteDraft(d.ID); err != nil {
			logger.Warn("Submitted claim but failed to delete draft",
				zap.String("draft_id", d.ID), zap.Error(err))
		}
		fmt.Printf("Claim %s submitted from draft %s (%s).\n", claim.Number, d.ID, claim.Status)
		return nil
	}
	return fmt.Errorf("draft %s not found", id)
}

func runClaimsEdit(cmd *cobra.Command, args []string) error {
	claim, err := claimsSvc.Update(cmd.Context(), args[0], claimInputFromFlags())
	if err != nil {
		return err
	}
	fmt.Printf("Claim %s updated.\n", claim.Number)
	return nil
}

func runClaimsRm(cmd *cobra.Command, args []string) error {
	if err := claimsSvc.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Claim %s deleted.\n", args[0])
	return nil
}

func runClaimsDrafts(cmd *cobra.Command, args []string) error {
	drafts, err := claimsSvc.Drafts()
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts saved.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "ID\tTYPE\tDESCRIPTION\tAMOUNT\tSAVED")
	for _, d := range drafts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Input.Type, truncate(d.Input.Description, 40),
			money(d.Input.Amount, d.Input.Currency), stamp(d.SavedAt))
	}
	return w.Flush()
}

func runClaimsDraftsRm(cmd *cobra.Command, args []string) error {
	if err := claimsSvc.DeleteDraft(args[0]); err != nil {
		return err
	}
	fmt.Printf("Draft %s deleted.\n", args[0])
	return nil
}

func claimTransitionRunner(action workflow.Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return applyClaimAction(cmd.Context(), args[0], action)
	}
}

func runClaimsAct(cmd *cobra.Command, args []string) error {
	action, err := workflow.ParseAction(args[1])
	if err != nil {
		return err
	}
	return applyClaimAction(cmd.Context(), args[0], action)
}

func applyClaimAction(ctx context.Context, id string, action workflow.Action) error {
	claim, err := claimsSvc.Transition(ctx, id, action, claimComment)
	if err != nil {
		return err
	}
	fmt.Printf("Claim %s is now %s.\n", claim.Number, claim.Status)
	return nil
}

func runClaimsExport(cmd *cobra.Command, args []string) error {
	filters, err := claimFilters(false)
	if err != nil {
		return err
	}
	rows, err := claimsSvc.List(cmd.Context())
	if err != nil {
		return err
	}

	// One oversized page keeps the whole filtered set together.
	filtered := claimView(len(rows) + 1).Apply(rows, listview.Query{
		Search:  claimSearch,
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
		path = folder.FilePath("claims")
	}

	if err := claimsSvc.Export(path, filtered); err != nil {
		return err
	}
	fmt.Printf("Exported %d claims to %s\n", len(filtered), path)
	return nil
}

// addClaimFilterFlags registers the filter set shared by list and export.
func addClaimFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&claimSearch, "search", "", "Free-text search over number, description and employee")
	cmd.Flags().StringVar(&claimStatus, "status", "", `Filter by status ("all" overrides the default view)`)
	cmd.Flags().StringVar(&claimType, "type", "", "Filter by claim type")
	cmd.Flags().StringVar(&claimDepartment, "department", "", "Filter by department")
}

// addClaimFormFlags registers the claim form shared by submit and edit.
func addClaimFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&claimFormType, "type", "", "Claim type: travel, meal, accommodation, equipment, communication, other")
	cmd.Flags().StringVar(&claimFormDescription, "description", "", "What the expense was for")
	cmd.Flags().Float64Var(&claimFormAmount, "amount", 0, "Amount in the given currency")
	cmd.Flags().StringVar(&claimFormCurrency, "currency", "EUR", "ISO 4217 currency code")
	cmd.Flags().StringVar(&claimFormDepartment, "department", "", "Charge a different department (default: yours)")
	cmd.Flags().StringVar(&claimFormProject, "project", "", "Project to book the expense against")
}

func init() {
	addClaimFilterFlags(claimsListCmd)
	claimsListCmd.Flags().IntVar(&claimPage, "page", 1, "Page number")

	addClaimFormFlags(claimsSubmitCmd)
	claimsSubmitCmd.Flags().BoolVar(&claimSaveAsDraft, "draft", false, "Save the form locally instead of submitting")
	claimsSubmitCmd.Flags().StringVar(&claimFromDraft, "from-draft", "", "Submit a locally saved draft by id")

	addClaimFormFlags(claimsEditCmd)

	for _, c := range []*cobra.Command{claimsApproveCmd, claimsRejectCmd, claimsReturnCmd, claimsActCmd} {
		c.Flags().StringVar(&claimComment, "comment", "", "Reviewer comment recorded with the transition")
	}

	addClaimFilterFlags(claimsExportCmd)

	claimsDraftsCmd.AddCommand(claimsDraftsRmCmd)
	claimsCmd.AddCommand(claimsListCmd)
	claimsCmd.AddCommand(claimsShowCmd)
	claimsCmd.AddCommand(claimsSubmitCmd)
	claimsCmd.AddCommand(claimsEditCmd)
	claimsCmd.AddCommand(claimsRmCmd)
	claimsCmd.AddCommand(claimsDraftsCmd)
	claimsCmd.AddCommand(claimsApproveCmd)
	claimsCmd.AddCommand(claimsRejectCmd)
	claimsCmd.AddCommand(claimsReturnCmd)
	claimsCmd.AddCommand(claimsActCmd)
	claimsCmd.AddCommand(claimsExportCmd)
}
