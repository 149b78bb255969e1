package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Company policy documents",
}

var (
	policyTitle       string
	policyDescription string
)

var policiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policy documents",
	Args:  cobra.NoArgs,
	RunE:  runPoliciesList,
}

var policiesUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a new policy document",
	Long: `Uploads a policy document for approval. The file is checked locally
(size, content type) before anything goes over the wire.

  claimdesk policies upload travel-policy.pdf --title "Travel & Expense Policy"`,
	Args: cobra.ExactArgs(1),
	RunE: runPoliciesUpload,
}

var policiesApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve an uploaded policy document",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoliciesApprove,
}

func runPoliciesList(cmd *cobra.Command, args []string) error {
	policies, err := policiesSvc.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(policies) == 0 {
		fmt.Println("No policies uploaded.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "ID\tTITLE\tVERSION\tSTATUS\tFILE\tUPLOADED")
	for _, p := range policies {
		fmt.Fprintf(w, "%s\t%s\tv%d\t%s\t%s\t%s\n",
			p.ID, p.Title, p.Version, p.Status, p.FileName, day(p.UploadedAt))
	}
	return w.Flush()
}

func runPoliciesUpload(cmd *cobra.Command, args []string) error {
	policy, err := policiesSvc.Upload(cmd.Context(), args[0], policyTitle, policyDescription)
	if err != nil {
		return err
	}
	fmt.Printf("Policy %q uploaded as %s (v%d, %s).\n", policy.Title, policy.ID, policy.Version, policy.Status)
	return nil
}

func runPoliciesApprove(cmd *cobra.Command, args []string) error {
	policy, err := policiesSvc.Approve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Policy %q approved.\n", policy.Title)
	return nil
}

func init() {
	policiesUploadCmd.Flags().StringVar(&policyTitle, "title", "", "Policy title (required)")
	policiesUploadCmd.Flags().StringVar(&policyDescription, "description", "", "What the policy covers")
	_ = policiesUploadCmd.MarkFlagRequired("title")

	policiesCmd.AddCommand(policiesListCmd)
	policiesCmd.AddCommand(policiesUploadCmd)
	policiesCmd.AddCommand(policiesApproveCmd)
}
