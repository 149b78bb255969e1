package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paracurve/claimdesk/internal/domain"
)

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Departments claims are charged to",
}

var ibusCmd = &cobra.Command{
	Use:   "ibus",
	Short: "Budget-holding business units",
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Projects expenses can be booked against",
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "The tenant's employee directory",
}

var (
	departmentName string
	departmentCode string
	departmentHead string
	departmentIBU  string
)

var (
	ibuName     string
	ibuCode     string
	ibuBudget   float64
	ibuCurrency string
	ibuOwner    string
)

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments",
	Args:  cobra.NoArgs,
	RunE:  runDepartmentsList,
}

var departmentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a department",
	Args:  cobra.NoArgs,
	RunE:  runDepartmentsAdd,
}

var departmentsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a department",
	Args:  cobra.ExactArgs(1),
	RunE:  runDepartmentsRm,
}

var ibusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List business units",
	Args:  cobra.NoArgs,
	RunE:  runIBUsList,
}

var ibusAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a business unit",
	Args:  cobra.NoArgs,
	RunE:  runIBUsAdd,
}

var ibusRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a business unit",
	Args:  cobra.ExactArgs(1),
	RunE:  runIBUsRm,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Args:  cobra.NoArgs,
	RunE:  runEmployeesList,
}

func runDepartmentsList(cmd *cobra.Command, args []string) error {
	departments, err := orgSvc.Departments(cmd.Context())
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		fmt.Println("No departments defined.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tHEAD\tIBU")
	for _, d := range departments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Code, d.HeadID, d.IBUID)
	}
	return w.Flush()
}

func runDepartmentsAdd(cmd *cobra.Command, args []string) error {
	department, err := orgSvc.CreateDepartment(cmd.Context(), domain.DepartmentInput{
		Name:   departmentName,
		Code:   departmentCode,
		HeadID: departmentHead,
		IBUID:  departmentIBU,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Department %s created (%s).\n", department.Name, department.ID)
	return nil
}

func runDepartmentsRm(cmd *cobra.Command, args []string) error {
	if err := orgSvc.DeleteDepartment(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Department %s deleted.\n", args[0])
	return nil
}

func runIBUsList(cmd *cobra.Command, args []string) error {
	ibus, err := orgSvc.IBUs(cmd.Context())
	if err != nil {
		return err
	}
	if len(ibus) == 0 {
		fmt.Println("No business units defined.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tBUDGET\tOWNER")
	for _, b := range ibus {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Code, money(b.Budget, b.Currency), b.OwnerID)
	}
	return w.Flush()
}

func runIBUsAdd(cmd *cobra.Command, args []string) error {
	ibu, err := orgSvc.CreateIBU(cmd.Context(), domain.IBUInput{
		Name:     ibuName,
		Code:     ibuCode,
		Budget:   ibuBudget,
		Currency: ibuCurrency,
		OwnerID:  ibuOwner,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Business unit %s created (%s).\n", ibu.Name, ibu.ID)
	return nil
}

func runIBUsRm(cmd *cobra.Command, args []string) error {
	if err := orgSvc.DeleteIBU(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Business unit %s deleted.\n", args[0])
	return nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	projects, err := orgSvc.Projects(cmd.Context())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects defined.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tIBU\tACTIVE")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", p.ID, p.Name, p.Code, p.IBUID, p.Active)
	}
	return w.Flush()
}

func runEmployeesList(cmd *cobra.Command, args []string) error {
	employees, err := orgSvc.Employees(cmd.Context())
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		fmt.Println("No employees found.")
		return nil
	}

	w := newTab(os.Stdout)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tDEPARTMENT\tJOINED")
	for _, e := range employees {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.Email, e.Role, e.Department, day(e.JoinedAt))
	}
	return w.Flush()
}

func init() {
	departmentsAddCmd.Flags().StringVar(&departmentName, "name", "", "Department name (required)")
	departmentsAddCmd.Flags().StringVar(&departmentCode, "code", "", "Short code (required)")
	departmentsAddCmd.Flags().StringVar(&departmentHead, "head", "", "Employee id of the department head")
	departmentsAddCmd.Flags().StringVar(&departmentIBU, "ibu", "", "Business unit the department belongs to")
	_ = departmentsAddCmd.MarkFlagRequired("name")
	_ = departmentsAddCmd.MarkFlagRequired("code")

	ibusAddCmd.Flags().StringVar(&ibuName, "name", "", "Business unit name (required)")
	ibusAddCmd.Flags().StringVar(&ibuCode, "code", "", "Short code (required)")
	ibusAddCmd.Flags().Float64Var(&ibuBudget, "budget", 0, "Annual budget")
	ibusAddCmd.Flags().StringVar(&ibuCurrency, "currency", "EUR", "Budget currency")
	ibusAddCmd.Flags().StringVar(&ibuOwner, "owner", "", "Employee id of the budget owner")
	_ = ibusAddCmd.MarkFlagRequired("name")
	_ = ibusAddCmd.MarkFlagRequired("code")

	departmentsCmd.AddCommand(departmentsListCmd)
	departmentsCmd.AddCommand(departmentsAddCmd)
	departmentsCmd.AddCommand(departmentsRmCmd)
	ibusCmd.AddCommand(ibusListCmd)
	ibusCmd.AddCommand(ibusAddCmd)
	ibusCmd.AddCommand(ibusRmCmd)
	projectsCmd.AddCommand(projectsListCmd)
	employeesCmd.AddCommand(employeesListCmd)
}
