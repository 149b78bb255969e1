package navigation

import "github.com/paracurve/claimdesk/internal/domain"

// The four static trees. generalTree and secondaryTree are filtered per
// role; adminTree is appended unfiltered for admins; platformTree is the
// exclusive navigation of system administrators.

var generalTree = []Item{
	{Label: "Dashboard", Path: "/dashboard", Icon: "layout-dashboard"},
	{
		Label: "My Claims", Path: "/claims", Icon: "receipt",
		Roles: []domain.Role{domain.RoleEmployee},
		Children: []Item{
			{Label: "New Claim", Path: "/claims/new", Icon: "plus", Roles: []domain.Role{domain.RoleEmployee}},
			{Label: "Drafts", Path: "/claims/drafts", Icon: "file", Roles: []domain.Role{domain.RoleEmployee}},
		},
	},
	{Label: "My Allowances", Path: "/allowances", Icon: "wallet", Roles: []domain.Role{domain.RoleEmployee}},
	{
		Label: "Approvals", Path: "/approvals", Icon: "check-circle",
		Roles: []domain.Role{domain.RoleManager, domain.RoleHR, domain.RoleFinance, domain.RoleAdmin},
		Children: []Item{
			{Label: "Claims Queue", Path: "/approvals/claims", Icon: "inbox",
				Roles: []domain.Role{domain.RoleManager, domain.RoleHR, domain.RoleFinance, domain.RoleAdmin}},
			{Label: "Allowances Queue", Path: "/approvals/allowances", Icon: "inbox",
				Roles: []domain.Role{domain.RoleManager, domain.RoleAdmin}},
			{Label: "Payroll Export", Path: "/approvals/payroll", Icon: "banknote",
				Roles: []domain.Role{domain.RoleFinance, domain.RoleAdmin}},
		},
	},
	{Label: "Employees", Path: "/employees", Icon: "users", Roles: []domain.Role{domain.RoleHR, domain.RoleAdmin}},
	{Label: "Projects", Path: "/projects", Icon: "folder", Roles: []domain.Role{domain.RoleEmployee}},
	{Label: "Business Units", Path: "/ibus", Icon: "building", Roles: []domain.Role{domain.RoleFinance, domain.RoleAdmin}},
}

var secondaryTree = []Item{
	{Label: "Policies", Path: "/policies", Icon: "book-open"},
	{Label: "Reports", Path: "/reports", Icon: "bar-chart",
		Roles: []domain.Role{domain.RoleManager, domain.RoleHR, domain.RoleFinance}},
	{Label: "Help Center", Path: "/help", Icon: "life-buoy"},
}

var adminTree = []Item{
	{
		Label: "Settings", Path: "/settings", Icon: "settings",
		Children: []Item{
			{Label: "General", Path: "/settings/general", Icon: "sliders"},
			{Label: "Claim Types", Path: "/settings/claim-types", Icon: "tags"},
			{Label: "Approval Chains", Path: "/settings/approval-chains", Icon: "git-merge"},
		},
	},
	{Label: "Departments", Path: "/departments", Icon: "git-branch"},
	{Label: "Policy Approvals", Path: "/policies/approvals", Icon: "file-check"},
	{Label: "Audit Log", Path: "/audit-log", Icon: "scroll-text"},
}

var platformTree = []Item{
	{Label: "Tenants", Path: "/platform/tenants", Icon: "globe"},
	{Label: "Plans & Billing", Path: "/platform/billing", Icon: "credit-card"},
	{Label: "System Health", Path: "/platform/health", Icon: "activity"},
	{Label: "Platform Audit", Path: "/platform/audit", Icon: "shield"},
}
