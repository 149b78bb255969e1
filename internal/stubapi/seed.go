package stubapi

import (
	"fmt"
	"time"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// seedStep is one recorded transition in a fixture document's history.
type seedStep struct {
	action  workflow.Action
	actor   domain.User
	comment string
}

// walk replays the steps against the lifecycle, recording one transition per
// day. Seeds that drift out of sync with the lifecycle graph fail loudly at
// startup instead of serving documents with inconsistent histories.
func walk(doc workflow.Recordable, lc *workflow.Lifecycle, start time.Time, steps []seedStep) {
	at := start
	for _, s := range steps {
		to, ok := lc.Target(doc.CurrentStatus(), s.action)
		if !ok {
			panic(fmt.Sprintf("stubapi: seed step %q not permitted from status %q", s.action, doc.CurrentStatus()))
		}
		workflow.Record(doc, s.action, s.actor, to, s.comment, at)
		at = at.Add(24 * time.Hour)
	}
}

// The demo tenant's roster, one user per role. Exposed through DemoUsers so
// the CLI's demo login can mint tokens for the same identities the fixtures
// reference.
var (
	seedDana  = domain.User{ID: "emp-dana", TenantID: "tenant-demo", Name: "Dana Flores", Email: "dana.flores@example.test", Role: domain.RoleEmployee, Department: "Engineering", ManagerID: "emp-priya"}
	seedPriya = domain.User{ID: "emp-priya", TenantID: "tenant-demo", Name: "Priya Nair", Email: "priya.nair@example.test", Role: domain.RoleManager, Department: "Engineering"}
	seedMarco = domain.User{ID: "emp-marco", TenantID: "tenant-demo", Name: "Marco Hsu", Email: "marco.hsu@example.test", Role: domain.RoleHR, Department: "People Operations"}
	seedLeah  = domain.User{ID: "emp-leah", TenantID: "tenant-demo", Name: "Leah Okafor", Email: "leah.okafor@example.test", Role: domain.RoleFinance, Department: "Finance"}
	seedSam   = domain.User{ID: "emp-sam", TenantID: "tenant-demo", Name: "Sam Whitfield", Email: "sam.whitfield@example.test", Role: domain.RoleAdmin, Department: "Operations"}
)

// DemoUsers returns the identities seeded into the demo tenant.
func DemoUsers() []domain.User {
	return []domain.User{seedDana, seedPriya, seedMarco, seedLeah, seedSam}
}

// seed loads the demo tenant: a five-person org, reference data, and claims
// and allowances spread across the lifecycle so every screen has something
// to show. Runs once before the server accepts requests.
func (st *memoryStore) seed() {
	st.mu.Lock()
	defer st.mu.Unlock()

	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	dana, priya, marco, leah, sam := seedDana, seedPriya, seedMarco, seedLeah, seedSam

	for _, u := range []struct {
		user   domain.User
		joined time.Time
	}{
		{dana, base.AddDate(-2, -3, 0)},
		{priya, base.AddDate(-4, 0, 0)},
		{marco, base.AddDate(-3, -6, 0)},
		{leah, base.AddDate(-5, -1, 0)},
		{sam, base.AddDate(-6, 0, 0)},
	} {
		st.employees = append(st.employees, domain.Employee{
			ID:         u.user.ID,
			TenantID:   u.user.TenantID,
			Name:       u.user.Name,
			Email:      u.user.Email,
			Role:       u.user.Role,
			Department: u.user.Department,
			ManagerID:  u.user.ManagerID,
			Active:     true,
			JoinedAt:   u.joined,
		})
	}

	for _, d := range []domain.Department{
		{ID: "dep-eng", TenantID: "tenant-demo", Name: "Engineering", Code: "ENG", HeadID: priya.ID, IBUID: "ibu-plat", CreatedAt: base.AddDate(-6, 0, 0)},
		{ID: "dep-ppl", TenantID: "tenant-demo", Name: "People Operations", Code: "PPL", HeadID: marco.ID, CreatedAt: base.AddDate(-6, 0, 0)},
		{ID: "dep-fin", TenantID: "tenant-demo", Name: "Finance", Code: "FIN", HeadID: leah.ID, CreatedAt: base.AddDate(-6, 0, 0)},
	} {
		dep := d
		st.departments[dep.ID] = &dep
	}

	for _, b := range []domain.IBU{
		{ID: "ibu-plat", TenantID: "tenant-demo", Name: "Platform Engineering", Code: "PLAT", Budget: 250000, Currency: "EUR", OwnerID: sam.ID, CreatedAt: base.AddDate(-6, 0, 0)},
		{ID: "ibu-fops", TenantID: "tenant-demo", Name: "Field Operations", Code: "FOPS", Budget: 120000, Currency: "EUR", OwnerID: priya.ID, CreatedAt: base.AddDate(-5, 0, 0)},
	} {
		ibu := b
		st.ibus[ibu.ID] = &ibu
	}

	st.projects = []domain.Project{
		{ID: "prj-atlas", TenantID: "tenant-demo", Name: "Atlas", Code: "ATL", IBUID: "ibu-plat", Active: true},
		{ID: "prj-borealis", TenantID: "tenant-demo", Name: "Borealis", Code: "BOR", IBUID: "ibu-plat", Active: true},
		{ID: "prj-cedar", TenantID: "tenant-demo", Name: "Cedar", Code: "CED", IBUID: "ibu-fops", Active: false},
	}

	travelApprovedAt := base.AddDate(0, -2, 0)
	st.policies["pol-travel"] = &domain.Policy{
		ID: "pol-travel", TenantID: "tenant-demo", Title: "Travel & Expense Policy", Version: 3,
		FileName: "travel-expense-policy-v3.pdf", Status: domain.StatusApproved,
		UploadedBy: marco.ID, UploadedAt: base.AddDate(0, -2, -7),
		ApprovedBy: sam.ID, ApprovedAt: &travelApprovedAt,
		Description: "Reimbursement rules for travel, meals and accommodation.",
	}
	st.policies["pol-equipment"] = &domain.Policy{
		ID: "pol-equipment", TenantID: "tenant-demo", Title: "Remote Work Equipment Policy", Version: 1,
		FileName: "remote-equipment-policy.pdf", Status: domain.StatusSubmitted,
		UploadedBy: marco.ID, UploadedAt: base.AddDate(0, 0, -10),
		Description: "What home-office equipment the company pays for.",
	}

	aiScore := 0.87
	claims := []struct {
		seq    int
		owner  domain.User
		in     domain.ClaimInput
		start  time.Time
		steps  []seedStep
		mutate func(*domain.Claim)
	}{
		{
			seq: 1, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeTravel, Description: "Client visit in Rotterdam", Amount: 86.40, Currency: "EUR", ProjectID: "prj-atlas"},
			start: base,
		},
		{
			seq: 2, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeTravel, Description: "Rail ticket to Berlin offsite", Amount: 220.10, Currency: "EUR", ProjectID: "prj-atlas"},
			start: base.AddDate(0, 0, 3),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, "routed to Priya Nair"},
			},
			mutate: func(c *domain.Claim) { c.AIScore = &aiScore },
		},
		{
			seq: 3, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeEquipment, Description: "USB-C docking station", Amount: 189.00, Currency: "EUR", ProjectID: "prj-borealis"},
			start: base.AddDate(0, 0, 6),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionApprove, priya, "within team budget"},
				{workflow.ActionApprove, marco, ""},
			},
		},
		{
			seq: 4, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeAccommodation, Description: "Hotel for QBR week", Amount: 412.30, Currency: "EUR", ProjectID: "prj-atlas"},
			start: base.AddDate(0, 0, 9),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionApprove, priya, ""},
				{workflow.ActionApprove, marco, ""},
				{workflow.ActionApprove, leah, ""},
			},
		},
		{
			seq: 5, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeTravel, Description: "Taxi from airport", Amount: 35.60, Currency: "EUR"},
			start: base.AddDate(0, 0, 12),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionApprove, priya, ""},
				{workflow.ActionApprove, marco, ""},
				{workflow.ActionApprove, leah, ""},
				{workflow.ActionFinanceApprove, leah, "booked to cost center 1204"},
				{workflow.ActionSettle, leah, ""},
			},
			mutate: func(c *domain.Claim) {
				c.Attachments = []domain.Attachment{{
					ID: "att-0001", FileName: "taxi-receipt.pdf",
					ContentType: "application/pdf", SizeBytes: 48213,
					UploadedAt: base.AddDate(0, 0, 12),
				}}
			},
		},
		{
			seq: 6, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeMeal, Description: "Lunch with vendor", Amount: 58.20, Currency: "EUR"},
			start: base.AddDate(0, 0, 15),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionReturn, priya, "receipt missing"},
			},
		},
		{
			seq: 7, owner: dana,
			in:    domain.ClaimInput{Type: domain.ClaimTypeOther, Description: "Conference swag", Amount: 75.00, Currency: "EUR"},
			start: base.AddDate(0, 0, 18),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionReject, priya, "not reimbursable under the travel policy"},
			},
		},
	}
	for _, c := range claims {
		claim := &domain.Claim{
			ID:           fmt.Sprintf("clm-%04d", c.seq),
			Number:       fmt.Sprintf("CLM-2026-%04d", c.seq),
			TenantID:     "tenant-demo",
			EmployeeID:   c.owner.ID,
			EmployeeName: c.owner.Name,
			Department:   c.owner.Department,
			ProjectID:    c.in.ProjectID,
			Type:         c.in.Type,
			Description:  c.in.Description,
			Amount:       c.in.Amount,
			Currency:     c.in.Currency,
			Status:       domain.StatusDraft,
			SubmittedAt:  c.start,
			CreatedAt:    c.start,
			UpdatedAt:    c.start,
		}
		walk(claim, workflow.ClaimLifecycle(), c.start, c.steps)
		if c.mutate != nil {
			c.mutate(claim)
		}
		st.claims[claim.ID] = claim
	}

	allowances := []struct {
		seq   int
		owner domain.User
		in    domain.AllowanceInput
		start time.Time
		steps []seedStep
	}{
		{
			seq: 1, owner: dana,
			in:    domain.AllowanceInput{Type: domain.AllowanceTypeOnCall, Period: "2026-05", Amount: 240, Currency: "EUR"},
			start: base.AddDate(0, 0, 1),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
			},
		},
		{
			seq: 2, owner: dana,
			in:    domain.AllowanceInput{Type: domain.AllowanceTypeShift, Period: "2026-04", Amount: 180, Currency: "EUR"},
			start: base.AddDate(0, -1, 0),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionApprove, priya, ""},
			},
		},
		{
			seq: 3, owner: dana,
			in:    domain.AllowanceInput{Type: domain.AllowanceTypeStandby, Period: "2026-03", Amount: 160, Currency: "EUR"},
			start: base.AddDate(0, -2, 0),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionApprove, priya, ""},
				{workflow.ActionPayroll, leah, ""},
			},
		},
		{
			seq: 4, owner: dana,
			in:    domain.AllowanceInput{Type: domain.AllowanceTypeOnCall, Period: "2026-02", Amount: 240, Currency: "EUR"},
			start: base.AddDate(0, -3, 0),
			steps: []seedStep{
				{workflow.ActionSubmit, dana, ""},
				{workflow.ActionRoute, sam, ""},
				{workflow.ActionApprove, priya, ""},
				{workflow.ActionPayroll, leah, ""},
				{workflow.ActionSettle, leah, "paid with February payroll"},
			},
		},
	}
	for _, a := range allowances {
		allowance := &domain.Allowance{
			ID:           fmt.Sprintf("alw-%04d", a.seq),
			Number:       fmt.Sprintf("ALW-2026-%04d", a.seq),
			TenantID:     "tenant-demo",
			EmployeeID:   a.owner.ID,
			EmployeeName: a.owner.Name,
			Department:   a.owner.Department,
			Type:         a.in.Type,
			Period:       a.in.Period,
			Amount:       a.in.Amount,
			Currency:     a.in.Currency,
			Status:       domain.StatusDraft,
			SubmittedAt:  a.start,
			CreatedAt:    a.start,
			UpdatedAt:    a.start,
		}
		walk(allowance, workflow.AllowanceLifecycle(), a.start, a.steps)
		st.allowances[allowance.ID] = allowance
	}

	// Runtime creations start well clear of the seeded numbers.
	st.seq = 100
}
