package stubapi

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// errNotFound maps to a 404 response.
var errNotFound = errors.New("not found")

// stateError is a request that is well-formed but not applicable to the
// document's current state. Maps to a 422 response with the error text as
// the message.
type stateError struct {
	msg string
}

func (e *stateError) Error() string { return e.msg }

func stateErrorf(format string, args ...any) error {
	return &stateError{msg: fmt.Sprintf(format, args...)}
}

// memoryStore holds the fixture data. Everything lives in memory and is
// lost on restart, which is the point: the stub resets to its seed.
type memoryStore struct {
	mu          sync.Mutex
	claims      map[string]*domain.Claim
	allowances  map[string]*domain.Allowance
	policies    map[string]*domain.Policy
	departments map[string]*domain.Department
	ibus        map[string]*domain.IBU
	projects    []domain.Project
	employees   []domain.Employee
	seq         int

	now func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		claims:      make(map[string]*domain.Claim),
		allowances:  make(map[string]*domain.Allowance),
		policies:    make(map[string]*domain.Policy),
		departments: make(map[string]*domain.Department),
		ibus:        make(map[string]*domain.IBU),
		now:         time.Now,
	}
}

// nextSeq returns the next sequence number. Callers must hold the lock.
func (st *memoryStore) nextSeq() int {
	st.seq++
	return st.seq
}

func cloneClaim(c *domain.Claim) *domain.Claim {
	dup := *c
	dup.History = append(domain.ApprovalHistory(nil), c.History...)
	dup.Attachments = append([]domain.Attachment(nil), c.Attachments...)
	if c.AIScore != nil {
		score := *c.AIScore
		dup.AIScore = &score
	}
	return &dup
}

func cloneAllowance(a *domain.Allowance) *domain.Allowance {
	dup := *a
	dup.History = append(domain.ApprovalHistory(nil), a.History...)
	return &dup
}

func (st *memoryStore) listClaims() []domain.Claim {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.Claim, 0, len(st.claims))
	for _, c := range st.claims {
		out = append(out, *cloneClaim(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (st *memoryStore) getClaim(id string) (*domain.Claim, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	c, ok := st.claims[id]
	if !ok {
		return nil, errNotFound
	}
	return cloneClaim(c), nil
}

func (st *memoryStore) createClaim(in domain.ClaimInput, actor domain.User) *domain.Claim {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now().UTC()
	seq := st.nextSeq()
	department := in.Department
	if department == "" {
		department = actor.Department
	}
	claim := &domain.Claim{
		ID:           fmt.Sprintf("clm-%04d", seq),
		Number:       fmt.Sprintf("CLM-%d-%04d", now.Year(), seq),
		TenantID:     tenantID(actor),
		EmployeeID:   actor.ID,
		EmployeeName: actor.Name,
		Department:   department,
		ProjectID:    in.ProjectID,
		Type:         in.Type,
		Description:  in.Description,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Status:       domain.StatusDraft,
		SubmittedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Creation and submission are one step on the wire; the recorded
	// transition keeps the history consistent with the resulting status.
	workflow.Record(claim, workflow.ActionSubmit, actor, domain.StatusSubmitted, "", now)

	st.claims[claim.ID] = claim
	return cloneClaim(claim)
}

func (st *memoryStore) updateClaim(id string, in domain.ClaimInput) (*domain.Claim, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	c, ok := st.claims[id]
	if !ok {
		return nil, errNotFound
	}
	if c.Status != domain.StatusDraft && c.Status != domain.StatusReturned {
		return nil, stateErrorf("claim %s is %s and cannot be edited", c.Number, c.Status)
	}
	c.Type = in.Type
	c.Description = in.Description
	c.Amount = in.Amount
	c.Currency = in.Currency
	if in.Department != "" {
		c.Department = in.Department
	}
	c.ProjectID = in.ProjectID
	c.UpdatedAt = st.now().UTC()
	return cloneClaim(c), nil
}

func (st *memoryStore) deleteClaim(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	c, ok := st.claims[id]
	if !ok {
		return errNotFound
	}
	if c.Status != domain.StatusDraft {
		return stateErrorf("claim %s is %s; only drafts can be deleted", c.Number, c.Status)
	}
	delete(st.claims, id)
	return nil
}

func (st *memoryStore) applyClaimTransition(id string, action workflow.Action, actor domain.User, comment string) (*domain.Claim, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	c, ok := st.claims[id]
	if !ok {
		return nil, errNotFound
	}
	to, ok := workflow.ClaimLifecycle().Target(c.Status, action)
	if !ok {
		return nil, stateErrorf("cannot %s a claim in status %s", action, c.Status)
	}
	workflow.Record(c, action, actor, to, comment, st.now().UTC())
	return cloneClaim(c), nil
}

func (st *memoryStore) listAllowances() []domain.Allowance {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.Allowance, 0, len(st.allowances))
	for _, a := range st.allowances {
		out = append(out, *cloneAllowance(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (st *memoryStore) getAllowance(id string) (*domain.Allowance, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	a, ok := st.allowances[id]
	if !ok {
		return nil, errNotFound
	}
	return cloneAllowance(a), nil
}

func (st *memoryStore) createAllowance(in domain.AllowanceInput, actor domain.User) *domain.Allowance {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now().UTC()
	seq := st.nextSeq()
	department := in.Department
	if department == "" {
		department = actor.Department
	}
	allowance := &domain.Allowance{
		ID:           fmt.Sprintf("alw-%04d", seq),
		Number:       fmt.Sprintf("ALW-%d-%04d", now.Year(), seq),
		TenantID:     tenantID(actor),
		EmployeeID:   actor.ID,
		EmployeeName: actor.Name,
		Department:   department,
		Type:         in.Type,
		Period:       in.Period,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Status:       domain.StatusDraft,
		SubmittedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	workflow.Record(allowance, workflow.ActionSubmit, actor, domain.StatusSubmitted, "", now)

	st.allowances[allowance.ID] = allowance
	return cloneAllowance(allowance)
}

func (st *memoryStore) updateAllowance(id string, in domain.AllowanceInput) (*domain.Allowance, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	a, ok := st.allowances[id]
	if !ok {
		return nil, errNotFound
	}
	if a.Status != domain.StatusDraft && a.Status != domain.StatusReturned {
		return nil, stateErrorf("allowance %s is %s and cannot be edited", a.Number, a.Status)
	}
	a.Type = in.Type
	a.Period = in.Period
	a.Amount = in.Amount
	a.Currency = in.Currency
	if in.Department != "" {
		a.Department = in.Department
	}
	a.UpdatedAt = st.now().UTC()
	return cloneAllowance(a), nil
}

func (st *memoryStore) deleteAllowance(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	a, ok := st.allowances[id]
	if !ok {
		return errNotFound
	}
	if a.Status != domain.StatusDraft {
		return stateErrorf("allowance %s is %s; only drafts can be deleted", a.Number, a.Status)
	}
	delete(st.allowances, id)
	return nil
}

func (st *memoryStore) applyAllowanceTransition(id string, action workflow.Action, actor domain.User, comment string) (*domain.Allowance, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	a, ok := st.allowances[id]
	if !ok {
		return nil, errNotFound
	}
	to, ok := workflow.AllowanceLifecycle().Target(a.Status, action)
	if !ok {
		return nil, stateErrorf("cannot %s an allowance in status %s", action, a.Status)
	}
	workflow.Record(a, action, actor, to, comment, st.now().UTC())
	return cloneAllowance(a), nil
}

func (st *memoryStore) listPolicies() []domain.Policy {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.Policy, 0, len(st.policies))
	for _, p := range st.policies {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (st *memoryStore) createPolicy(title, description, fileName string, actor domain.User) *domain.Policy {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now().UTC()
	policy := &domain.Policy{
		ID:          fmt.Sprintf("pol-%04d", st.nextSeq()),
		TenantID:    tenantID(actor),
		Title:       title,
		Version:     1,
		FileName:    fileName,
		Status:      domain.StatusSubmitted,
		UploadedBy:  actor.ID,
		UploadedAt:  now,
		Description: description,
	}
	st.policies[policy.ID] = policy
	dup := *policy
	return &dup
}

func (st *memoryStore) approvePolicy(id string, actor domain.User) (*domain.Policy, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.policies[id]
	if !ok {
		return nil, errNotFound
	}
	if p.Status == domain.StatusApproved {
		return nil, stateErrorf("policy %q is already approved", p.Title)
	}
	now := st.now().UTC()
	p.Status = domain.StatusApproved
	p.ApprovedBy = actor.ID
	p.ApprovedAt = &now
	dup := *p
	return &dup, nil
}

func (st *memoryStore) listDepartments() []domain.Department {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.Department, 0, len(st.departments))
	for _, d := range st.departments {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (st *memoryStore) createDepartment(in domain.DepartmentInput, actor domain.User) *domain.Department {
	st.mu.Lock()
	defer st.mu.Unlock()

	d := &domain.Department{
		ID:        fmt.Sprintf("dep-%04d", st.nextSeq()),
		TenantID:  tenantID(actor),
		Name:      in.Name,
		Code:      in.Code,
		HeadID:    in.HeadID,
		IBUID:     in.IBUID,
		CreatedAt: st.now().UTC(),
	}
	st.departments[d.ID] = d
	dup := *d
	return &dup
}

func (st *memoryStore) updateDepartment(id string, in domain.DepartmentInput) (*domain.Department, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	d, ok := st.departments[id]
	if !ok {
		return nil, errNotFound
	}
	d.Name = in.Name
	d.Code = in.Code
	d.HeadID = in.HeadID
	d.IBUID = in.IBUID
	dup := *d
	return &dup, nil
}

func (st *memoryStore) deleteDepartment(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.departments[id]; !ok {
		return errNotFound
	}
	delete(st.departments, id)
	return nil
}

func (st *memoryStore) listIBUs() []domain.IBU {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.IBU, 0, len(st.ibus))
	for _, b := range st.ibus {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (st *memoryStore) createIBU(in domain.IBUInput, actor domain.User) *domain.IBU {
	st.mu.Lock()
	defer st.mu.Unlock()

	b := &domain.IBU{
		ID:        fmt.Sprintf("ibu-%04d", st.nextSeq()),
		TenantID:  tenantID(actor),
		Name:      in.Name,
		Code:      in.Code,
		Budget:    in.Budget,
		Currency:  in.Currency,
		OwnerID:   in.OwnerID,
		CreatedAt: st.now().UTC(),
	}
	st.ibus[b.ID] = b
	dup := *b
	return &dup
}

func (st *memoryStore) updateIBU(id string, in domain.IBUInput) (*domain.IBU, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	b, ok := st.ibus[id]
	if !ok {
		return nil, errNotFound
	}
	b.Name = in.Name
	b.Code = in.Code
	b.Budget = in.Budget
	b.Currency = in.Currency
	b.OwnerID = in.OwnerID
	dup := *b
	return &dup, nil
}

func (st *memoryStore) deleteIBU(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.ibus[id]; !ok {
		return errNotFound
	}
	delete(st.ibus, id)
	return nil
}

func (st *memoryStore) listProjects() []domain.Project {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]domain.Project(nil), st.projects...)
}

func (st *memoryStore) listEmployees() []domain.Employee {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]domain.Employee(nil), st.employees...)
}

// tenantID falls back to the demo tenant for callers whose token carries
// none, such as plain opaque test tokens.
func tenantID(actor domain.User) string {
	if actor.TenantID != "" {
		return actor.TenantID
	}
	return "tenant-demo"
}
