package domain

import (
	"fmt"
	"strings"
	"time"
)

// AllowanceType categorizes a recurring entitlement payment.
type AllowanceType string

const (
	AllowanceTypeOnCall  AllowanceType = "on_call"
	AllowanceTypeShift   AllowanceType = "shift"
	AllowanceTypeStandby AllowanceType = "standby"
	AllowanceTypeActing  AllowanceType = "acting"
	AllowanceTypeOther   AllowanceType = "other"
)

// Allowance is a periodic entitlement payment. Unlike claims, allowances
// skip the HR and finance review stages: manager approval moves them
// straight towards payroll.
type Allowance struct {
	ID           string        `json:"id"`
	Number       string        `json:"allowance_number"`
	TenantID     string        `json:"tenant_id"`
	EmployeeID   string        `json:"employee_id"`
	EmployeeName string        `json:"employee_name,omitempty"`
	Department   string        `json:"department"`
	Type         AllowanceType `json:"allowance_type"`
	// Period is the entitlement period in "2006-01" form.
	Period      string          `json:"period"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Status      Status          `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	History     ApprovalHistory `json:"approval_history"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Apply appends a transition and moves the allowance to its to-status.
func (a *Allowance) Apply(item ApprovalHistoryItem) {
	a.History = append(a.History, item)
	a.Status = item.ToStatus
	a.UpdatedAt = item.Timestamp
}

// CurrentStatus returns the allowance's present lifecycle status.
func (a *Allowance) CurrentStatus() Status {
	return a.Status
}

// CheckConsistency verifies the approval-history invariant for the allowance.
func (a *Allowance) CheckConsistency() error {
	return a.History.Validate(a.Status)
}

// AllowanceInput is the payload for creating or updating an allowance.
type AllowanceInput struct {
	Type       AllowanceType `json:"allowance_type"`
	Period     string        `json:"period"`
	Amount     float64       `json:"amount"`
	Currency   string        `json:"currency"`
	Department string        `json:"department,omitempty"`
}

// Validate performs the client-side form checks.
func (in AllowanceInput) Validate() error {
	if in.Type == "" {
		return fmt.Errorf("%w: allowance type is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Period) == "" {
		return fmt.Errorf("%w: period is required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01", in.Period); err != nil {
		return fmt.Errorf("%w: period must be YYYY-MM, got %q", ErrInvalidInput, in.Period)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %.2f", ErrInvalidInput, in.Amount)
	}
	if len(in.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code, got %q", ErrInvalidInput, in.Currency)
	}
	return nil
}
