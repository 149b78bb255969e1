package domain

import (
	"fmt"
	"strings"
	"time"
)

// ClaimType categorizes a reimbursement claim. Types are tenant-configurable
// on the backend, so the set is open; these are the built-in values.
type ClaimType string

const (
	ClaimTypeTravel        ClaimType = "travel"
	ClaimTypeMeal          ClaimType = "meal"
	ClaimTypeAccommodation ClaimType = "accommodation"
	ClaimTypeEquipment     ClaimType = "equipment"
	ClaimTypeCommunication ClaimType = "communication"
	ClaimTypeOther         ClaimType = "other"
)

// Attachment is a file reference attached to a claim. The binary content
// lives on the backend; the client only carries metadata.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Claim is an employee-submitted reimbursement request.
type Claim struct {
	ID           string    `json:"id"`
	Number       string    `json:"claim_number"`
	TenantID     string    `json:"tenant_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Department   string    `json:"department"`
	ProjectID    string    `json:"project_id,omitempty"`
	Type         ClaimType `json:"claim_type"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Status       Status    `json:"status"`
	// AIScore is a backend-computed confidence score in [0,1]. Display only.
	AIScore     *float64        `json:"ai_score,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	History     ApprovalHistory `json:"approval_history"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Apply appends a transition to the claim's history and moves its status to
// the entry's to-status. Legality is not checked here; the backend decides
// which transitions are allowed.
func (c *Claim) Apply(item ApprovalHistoryItem) {
	c.History = append(c.History, item)
	c.Status = item.ToStatus
	c.UpdatedAt = item.Timestamp
}

// CurrentStatus returns the claim's present lifecycle status.
func (c *Claim) CurrentStatus() Status {
	return c.Status
}

// CheckConsistency verifies the approval-history invariant for the claim.
func (c *Claim) CheckConsistency() error {
	return c.History.Validate(c.Status)
}

// ClaimInput is the payload for creating or updating a claim.
type ClaimInput struct {
	Type        ClaimType `json:"claim_type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Department  string    `json:"department,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
}

// Validate performs the client-side checks the form layer ran before
// submission. The backend revalidates authoritatively.
func (in ClaimInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %.2f", ErrInvalidInput, in.Amount)
	}
	if len(in.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code, got %q", ErrInvalidInput, in.Currency)
	}
	if in.Type == "" {
		return fmt.Errorf("%w: claim type is required", ErrInvalidInput)
	}
	return nil
}

// ClaimDraft is a locally saved, not yet submitted claim form.
type ClaimDraft struct {
	ID      string     `json:"id"`
	Input   ClaimInput `json:"input"`
	SavedAt time.Time  `json:"saved_at"`
}
