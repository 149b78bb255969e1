package domain

import "time"

// User is the authenticated session identity decoded from the access token.
type User struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	ManagerID  string `json:"manager_id,omitempty"`
}

// Employee is a directory entry served by the backend.
type Employee struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	ManagerID  string    `json:"manager_id,omitempty"`
	Active     bool      `json:"active"`
	JoinedAt   time.Time `json:"joined_at"`
}

// Department is an organizational unit employees belong to.
type Department struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	HeadID    string    `json:"head_id,omitempty"`
	IBUID     string    `json:"ibu_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DepartmentInput is the payload for creating or updating a department.
type DepartmentInput struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	HeadID string `json:"head_id,omitempty"`
	IBUID  string `json:"ibu_id,omitempty"`
}

// IBU is an Independent Business Unit, the budget-holding grouping above
// projects.
type IBU struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Budget    float64   `json:"budget"`
	Currency  string    `json:"currency"`
	OwnerID   string    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IBUInput is the payload for creating or updating an IBU.
type IBUInput struct {
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Budget   float64 `json:"budget"`
	Currency string  `json:"currency"`
	OwnerID  string  `json:"owner_id,omitempty"`
}

// Project is a cost-bearing project claims can be booked against.
type Project struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IBUID    string `json:"ibu_id,omitempty"`
	Active   bool   `json:"active"`
}

// Policy is an expense policy document with its own approval state.
type Policy struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	Title       string     `json:"title"`
	Version     int        `json:"version"`
	FileName    string     `json:"file_name"`
	Status      Status     `json:"status"`
	UploadedBy  string     `json:"uploaded_by"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	Description string     `json:"description,omitempty"`
}
