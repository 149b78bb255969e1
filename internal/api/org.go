package api

import (
	"context"

	"github.com/paracurve/claimdesk/internal/domain"
)

// ListDepartments returns the tenant's departments.
func (c *Client) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	if err := c.get(ctx, "/departments", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// CreateDepartment adds a department.
func (c *Client) CreateDepartment(ctx context.Context, in domain.DepartmentInput) (*domain.Department, error) {
	var out domain.Department
	if err := c.post(ctx, "/departments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDepartment replaces a department's fields.
func (c *Client) UpdateDepartment(ctx context.Context, id string, in domain.DepartmentInput) (*domain.Department, error) {
	var out domain.Department
	if err := c.put(ctx, "/departments/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDepartment removes a department.
func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return c.del(ctx, "/departments/"+id)
}

// ListIBUs returns the tenant's independent business units.
func (c *Client) ListIBUs(ctx context.Context) ([]domain.IBU, error) {
	var out []domain.IBU
	if err := c.get(ctx, "/ibus/", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// CreateIBU adds a business unit.
func (c *Client) CreateIBU(ctx context.Context, in domain.IBUInput) (*domain.IBU, error) {
	var out domain.IBU
	if err := c.post(ctx, "/ibus/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIBU replaces a business unit's fields.
func (c *Client) UpdateIBU(ctx context.Context, id string, in domain.IBUInput) (*domain.IBU, error) {
	var out domain.IBU
	if err := c.put(ctx, "/ibus/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteIBU removes a business unit.
func (c *Client) DeleteIBU(ctx context.Context, id string) error {
	return c.del(ctx, "/ibus/"+id)
}

// ListProjects returns the projects claims can be booked against.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := c.get(ctx, "/projects/", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// ListEmployees returns the employee directory.
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	if err := c.get(ctx, "/employees/", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}
