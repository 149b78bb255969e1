package api

import (
	"context"

	"github.com/paracurve/claimdesk/internal/domain"
)

// ListAllowances returns every allowance request visible to the caller.
func (c *Client) ListAllowances(ctx context.Context) ([]domain.Allowance, error) {
	var out []domain.Allowance
	if err := c.get(ctx, "/allowances/", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// GetAllowance returns one allowance by id, or (nil, nil) when it does not
// exist.
func (c *Client) GetAllowance(ctx context.Context, id string) (*domain.Allowance, error) {
	var out domain.Allowance
	if err := c.get(ctx, "/allowances/"+id, nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// CreateAllowance submits a new allowance request.
func (c *Client) CreateAllowance(ctx context.Context, in domain.AllowanceInput) (*domain.Allowance, error) {
	var out domain.Allowance
	if err := c.post(ctx, "/allowances/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAllowance replaces an allowance's editable fields.
func (c *Client) UpdateAllowance(ctx context.Context, id string, in domain.AllowanceInput) (*domain.Allowance, error) {
	var out domain.Allowance
	if err := c.put(ctx, "/allowances/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAllowance removes an allowance request.
func (c *Client) DeleteAllowance(ctx context.Context, id string) error {
	return c.del(ctx, "/allowances/"+id)
}

// RecordAllowanceTransition posts a workflow action for the allowance.
func (c *Client) RecordAllowanceTransition(ctx context.Context, id string, in TransitionInput) (*domain.Allowance, error) {
	var out domain.Allowance
	if err := c.post(ctx, "/allowances/"+id+"/transitions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
