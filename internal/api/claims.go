package api

import (
	"context"

	"github.com/paracurve/claimdesk/internal/domain"
)

// TransitionInput reports a workflow action to the backend, which decides
// whether the transition is legal and returns the updated document.
type TransitionInput struct {
	Action  string `json:"action"`
	Comment string `json:"comment,omitempty"`
}

// ListClaims returns every claim visible to the caller. Filtering, sorting
// and pagination happen client-side.
func (c *Client) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	var out []domain.Claim
	if err := c.get(ctx, "/custom-claims/", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// GetClaim returns one claim by id, or (nil, nil) when it does not exist.
func (c *Client) GetClaim(ctx context.Context, id string) (*domain.Claim, error) {
	var out domain.Claim
	if err := c.get(ctx, "/custom-claims/"+id, nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// CreateClaim submits a new claim.
func (c *Client) CreateClaim(ctx context.Context, in domain.ClaimInput) (*domain.Claim, error) {
	var out domain.Claim
	if err := c.post(ctx, "/custom-claims/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClaim replaces an existing claim's editable fields.
func (c *Client) UpdateClaim(ctx context.Context, id string, in domain.ClaimInput) (*domain.Claim, error) {
	var out domain.Claim
	if err := c.put(ctx, "/custom-claims/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClaim removes a claim. Only drafts are deletable; the backend
// rejects anything already in review.
func (c *Client) DeleteClaim(ctx context.Context, id string) error {
	return c.del(ctx, "/custom-claims/"+id)
}

// RecordClaimTransition posts a workflow action for the claim and returns
// the document as the backend now sees it, history included.
func (c *Client) RecordClaimTransition(ctx context.Context, id string, in TransitionInput) (*domain.Claim, error) {
	var out domain.Claim
	if err := c.post(ctx, "/custom-claims/"+id+"/transitions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
