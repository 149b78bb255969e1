package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/session"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// Summary is the aggregated snapshot the dashboard renders. All numbers are
// computed client-side from the cached collections.
type Summary struct {
	ClaimsByStatus        map[domain.Status]int
	AllowancesByStatus    map[domain.Status]int
	ClaimTotalsByType     map[domain.ClaimType]float64
	AllowanceTotalsByType map[domain.AllowanceType]float64
	// PendingReview counts the documents sitting in the session role's
	// review queue. Zero when nobody is signed in.
	PendingReview int
}

// DashboardService aggregates claims and allowances for the dashboard.
type DashboardService struct {
	claims     *ClaimService
	allowances *AllowanceService
	session    *session.Manager
	logger     *zap.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(claims *ClaimService, allowances *AllowanceService, sess *session.Manager, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		claims:     claims,
		allowances: allowances,
		session:    sess,
		logger:     logger,
	}
}

// Summary fetches both collections (cache-served when fresh) and aggregates
// them.
func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	claims, err := s.claims.List(ctx)
	if err != nil {
		return nil, err
	}
	allowances, err := s.allowances.List(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		ClaimsByStatus:        make(map[domain.Status]int),
		AllowancesByStatus:    make(map[domain.Status]int),
		ClaimTotalsByType:     make(map[domain.ClaimType]float64),
		AllowanceTotalsByType: make(map[domain.AllowanceType]float64),
	}
	for _, c := range claims {
		sum.ClaimsByStatus[c.Status]++
		sum.ClaimTotalsByType[c.Type] += c.Amount
	}
	for _, a := range allowances {
		sum.AllowancesByStatus[a.Status]++
		sum.AllowanceTotalsByType[a.Type] += a.Amount
	}

	identity, err := s.session.Identity()
	switch {
	case errors.Is(err, session.ErrNoSession):
		// Anonymous dashboards show the aggregates without an inbox.
	case err != nil:
		return nil, err
	default:
		for _, c := range claims {
			if workflow.CanReview(identity.Role, c.Status) {
				sum.PendingReview++
			}
		}
		for _, a := range allowances {
			if workflow.CanReview(identity.Role, a.Status) {
				sum.PendingReview++
			}
		}
	}
	return sum, nil
}
