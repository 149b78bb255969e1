package workflow

import "github.com/paracurve/claimdesk/internal/domain"

// reviewerRoles maps each in-review status to the role whose queue it
// sits in.
var reviewerRoles = map[domain.Status]domain.Role{
	domain.StatusPendingManager: domain.RoleManager,
	domain.StatusPendingHR:      domain.RoleHR,
	domain.StatusPendingFinance: domain.RoleFinance,
}

// ReviewerRole returns the role expected to act on a document in the
// given status. ok is false for statuses that are not awaiting review.
func ReviewerRole(s domain.Status) (domain.Role, bool) {
	role, ok := reviewerRoles[s]
	return role, ok
}

// CanReview reports whether a user with the role may act on a document in
// the given status. Admins may act wherever a reviewer could.
func CanReview(role domain.Role, s domain.Status) bool {
	reviewer, ok := reviewerRoles[s]
	if !ok {
		return false
	}
	return role == reviewer || role == domain.RoleAdmin
}
