// Package app hosts the application services the UI calls. Each service
// coordinates the REST client, the read-through cache, the notification
// center and local storage for one resource family. Queries go through the
// cache; mutations hit the backend directly and invalidate on success only.
package app

// Cache resource names. Collection and item keys for every backend resource
// are derived from these, so invalidation and lookups always agree.
const (
	resourceClaims      = "claims"
	resourceAllowances  = "allowances"
	resourcePolicies    = "policies"
	resourceDepartments = "departments"
	resourceIBUs        = "ibus"
	resourceProjects    = "projects"
	resourceEmployees   = "employees"
)
