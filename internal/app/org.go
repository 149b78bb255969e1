package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/api"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/fetch"
	"github.com/paracurve/claimdesk/internal/notify"
)

// OrgService serves the organizational reference data the forms and admin
// screens work with: departments, IBUs, projects and the employee directory.
type OrgService struct {
	api    *api.Client
	cache  *fetch.Store
	center *notify.Center
	logger *zap.Logger
}

// NewOrgService creates a new OrgService.
func NewOrgService(client *api.Client, cache *fetch.Store, center *notify.Center, logger *zap.Logger) *OrgService {
	return &OrgService{
		api:    client,
		cache:  cache,
		center: center,
		logger: logger,
	}
}

// Departments returns all departments, cache-served within the staleness
// window.
func (s *OrgService) Departments(ctx context.Context) ([]domain.Department, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourceDepartments), s.api.ListDepartments)
}

// CreateDepartment adds a department.
func (s *OrgService) CreateDepartment(ctx context.Context, in domain.DepartmentInput) (*domain.Department, error) {
	created, err := s.api.CreateDepartment(ctx, in)
	if err != nil {
		s.logger.Error("Department create failed", zap.Error(err))
		s.center.Push(notify.LevelError, resourceDepartments, "Department create failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceDepartments)
	s.center.Push(notify.LevelSuccess, resourceDepartments, "Department created", created.Name)
	return created, nil
}

// UpdateDepartment replaces a department's fields.
func (s *OrgService) UpdateDepartment(ctx context.Context, id string, in domain.DepartmentInput) (*domain.Department, error) {
	updated, err := s.api.UpdateDepartment(ctx, id, in)
	if err != nil {
		s.logger.Error("Department update failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceDepartments, "Department update failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceDepartments)
	s.center.Push(notify.LevelSuccess, resourceDepartments, "Department updated", updated.Name)
	return updated, nil
}

// DeleteDepartment removes a department.
func (s *OrgService) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.api.DeleteDepartment(ctx, id); err != nil {
		s.logger.Error("Department delete failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceDepartments, "Department delete failed", err.Error())
		return err
	}
	s.cache.InvalidateResource(resourceDepartments)
	s.center.Push(notify.LevelSuccess, resourceDepartments, "Department deleted", id)
	return nil
}

// IBUs returns all independent business units, cache-served within the
// staleness window.
func (s *OrgService) IBUs(ctx context.Context) ([]domain.IBU, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourceIBUs), s.api.ListIBUs)
}

// CreateIBU adds an independent business unit.
func (s *OrgService) CreateIBU(ctx context.Context, in domain.IBUInput) (*domain.IBU, error) {
	created, err := s.api.CreateIBU(ctx, in)
	if err != nil {
		s.logger.Error("IBU create failed", zap.Error(err))
		s.center.Push(notify.LevelError, resourceIBUs, "IBU create failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceIBUs)
	s.center.Push(notify.LevelSuccess, resourceIBUs, "IBU created", created.Name)
	return created, nil
}

// UpdateIBU replaces an IBU's fields.
func (s *OrgService) UpdateIBU(ctx context.Context, id string, in domain.IBUInput) (*domain.IBU, error) {
	updated, err := s.api.UpdateIBU(ctx, id, in)
	if err != nil {
		s.logger.Error("IBU update failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceIBUs, "IBU update failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceIBUs)
	s.center.Push(notify.LevelSuccess, resourceIBUs, "IBU updated", updated.Name)
	return updated, nil
}

// DeleteIBU removes an independent business unit.
func (s *OrgService) DeleteIBU(ctx context.Context, id string) error {
	if err := s.api.DeleteIBU(ctx, id); err != nil {
		s.logger.Error("IBU delete failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceIBUs, "IBU delete failed", err.Error())
		return err
	}
	s.cache.InvalidateResource(resourceIBUs)
	s.center.Push(notify.LevelSuccess, resourceIBUs, "IBU deleted", id)
	return nil
}

// Projects returns the projects claims can be booked against.
func (s *OrgService) Projects(ctx context.Context) ([]domain.Project, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourceProjects), s.api.ListProjects)
}

// Employees returns the tenant's employee directory.
func (s *OrgService) Employees(ctx context.Context) ([]domain.Employee, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourceEmployees), s.api.ListEmployees)
}
