package service

import (
	"context"
	"strings"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/idx"
)

// ApplicationService manages the protected-resource catalog. Read-mostly:
// applications and resources are seeded at deployment and consulted by the
// privilege resolver.
type ApplicationService struct {
	Store store.Store
}

func (s *ApplicationService) CreateApplication(ctx context.Context, code, name, description, edition, version string) (domain.Application, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return domain.Application{}, NewValidationError("code", "required")
	}
	if name == "" {
		return domain.Application{}, NewValidationError("name", "required")
	}

	app := domain.Application{
		ID:          idx.New().String(),
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(description),
		Edition:     edition,
		Version:     version,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Store.Applications().CreateApplication(ctx, app); err != nil {
		return domain.Application{}, mapWriteErr(err)
	}
	return app, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, id string) (domain.Application, error) {
	a, err := s.Store.Applications().GetApplicationByID(ctx, id)
	if err != nil {
		return domain.Application{}, mapReadErr(err)
	}
	return a, nil
}

func (s *ApplicationService) ListApplications(ctx context.Context) ([]domain.Application, error) {
	list, err := s.Store.Applications().ListApplications(ctx)
	if err != nil {
		return nil, mapInfra(err)
	}
	return list, nil
}

func (s *ApplicationService) ChangeApplicationStatus(ctx context.Context, id string, active bool) error {
	if err := s.Store.Applications().SetApplicationActive(ctx, id, active); err != nil {
		return mapReadErr(err)
	}
	return nil
}

// CreateAppResource registers a protected resource under an application. The
// capability flags fix which privilege bits can ever be granted on it.
func (s *ApplicationService) CreateAppResource(ctx context.Context, applicationID, code, name, description string, capabilities domain.PrivilegeSet) (domain.AppResource, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return domain.AppResource{}, NewValidationError("code", "required")
	}
	if name == "" {
		return domain.AppResource{}, NewValidationError("name", "required")
	}
	if capabilities.IsZero() {
		return domain.AppResource{}, NewValidationError("capabilities", "at least one capability required")
	}

	if _, err := s.Store.Applications().GetApplicationByID(ctx, applicationID); err != nil {
		return domain.AppResource{}, mapReadErr(err)
	}

	res := domain.AppResource{
		ID:            idx.New().String(),
		ApplicationID: applicationID,
		Code:          code,
		Name:          name,
		Description:   strings.TrimSpace(description),
		Capabilities:  capabilities,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Store.AppResources().CreateAppResource(ctx, res); err != nil {
		return domain.AppResource{}, mapWriteErr(err)
	}
	return res, nil
}

func (s *ApplicationService) ListApplicationResources(ctx context.Context, applicationID string) ([]domain.AppResource, error) {
	list, err := s.Store.AppResources().ListApplicationResources(ctx, applicationID)
	if err != nil {
		return nil, mapInfra(err)
	}
	return list, nil
}
