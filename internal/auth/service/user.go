package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/cryptox"
	"github.com/tenauth/tenauth/pkg/idx"
)

// MinPasswordLen applies at registration only; verification accepts whatever
// hash is stored.
const MinPasswordLen = 8

type UserService struct {
	Store store.Store
}

type RegisterUserInput struct {
	TenantID  string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// RegisterUser creates a user under a tenant with a freshly hashed password.
func (s *UserService) RegisterUser(ctx context.Context, in RegisterUserInput) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return domain.User{}, NewValidationError("username", "required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domain.User{}, NewValidationError("email", "not a valid address")
	}
	if len(in.Password) < MinPasswordLen {
		return domain.User{}, NewValidationError("password", "too short")
	}

	if _, err := s.Store.Tenants().GetTenantByID(ctx, in.TenantID); err != nil {
		return domain.User{}, mapReadErr(err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		TenantID:     in.TenantID,
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, mapWriteErr(err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapReadErr(err)
	}
	return u, nil
}

func (s *UserService) ListTenantUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	list, err := s.Store.Users().ListTenantUsers(ctx, tenantID)
	if err != nil {
		return nil, mapInfra(err)
	}
	return list, nil
}

func (s *UserService) ChangeUserStatus(ctx context.Context, userID string, active bool) error {
	if err := s.Store.Users().SetUserActive(ctx, userID, active); err != nil {
		return mapReadErr(err)
	}
	return nil
}

// DeleteUser removes the user; refresh tokens and role assignments go with
// it (schema cascade).
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

// AssignRole grants a role to a user. The role must live in the user's
// tenant; cross-tenant assignments are rejected, not silently ignored.
func (s *UserService) AssignRole(ctx context.Context, userID, roleID string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return mapReadErr(err)
	}
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return mapReadErr(err)
	}
	if role.TenantID != user.TenantID {
		return NewValidationError("role_id", "role belongs to a different tenant")
	}

	if err := s.Store.UserRoles().AssignRole(ctx, userID, roleID); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (s *UserService) UnassignRole(ctx context.Context, userID, roleID string) error {
	if err := s.Store.UserRoles().UnassignRole(ctx, userID, roleID); err != nil {
		return mapReadErr(err)
	}
	return nil
}
