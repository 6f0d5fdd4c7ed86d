package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// UserService implements account management.
type UserService struct {
	repo    ports.UserRepository
	catalog ports.ServiceRepository
	logger  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, catalog ports.ServiceRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, catalog: catalog, logger: logger}
}

var _ ports.UserService = (*UserService)(nil)

func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	if err := authorize(s.logger, actor, domain.OpManageUsers); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Get returns an account. Anyone may read their own account.
func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if actor.ID != id {
		if err := authorize(s.logger, actor, domain.OpManageUsers); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (*domain.User, error) {
	if err := authorize(s.logger, actor, domain.OpManageUsers); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidUser)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	email, err := checkEmail(in.Email)
	if err != nil {
		return nil, err
	}
	services, err := s.checkAffiliations(ctx, in.Services)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Role:         role,
		Services:     services,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(role)).Str("actor_id", actor.ID).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if err := authorize(s.logger, actor, domain.OpManageUsers); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email, err := checkEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if in.Services != nil {
		services, err := s.checkAffiliations(ctx, in.Services)
		if err != nil {
			return nil, err
		}
		user.Services = services
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(s.logger, actor, domain.OpManageUsers); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrInvalidUser)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

// checkAffiliations requires at least one known service.
func (s *UserService) checkAffiliations(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, err := s.catalog.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrServiceNotFound) {
				return nil, fmt.Errorf("%w: unknown service %q", domain.ErrInvalidUser, id)
			}
			return nil, err
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", domain.ErrInvalidUser)
	}
	return out, nil
}

func checkEmail(raw string) (string, error) {
	email := domain.NormalizeEmail(raw)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalidUser, raw)
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// BootstrapAdmin creates an admin account when no user with email exists.
func BootstrapAdmin(ctx context.Context, repo ports.UserRepository, email, password string, services []string) (*domain.User, error) {
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return repo.Create(ctx, &domain.User{
		Email:        domain.NormalizeEmail(email),
		FirstName:    "Admin",
		LastName:     "ARSN",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Services:     services,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
