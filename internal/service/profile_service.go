package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
}

func NewProfileService(profileRepo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// SaveProfile creates or updates the caller's display profile
func (s *ProfileService) SaveProfile(ctx context.Context, callerID, name string) (*domain.UserProfile, error) {
	profile := domain.NewUserProfile(callerID, strings.TrimSpace(name))
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("profile saved", slog.String("user_id", callerID))
	return profile, nil
}

// GetProfile retrieves a profile by user id
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// AssignRole sets a user's role. Admin only.
func (s *ProfileService) AssignRole(ctx context.Context, callerID, userID string, role domain.UserRole) error {
	if callerID == "" {
		return domain.ErrMissingIdentity
	}
	if userID == "" || !role.Valid() {
		return domain.ErrInvalidInput
	}

	callerRole, err := s.profileRepo.GetRole(ctx, callerID)
	if err != nil {
		return fmt.Errorf("failed to get caller role: %w", err)
	}
	if callerRole != domain.UserRoleAdmin {
		s.logger.Warn("role assignment denied",
			slog.String("caller_id", callerID),
			slog.String("target_id", userID),
		)
		return domain.ErrUnauthorized
	}

	if err := s.profileRepo.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.logger.Info("role assigned",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)
	return nil
}

// GetRole retrieves a user's role
func (s *ProfileService) GetRole(ctx context.Context, userID string) (domain.UserRole, error) {
	if userID == "" {
		return "", domain.ErrMissingIdentity
	}
	return s.profileRepo.GetRole(ctx, userID)
}
