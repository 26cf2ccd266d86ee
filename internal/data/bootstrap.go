package data

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/codequest-platform/backend/internal/domain"
	"github.com/codequest-platform/backend/internal/infrastructure"
)

// Bootstrap provisions initial data at startup
type Bootstrap struct {
	userRepo domain.UserRepository
	logger   *zap.Logger
}

// NewBootstrap creates a new bootstrapper
func NewBootstrap(userRepo domain.UserRepository, logger *zap.Logger) *Bootstrap {
	return &Bootstrap{
		userRepo: userRepo,
		logger:   logger,
	}
}

// EnsureAdmin creates the admin account from environment configuration when
// it does not exist yet. With no credentials configured this is a no-op, so
// fresh installs without BOOTSTRAP_* variables come up admin-less.
func (b *Bootstrap) EnsureAdmin(cfg *infrastructure.BootstrapConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		b.logger.Info("No bootstrap admin configured, skipping")
		return nil
	}

	existing, err := b.userRepo.FindByEmail(cfg.AdminEmail)
	if err != nil && err != domain.ErrUserNotFound {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin {
			existing.IsAdmin = true
			if err := b.userRepo.Update(existing); err != nil {
				return err
			}
			b.logger.Info("Granted admin capability to existing account",
				zap.String("email", cfg.AdminEmail),
			)
		}
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.UserProfile{
		Email:        cfg.AdminEmail,
		DisplayName:  "Administrator",
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}

	if err := b.userRepo.Create(admin); err != nil {
		// Lost a race with a concurrent instance bootstrapping the same admin.
		if err == domain.ErrUserAlreadyExists {
			return nil
		}
		return err
	}

	b.logger.Info("Bootstrap admin created",
		zap.String("email", cfg.AdminEmail),
	)
	return nil
}
