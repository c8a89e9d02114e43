package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/liahub/liahub-backend/internal/app/models"
	appRepos "github.com/liahub/liahub-backend/internal/app/repositories"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
	"github.com/liahub/liahub-backend/internal/pkg/auth"
)

// CreateDefaultData creates a default school organization with an admin
// account so a fresh installation is usable right away.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	orgRepo := appRepos.NewOrganizationRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	school, err := orgRepo.FindByName(ctx, "LiaHub Demo School")
	if errors.Is(err, apperrors.ErrOrganizationNotFound) {
		school = &appModels.Organization{
			ID:           uuid.New(),
			Name:         "LiaHub Demo School",
			Kind:         appModels.OrganizationSchool,
			ContactEmail: "admin@liahub.app",
			City:         "Stockholm",
		}
		if err := orgRepo.Create(ctx, school); err != nil {
			lgr.Error().Err(err).Msg("Error creating default school")
			return errors.Join(finalErr, err)
		}
		lgr.Info().Str("organization_id", school.ID.String()).Msg("Default school created")
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error looking up default school")
		return errors.Join(finalErr, err)
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return errors.Join(finalErr, err)
	}
	admin := &appModels.User{
		ID:             uuid.New(),
		Email:          "admin@liahub.app",
		Name:           "Default Admin",
		PasswordHash:   hash,
		Roles:          []string{appModels.RoleAdmin},
		OrganizationID: school.ID,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating default admin user")
			finalErr = errors.Join(finalErr, err)
		}
	} else {
		lgr.Info().Str("email", admin.Email).Msg("Default admin user created")
	}

	return finalErr
}
