package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Seed creates the initial admin account on first start. The db_initialized
// entry guards the seed, so re-running against an existing store is a no-op
// even if the admin was later renamed or demoted.
func Seed(store *Store, adminEmail, adminPassword string) error {
	return store.Update(func(tx *Tx) error {
		if _, done := tx.Get(KeyInitialized); done {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}

		admin := models.User{
			ID:           uuid.New().String(),
			Username:     "admin",
			Email:        adminEmail,
			FirstName:    "Admin",
			LastName:     "User",
			PasswordHash: string(hash),
			Faculty:      "Administration",
			Role:         models.RoleAdmin,
			CreatedAt:    time.Now().UTC(),
			Occupation:   "Administrator",
			Bio:          "ArtCampus platform administrator",
		}

		if err := tx.SaveUsers([]models.User{admin}); err != nil {
			return err
		}
		if err := tx.SaveProjects([]models.Project{}); err != nil {
			return err
		}
		if err := tx.Set(KeyInitialized, "true"); err != nil {
			return err
		}

		log.Info().Str("email", admin.Email).Msg("Store initialized with admin account")
		return nil
	})
}
