package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/artcampus-be/internal/apperror"
	"github.com/isdelr/artcampus-be/internal/database"
	"github.com/isdelr/artcampus-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields a new account is created from.
// No format or strength validation is performed beyond uniqueness.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Faculty   string `json:"faculty"`
	Avatar    string `json:"avatar,omitempty"`
}

// ProfileUpdate is a partial user record. Nil fields are left untouched
// (shallow merge), so clients only send what they change.
type ProfileUpdate struct {
	Username    *string             `json:"username,omitempty"`
	Email       *string             `json:"email,omitempty"`
	FirstName   *string             `json:"firstName,omitempty"`
	LastName    *string             `json:"lastName,omitempty"`
	Faculty     *string             `json:"faculty,omitempty"`
	BirthDate   *string             `json:"birthDate,omitempty"`
	Bio         *string             `json:"bio,omitempty"`
	Avatar      *string             `json:"avatar,omitempty"`
	Occupation  *string             `json:"occupation,omitempty"`
	Skills      *[]string           `json:"skills,omitempty"`
	Website     *string             `json:"website,omitempty"`
	SocialLinks *models.SocialLinks `json:"socialLinks,omitempty"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(input RegisterInput) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	CurrentUser() (models.User, bool)
	Logout() error
	GetUserByID(id string) (models.User, error)
	UpdateProfile(id string, update ProfileUpdate) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	ListUsers() ([]models.User, error)
	SetRole(id, role string) (models.User, error)
	SetBlocked(id string, blocked bool) (models.User, error)
}

// UserService provides business logic for accounts and the session pointer.
type UserService struct {
	store *database.Store
}

// NewUserService creates a new UserService.
func NewUserService(store *database.Store) *UserService {
	return &UserService{store: store}
}

// Register creates a new account, hashes the password, stores the record
// and sets it as the active session.
func (s *UserService) Register(input RegisterInput) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		Faculty:      input.Faculty,
		Avatar:       input.Avatar,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.store.Update(func(tx *database.Tx) error {
		users := tx.Users()
		for _, existing := range users {
			if existing.Email == input.Email {
				return apperror.Wrap(apperror.ErrDuplicateEmail, "a user with email %s already exists", input.Email)
			}
			if existing.Username == input.Username {
				return apperror.Wrap(apperror.ErrDuplicateUsername, "username %s is already taken", input.Username)
			}
		}

		if err := tx.SaveUsers(append(users, user)); err != nil {
			return err
		}
		return tx.Set(database.KeyCurrentUser, user.ID)
	})
	if err != nil {
		return models.User{}, err
	}

	return user.Sanitized(), nil
}

// Authenticate verifies a user's credentials and sets the active session.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	var user models.User
	err := s.store.Update(func(tx *database.Tx) error {
		found, ok := findUserByEmail(tx.Users(), email)
		if !ok {
			return apperror.Wrap(apperror.ErrUserNotFound, "no user registered with email %s", email)
		}
		if found.Blocked {
			return apperror.Wrap(apperror.ErrForbidden, "account is blocked")
		}
		if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
			return apperror.Wrap(apperror.ErrInvalidPassword, "invalid password")
		}

		user = found
		return tx.Set(database.KeyCurrentUser, found.ID)
	})
	if err != nil {
		return models.User{}, err
	}

	return user.Sanitized(), nil
}

// CurrentUser resolves the persisted session pointer. The second return is
// false when nothing is logged in or the referenced user no longer exists.
func (s *UserService) CurrentUser() (models.User, bool) {
	var user models.User
	found := false
	s.store.View(func(tx *database.Tx) error {
		id, ok := tx.Get(database.KeyCurrentUser)
		if !ok {
			return nil
		}
		user, found = findUserByID(tx.Users(), id)
		return nil
	})
	if !found {
		return models.User{}, false
	}
	return user.Sanitized(), true
}

// Logout clears the session pointer unconditionally. Idempotent.
func (s *UserService) Logout() error {
	return s.store.Update(func(tx *database.Tx) error {
		return tx.Delete(database.KeyCurrentUser)
	})
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	found := false
	s.store.View(func(tx *database.Tx) error {
		user, found = findUserByID(tx.Users(), id)
		return nil
	})
	if !found {
		return models.User{}, apperror.Wrap(apperror.ErrUserNotFound, "user %s not found", id)
	}
	return user.Sanitized(), nil
}

// UpdateProfile shallow-merges the provided fields into the stored record.
// Project and comment author snapshots are deliberately left alone: a
// snapshot captures the author at creation time.
func (s *UserService) UpdateProfile(id string, update ProfileUpdate) (models.User, error) {
	var updated models.User
	err := s.store.Update(func(tx *database.Tx) error {
		users := tx.Users()
		idx := -1
		for i := range users {
			if users[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return apperror.Wrap(apperror.ErrUserNotFound, "user %s not found", id)
		}

		// Uniqueness holds across the collection at all times, so renames
		// are checked like registrations.
		for i, other := range users {
			if i == idx {
				continue
			}
			if update.Email != nil && other.Email == *update.Email {
				return apperror.Wrap(apperror.ErrDuplicateEmail, "a user with email %s already exists", *update.Email)
			}
			if update.Username != nil && other.Username == *update.Username {
				return apperror.Wrap(apperror.ErrDuplicateUsername, "username %s is already taken", *update.Username)
			}
		}

		applyProfileUpdate(&users[idx], update)
		updated = users[idx]
		return tx.SaveUsers(users)
	})
	if err != nil {
		return models.User{}, err
	}
	return updated.Sanitized(), nil
}

// UpdatePassword verifies the current password, then hashes and sets a new one.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	return s.store.Update(func(tx *database.Tx) error {
		users := tx.Users()
		for i := range users {
			if users[i].ID != id {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(currentPassword)) != nil {
				return apperror.Wrap(apperror.ErrInvalidPassword, "current password is incorrect")
			}
			users[i].PasswordHash = string(hash)
			return tx.SaveUsers(users)
		}
		return apperror.Wrap(apperror.ErrUserNotFound, "user %s not found", id)
	})
}

// ListUsers returns every account, sanitized, in storage order.
func (s *UserService) ListUsers() ([]models.User, error) {
	var out []models.User
	err := s.store.View(func(tx *database.Tx) error {
		for _, u := range tx.Users() {
			out = append(out, u.Sanitized())
		}
		return nil
	})
	return out, err
}

// SetRole switches an account between user and admin.
func (s *UserService) SetRole(id, role string) (models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, apperror.Wrap(apperror.ErrValidation, "unknown role %q", role)
	}
	return s.mutateUser(id, func(u *models.User) {
		u.Role = role
	})
}

// SetBlocked blocks or unblocks an account. Blocked users cannot log in;
// existing tokens keep working until they expire.
func (s *UserService) SetBlocked(id string, blocked bool) (models.User, error) {
	return s.mutateUser(id, func(u *models.User) {
		u.Blocked = blocked
	})
}

func (s *UserService) mutateUser(id string, mutate func(*models.User)) (models.User, error) {
	var updated models.User
	err := s.store.Update(func(tx *database.Tx) error {
		users := tx.Users()
		for i := range users {
			if users[i].ID == id {
				mutate(&users[i])
				updated = users[i]
				return tx.SaveUsers(users)
			}
		}
		return apperror.Wrap(apperror.ErrUserNotFound, "user %s not found", id)
	})
	if err != nil {
		return models.User{}, err
	}
	return updated.Sanitized(), nil
}

func applyProfileUpdate(u *models.User, update ProfileUpdate) {
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Faculty != nil {
		u.Faculty = *update.Faculty
	}
	if update.BirthDate != nil {
		u.BirthDate = *update.BirthDate
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.Occupation != nil {
		u.Occupation = *update.Occupation
	}
	if update.Skills != nil {
		u.Skills = *update.Skills
	}
	if update.Website != nil {
		u.Website = *update.Website
	}
	if update.SocialLinks != nil {
		u.SocialLinks = update.SocialLinks
	}
}

func findUserByID(users []models.User, id string) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func findUserByEmail(users []models.User, email string) (models.User, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}
