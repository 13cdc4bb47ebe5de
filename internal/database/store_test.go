package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db))
	return NewStore(db)
}

func TestScalarEntries(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(func(tx *Tx) error {
		_, ok := tx.Get(KeyCurrentUser)
		assert.False(t, ok)

		require.NoError(t, tx.Set(KeyCurrentUser, "user-1"))
		value, ok := tx.Get(KeyCurrentUser)
		assert.True(t, ok)
		assert.Equal(t, "user-1", value)

		require.NoError(t, tx.Delete(KeyCurrentUser))
		_, ok = tx.Get(KeyCurrentUser)
		assert.False(t, ok)

		// Deleting again is not an error.
		return tx.Delete(KeyCurrentUser)
	})
	require.NoError(t, err)
}

func TestUsersRoundTrip(t *testing.T) {
	store := newTestStore(t)

	user := models.User{
		ID:        "u1",
		Username:  "mira",
		Email:     "mira@example.com",
		FirstName: "Mira",
		LastName:  "Lanskaya",
		Faculty:   "Fine Arts",
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
		Skills:    []string{"painting", "etching"},
	}

	require.NoError(t, store.Update(func(tx *Tx) error {
		assert.Empty(t, tx.Users())
		return tx.SaveUsers([]models.User{user})
	}))

	require.NoError(t, store.View(func(tx *Tx) error {
		users := tx.Users()
		require.Len(t, users, 1)
		assert.Equal(t, user.ID, users[0].ID)
		assert.Equal(t, user.Skills, users[0].Skills)
		assert.True(t, user.CreatedAt.Equal(users[0].CreatedAt))
		return nil
	}))
}

func TestCorruptEntryTreatedAsEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Update(func(tx *Tx) error {
		return tx.Set(KeyProjects, "{not json[")
	}))

	require.NoError(t, store.View(func(tx *Tx) error {
		assert.Empty(t, tx.Projects())

		var list []string
		assert.False(t, tx.GetJSON(KeyProjects, &list))
		return nil
	}))

	// The next write replaces the bad value.
	require.NoError(t, store.Update(func(tx *Tx) error {
		return tx.SaveProjects([]models.Project{{ID: "p1"}})
	}))
	require.NoError(t, store.View(func(tx *Tx) error {
		require.Len(t, tx.Projects(), 1)
		return nil
	}))
}

func TestUpdateRollsBackOnError(t *testing.T) {
	store := newTestStore(t)

	sentinel := assert.AnError
	err := store.Update(func(tx *Tx) error {
		require.NoError(t, tx.Set(KeyCurrentUser, "u1"))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	require.NoError(t, store.View(func(tx *Tx) error {
		_, ok := tx.Get(KeyCurrentUser)
		assert.False(t, ok, "a failed update must leave no partial write")
		return nil
	}))
}

func TestSeed(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, Seed(store, "admin@example.com", "sekrit"))

	var admin models.User
	require.NoError(t, store.View(func(tx *Tx) error {
		users := tx.Users()
		require.Len(t, users, 1)
		admin = users[0]

		_, initialized := tx.Get(KeyInitialized)
		assert.True(t, initialized)
		return nil
	}))

	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("sekrit")))

	// Seeding again must not create a second admin.
	require.NoError(t, Seed(store, "admin@example.com", "sekrit"))
	require.NoError(t, store.View(func(tx *Tx) error {
		assert.Len(t, tx.Users(), 1)
		return nil
	}))
}
