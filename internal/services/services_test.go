package services

import (
	"path/filepath"
	"testing"

	"github.com/isdelr/artcampus-be/internal/database"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return database.NewStore(db)
}

// registerUser creates an account and returns it alongside a session acting
// as that user.
func registerUser(t *testing.T, users *UserService, username, email string) (models.User, models.Session) {
	t.Helper()

	user, err := users.Register(RegisterInput{
		Username:  username,
		Email:     email,
		FirstName: "Test",
		LastName:  username,
		Password:  "secret123",
		Faculty:   "Fine Arts",
	})
	require.NoError(t, err)
	return user, models.Session{UserID: user.ID, Role: user.Role}
}

// recordingNotifier captures notifications instead of persisting them.
type recordingNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	recipientID  string
	notification models.Notification
}

func (r *recordingNotifier) Notify(recipientID string, n models.Notification) error {
	r.sent = append(r.sent, sentNotification{recipientID: recipientID, notification: n})
	return nil
}

func createProject(t *testing.T, projects *ProjectService, session models.Session, title string) models.Project {
	t.Helper()

	project, err := projects.Create(session, ProjectInput{
		Title:       title,
		Category:    "painting",
		Description: "a " + title,
		Image:       "/images/" + title + ".jpg",
	})
	require.NoError(t, err)
	return project
}
