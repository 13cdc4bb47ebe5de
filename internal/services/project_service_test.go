package services

import (
	"testing"

	"github.com/isdelr/artcampus-be/internal/apperror"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	notifier := &recordingNotifier{}
	projects := NewProjectService(store, notifier)

	author, session := registerUser(t, users, "mira", "mira@example.com")

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := projects.Create(models.Session{}, ProjectInput{
			Title:       "Sunset",
			Category:    "painting",
			Description: "oil on canvas",
		})
		assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

		all, err := projects.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all, "failed create must not touch the collection")
	})

	t.Run("validation", func(t *testing.T) {
		_, err := projects.Create(session, ProjectInput{Category: "painting"})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = projects.Create(session, ProjectInput{
			Title:       "Sunset",
			Category:    "origami",
			Description: "paper",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("snapshot and counters", func(t *testing.T) {
		project := createProject(t, projects, session, "Sunset")

		assert.Equal(t, author.ID, project.Author.ID)
		assert.Equal(t, "Test mira", project.Author.Name)
		assert.Equal(t, placeholderAvatar, project.Author.Avatar)
		assert.Zero(t, project.Likes)
		assert.Zero(t, project.Views)
		assert.NotNil(t, project.Comments)
		assert.Empty(t, project.Comments)
		assert.False(t, project.Featured)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, author.ID, notifier.sent[0].recipientID)
		assert.Equal(t, models.NotificationSystem, notifier.sent[0].notification.Type)
	})
}

func TestAuthorSnapshotIsStale(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)

	_, session := registerUser(t, users, "mira", "mira@example.com")
	project := createProject(t, projects, session, "Sunset")

	newName := "Renamed"
	_, err := users.UpdateProfile(session.UserID, ProfileUpdate{FirstName: &newName})
	require.NoError(t, err)

	got, err := projects.GetByID(project.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Test mira", got.Author.Name, "snapshot reflects the author at creation time")
}

func TestGetByIDRecordsViews(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)

	_, session := registerUser(t, users, "mira", "mira@example.com")
	project := createProject(t, projects, session, "Sunset")

	got, err := projects.GetByID(project.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	got, err = projects.GetByID(project.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views, "plain lookup does not count a view")

	_, err = projects.GetByID("missing", true)
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
}

func TestAddComment(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	notifier := &recordingNotifier{}
	projects := NewProjectService(store, notifier)

	owner, ownerSession := registerUser(t, users, "mira", "mira@example.com")
	_, visitorSession := registerUser(t, users, "bo", "bo@example.com")
	project := createProject(t, projects, ownerSession, "Sunset")
	notifier.sent = nil

	_, err := projects.AddComment(models.Session{}, project.ID, "nice")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = projects.AddComment(visitorSession, "missing", "nice")
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)

	comment, err := projects.AddComment(visitorSession, project.ID, "nice")
	require.NoError(t, err)
	assert.Equal(t, visitorSession.UserID, comment.Author.ID)
	assert.False(t, comment.IsRead)
	assert.Zero(t, comment.Likes)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, owner.ID, notifier.sent[0].recipientID)
	assert.Equal(t, models.NotificationComment, notifier.sent[0].notification.Type)

	// Own comment: appended, but no notification.
	_, err = projects.AddComment(ownerSession, project.ID, "thanks")
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1)

	got, err := projects.GetByID(project.ID, false)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "nice", got.Comments[0].Content, "comments keep insertion order")
}

func TestCommentReadCycle(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)

	_, ownerSession := registerUser(t, users, "mira", "mira@example.com")
	_, visitorSession := registerUser(t, users, "bo", "bo@example.com")
	project := createProject(t, projects, ownerSession, "Sunset")

	for _, content := range []string{"one", "two", "three"} {
		_, err := projects.AddComment(visitorSession, project.ID, content)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, projects.CountUnreadComments(project.ID))

	require.NoError(t, projects.MarkCommentsRead(project.ID))
	assert.Equal(t, 0, projects.CountUnreadComments(project.ID))

	_, err := projects.AddComment(visitorSession, project.ID, "four")
	require.NoError(t, err)
	assert.Equal(t, 1, projects.CountUnreadComments(project.ID))

	assert.Equal(t, 0, projects.CountUnreadComments("missing"))
	assert.ErrorIs(t, projects.MarkCommentsRead("missing"), apperror.ErrProjectNotFound)
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)

	_, session := registerUser(t, users, "mira", "mira@example.com")

	sunset, err := projects.Create(session, ProjectInput{
		Title:       "Sunset Over Water",
		Category:    "painting",
		Description: "evening light study",
		Tags:        []string{"oil", "landscape"},
	})
	require.NoError(t, err)

	portrait, err := projects.Create(session, ProjectInput{
		Title:       "Portrait Series",
		Category:    "photography",
		Description: "black and white portraits",
	})
	require.NoError(t, err)

	t.Run("query matches title case-insensitively", func(t *testing.T) {
		got, err := projects.Search(SearchOptions{Query: "sunset"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sunset.ID, got[0].ID)
	})

	t.Run("query matches tags", func(t *testing.T) {
		got, err := projects.Search(SearchOptions{Query: "LANDSCAPE"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sunset.ID, got[0].ID)
	})

	t.Run("query matches author name", func(t *testing.T) {
		got, err := projects.Search(SearchOptions{Query: "test mira"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		got, err := projects.Search(SearchOptions{Category: "photography"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, portrait.ID, got[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := projects.Search(SearchOptions{Query: "sculpture garden"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSearchSortOrders(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)
	engagement := NewEngagementService(store, nil)

	_, session := registerUser(t, users, "mira", "mira@example.com")
	_, otherSession := registerUser(t, users, "bo", "bo@example.com")

	first := createProject(t, projects, session, "First")
	second := createProject(t, projects, session, "Second")

	// second: one like, one view, one comment; first: nothing.
	_, _, err := engagement.ToggleProjectLike(otherSession, second.ID)
	require.NoError(t, err)
	_, err = projects.GetByID(second.ID, true)
	require.NoError(t, err)
	_, err = projects.AddComment(otherSession, second.ID, "hi")
	require.NoError(t, err)

	for _, order := range []string{"recent", "popular", "comments", "likes"} {
		got, err := projects.Search(SearchOptions{Sort: order})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID, "sort %q should rank the engaged project first", order)
	}

	// Unknown sort keeps storage order.
	got, err := projects.Search(SearchOptions{Sort: "alphabetical"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
}

func TestSetFeatured(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	notifier := &recordingNotifier{}
	projects := NewProjectService(store, notifier)

	author, session := registerUser(t, users, "mira", "mira@example.com")
	project := createProject(t, projects, session, "Sunset")
	notifier.sent = nil

	featured, err := projects.SetFeatured(project.ID, true)
	require.NoError(t, err)
	assert.True(t, featured.Featured)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, author.ID, notifier.sent[0].recipientID)
	assert.Equal(t, models.NotificationFeatured, notifier.sent[0].notification.Type)

	// Featuring an already featured project notifies nobody.
	_, err = projects.SetFeatured(project.ID, true)
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1)

	listed, err := projects.ListFeatured()
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = projects.SetFeatured(project.ID, false)
	require.NoError(t, err)
	listed, err = projects.ListFeatured()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeleteProjectPermissions(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)

	_, ownerSession := registerUser(t, users, "mira", "mira@example.com")
	_, visitorSession := registerUser(t, users, "bo", "bo@example.com")
	project := createProject(t, projects, ownerSession, "Sunset")

	assert.ErrorIs(t, projects.Delete(models.Session{}, project.ID), apperror.ErrNotAuthenticated)
	assert.ErrorIs(t, projects.Delete(visitorSession, project.ID), apperror.ErrForbidden)

	admin := models.Session{UserID: "someone-else", Role: models.RoleAdmin}
	require.NoError(t, projects.Delete(admin, project.ID))

	_, err := projects.GetByID(project.ID, false)
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)

	assert.ErrorIs(t, projects.Delete(ownerSession, project.ID), apperror.ErrProjectNotFound)
}

func TestListByAuthor(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	projects := NewProjectService(store, nil)

	_, miraSession := registerUser(t, users, "mira", "mira@example.com")
	_, boSession := registerUser(t, users, "bo", "bo@example.com")

	mine := createProject(t, projects, miraSession, "Mine")
	createProject(t, projects, boSession, "Theirs")

	got, err := projects.ListByAuthor(miraSession, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	got, err = projects.ListByAuthor(models.Session{}, boSession.UserID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = projects.ListByAuthor(models.Session{}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
