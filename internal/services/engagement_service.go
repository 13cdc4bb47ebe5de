package services

import (
	"strings"
	"unicode/utf8"

	"github.com/isdelr/artcampus-be/internal/apperror"
	"github.com/isdelr/artcampus-be/internal/database"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	maxRecentSearches = 5
	minSearchRunes    = 3
)

// EngagementServiceProvider defines the interface for per-user engagement
// state: liked/bookmarked projects, liked comments, followed authors and
// recent searches.
type EngagementServiceProvider interface {
	ToggleProjectLike(session models.Session, projectID string) (liked bool, likes int, err error)
	ToggleCommentLike(session models.Session, projectID, commentID string) (liked bool, likes int, err error)
	ToggleBookmark(session models.Session, projectID string) (bookmarked bool, err error)
	ToggleFollow(session models.Session, authorID string) (following bool, err error)
	LikedProjects(session models.Session) ([]string, error)
	BookmarkedProjects(session models.Session) ([]string, error)
	FollowedAuthors(session models.Session) ([]string, error)
	RecordSearch(session models.Session, query string) error
	RecentSearches(session models.Session) ([]string, error)
	ClearSearches(session models.Session) error
}

// EngagementService keeps the per-user id lists in step with the counters
// embedded in projects and comments.
type EngagementService struct {
	store    *database.Store
	notifier Notifier
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(store *database.Store, notifier Notifier) *EngagementService {
	return &EngagementService{store: store, notifier: notifier}
}

// ToggleProjectLike likes the project if the user has not liked it yet,
// otherwise removes the like. The project's like count and the user's
// likedProjects entry change together in one round-trip.
func (s *EngagementService) ToggleProjectLike(session models.Session, projectID string) (bool, int, error) {
	if !session.Authenticated() {
		return false, 0, apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to like a project")
	}

	liked := false
	likes := 0
	var recipient, title, actorName string
	err := s.store.Update(func(tx *database.Tx) error {
		projects := tx.Projects()
		idx := -1
		for i := range projects {
			if projects[i].ID == projectID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
		}

		key := database.KeyLikedProjects(session.UserID)
		list := tx.StringList(key)
		list, liked = toggleID(list, projectID)
		if liked {
			projects[idx].Likes++
		} else if projects[idx].Likes > 0 {
			projects[idx].Likes--
		}
		likes = projects[idx].Likes
		recipient = projects[idx].Author.ID
		title = projects[idx].Title
		if actor, ok := findUserByID(tx.Users(), session.UserID); ok {
			actorName = actor.DisplayName()
		}

		if err := tx.SetJSON(key, list); err != nil {
			return err
		}
		return tx.SaveProjects(projects)
	})
	if err != nil {
		return false, 0, err
	}

	if liked && recipient != session.UserID {
		s.notify(recipient, models.Notification{
			Type:         models.NotificationLike,
			ProjectID:    projectID,
			ProjectTitle: title,
			AuthorID:     session.UserID,
			AuthorName:   actorName,
			Message:      actorName + " liked " + title,
		})
	}
	return liked, likes, nil
}

// ToggleCommentLike likes or unlikes a single comment.
func (s *EngagementService) ToggleCommentLike(session models.Session, projectID, commentID string) (bool, int, error) {
	if !session.Authenticated() {
		return false, 0, apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to like a comment")
	}

	liked := false
	likes := 0
	err := s.store.Update(func(tx *database.Tx) error {
		projects := tx.Projects()
		for i := range projects {
			if projects[i].ID != projectID {
				continue
			}
			for j := range projects[i].Comments {
				if projects[i].Comments[j].ID != commentID {
					continue
				}

				key := database.KeyLikedComments(session.UserID)
				list := tx.StringList(key)
				list, liked = toggleID(list, commentID)
				if liked {
					projects[i].Comments[j].Likes++
				} else if projects[i].Comments[j].Likes > 0 {
					projects[i].Comments[j].Likes--
				}
				likes = projects[i].Comments[j].Likes

				if err := tx.SetJSON(key, list); err != nil {
					return err
				}
				return tx.SaveProjects(projects)
			}
			return apperror.Wrap(apperror.ErrCommentNotFound, "comment %s not found", commentID)
		}
		return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

// ToggleBookmark adds or removes the project from the user's bookmarks.
func (s *EngagementService) ToggleBookmark(session models.Session, projectID string) (bool, error) {
	if !session.Authenticated() {
		return false, apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to bookmark a project")
	}

	bookmarked := false
	var recipient, title string
	err := s.store.Update(func(tx *database.Tx) error {
		project, ok := findProjectByID(tx.Projects(), projectID)
		if !ok {
			return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
		}
		recipient = project.Author.ID
		title = project.Title

		key := database.KeyBookmarkedProjects(session.UserID)
		list := tx.StringList(key)
		list, bookmarked = toggleID(list, projectID)
		return tx.SetJSON(key, list)
	})
	if err != nil {
		return false, err
	}

	if bookmarked && recipient != session.UserID {
		s.notify(recipient, models.Notification{
			Type:         models.NotificationBookmark,
			ProjectID:    projectID,
			ProjectTitle: title,
			Message:      "Someone bookmarked " + title,
		})
	}
	return bookmarked, nil
}

// ToggleFollow follows or unfollows an author. Following yourself is
// rejected.
func (s *EngagementService) ToggleFollow(session models.Session, authorID string) (bool, error) {
	if !session.Authenticated() {
		return false, apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to follow an author")
	}
	if authorID == session.UserID {
		return false, apperror.Wrap(apperror.ErrValidation, "you cannot follow yourself")
	}

	following := false
	var actorName string
	err := s.store.Update(func(tx *database.Tx) error {
		users := tx.Users()
		if _, ok := findUserByID(users, authorID); !ok {
			return apperror.Wrap(apperror.ErrUserNotFound, "user %s not found", authorID)
		}
		if actor, ok := findUserByID(users, session.UserID); ok {
			actorName = actor.DisplayName()
		}

		key := database.KeyFollowedAuthors(session.UserID)
		list := tx.StringList(key)
		list, following = toggleID(list, authorID)
		return tx.SetJSON(key, list)
	})
	if err != nil {
		return false, err
	}

	if following {
		s.notify(authorID, models.Notification{
			Type:       models.NotificationFollow,
			AuthorID:   session.UserID,
			AuthorName: actorName,
			Message:    actorName + " started following you",
		})
	}
	return following, nil
}

// LikedProjects returns the ids of projects the user has liked.
func (s *EngagementService) LikedProjects(session models.Session) ([]string, error) {
	return s.list(session, database.KeyLikedProjects)
}

// BookmarkedProjects returns the ids of projects the user has bookmarked.
func (s *EngagementService) BookmarkedProjects(session models.Session) ([]string, error) {
	return s.list(session, database.KeyBookmarkedProjects)
}

// FollowedAuthors returns the ids of authors the user follows.
func (s *EngagementService) FollowedAuthors(session models.Session) ([]string, error) {
	return s.list(session, database.KeyFollowedAuthors)
}

// RecordSearch remembers a search query: deduplicated, newest first,
// capped at five entries. Very short queries are ignored.
func (s *EngagementService) RecordSearch(session models.Session, query string) error {
	if !session.Authenticated() {
		return apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to record searches")
	}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchRunes {
		return nil
	}

	return s.store.Update(func(tx *database.Tx) error {
		key := database.KeyRecentSearches(session.UserID)
		recent := tx.StringList(key)

		filtered := make([]string, 0, maxRecentSearches)
		filtered = append(filtered, query)
		for _, q := range recent {
			if q != query && len(filtered) < maxRecentSearches {
				filtered = append(filtered, q)
			}
		}
		return tx.SetJSON(key, filtered)
	})
}

// RecentSearches returns the user's remembered queries, newest first.
func (s *EngagementService) RecentSearches(session models.Session) ([]string, error) {
	return s.list(session, database.KeyRecentSearches)
}

// ClearSearches empties the remembered queries.
func (s *EngagementService) ClearSearches(session models.Session) error {
	if !session.Authenticated() {
		return apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to clear searches")
	}
	return s.store.Update(func(tx *database.Tx) error {
		return tx.SetJSON(database.KeyRecentSearches(session.UserID), []string{})
	})
}

func (s *EngagementService) list(session models.Session, keyFn func(string) string) ([]string, error) {
	if !session.Authenticated() {
		return nil, apperror.Wrap(apperror.ErrNotAuthenticated, "not logged in")
	}
	out := []string{}
	err := s.store.View(func(tx *database.Tx) error {
		out = append(out, tx.StringList(keyFn(session.UserID))...)
		return nil
	})
	return out, err
}

func (s *EngagementService) notify(recipientID string, n models.Notification) {
	if s.notifier == nil || recipientID == "" {
		return
	}
	if err := s.notifier.Notify(recipientID, n); err != nil {
		log.Error().Err(err).Str("recipient", recipientID).Str("type", n.Type).Msg("Failed to deliver notification")
	}
}

// toggleID adds id to the list if absent, removes it if present, and
// reports whether the id is in the resulting list.
func toggleID(list []string, id string) ([]string, bool) {
	for i, existing := range list {
		if existing == id {
			return append(list[:i], list[i+1:]...), false
		}
	}
	return append(list, id), true
}

func findProjectByID(projects []models.Project, id string) (models.Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}
