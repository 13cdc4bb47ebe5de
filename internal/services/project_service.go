package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/artcampus-be/internal/apperror"
	"github.com/isdelr/artcampus-be/internal/database"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/rs/zerolog/log"
)

// placeholderAvatar is embedded into author snapshots for users without an
// uploaded avatar, matching what the frontend renders.
const placeholderAvatar = "/placeholder.svg?height=32&width=32"

// ProjectInput carries the author-supplied fields of a new project.
type ProjectInput struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Content     string   `json:"content,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Image       string   `json:"image"`
}

// SearchOptions filter and order project listings. Zero values mean
// "no filter" and storage order.
type SearchOptions struct {
	Query    string
	Category string
	Sort     string // recent | popular | comments | likes
}

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	Create(session models.Session, input ProjectInput) (models.Project, error)
	GetAll() ([]models.Project, error)
	GetByID(id string, recordView bool) (models.Project, error)
	ListByAuthor(session models.Session, authorID string) ([]models.Project, error)
	ListFeatured() ([]models.Project, error)
	Search(opts SearchOptions) ([]models.Project, error)
	AddComment(session models.Session, projectID, content string) (models.Comment, error)
	MarkCommentsRead(projectID string) error
	CountUnreadComments(projectID string) int
	SetFeatured(projectID string, featured bool) (models.Project, error)
	Delete(session models.Session, projectID string) error
}

// ProjectService provides business logic for projects and their embedded
// comments.
type ProjectService struct {
	store    *database.Store
	notifier Notifier
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store *database.Store, notifier Notifier) *ProjectService {
	return &ProjectService{store: store, notifier: notifier}
}

// Create publishes a new project for the acting user. The author snapshot
// (id, display name, avatar) is copied from the user record at this moment
// and never updated afterwards.
func (s *ProjectService) Create(session models.Session, input ProjectInput) (models.Project, error) {
	if !session.Authenticated() {
		return models.Project{}, apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to publish a project")
	}
	if input.Title == "" || input.Description == "" {
		return models.Project{}, apperror.Wrap(apperror.ErrValidation, "title and description are required")
	}
	if !models.ValidCategory(input.Category) {
		return models.Project{}, apperror.Wrap(apperror.ErrValidation, "unknown category %q", input.Category)
	}

	var project models.Project
	err := s.store.Update(func(tx *database.Tx) error {
		author, ok := findUserByID(tx.Users(), session.UserID)
		if !ok {
			return apperror.Wrap(apperror.ErrNotAuthenticated, "session user no longer exists")
		}

		project = models.Project{
			ID:          uuid.New().String(),
			Title:       input.Title,
			Category:    input.Category,
			Description: input.Description,
			Content:     input.Content,
			Tags:        input.Tags,
			Date:        time.Now().UTC(),
			Image:       input.Image,
			Author:      snapshotOf(author),
			Likes:       0,
			Comments:    []models.Comment{},
			Views:       0,
		}
		return tx.SaveProjects(append(tx.Projects(), project))
	})
	if err != nil {
		return models.Project{}, err
	}

	s.notify(session.UserID, models.Notification{
		Type:         models.NotificationSystem,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		ProjectImage: project.Image,
		Message:      "Your project has been published",
	})
	return project, nil
}

// GetAll returns every project in storage order.
func (s *ProjectService) GetAll() ([]models.Project, error) {
	var projects []models.Project
	err := s.store.View(func(tx *database.Tx) error {
		projects = tx.Projects()
		return nil
	})
	return projects, err
}

// GetByID looks up a single project. With recordView set the view counter
// is incremented as part of the lookup.
func (s *ProjectService) GetByID(id string, recordView bool) (models.Project, error) {
	var project models.Project
	err := s.store.Update(func(tx *database.Tx) error {
		projects := tx.Projects()
		for i := range projects {
			if projects[i].ID != id {
				continue
			}
			if recordView {
				projects[i].Views++
				if err := tx.SaveProjects(projects); err != nil {
					return err
				}
			}
			project = projects[i]
			return nil
		}
		return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", id)
	})
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// ListByAuthor returns the projects whose author snapshot matches authorID,
// in storage order. An empty authorID defaults to the session user; if
// neither resolves, the result is empty rather than an error.
func (s *ProjectService) ListByAuthor(session models.Session, authorID string) ([]models.Project, error) {
	if authorID == "" {
		authorID = session.UserID
	}
	if authorID == "" {
		return []models.Project{}, nil
	}

	out := []models.Project{}
	err := s.store.View(func(tx *database.Tx) error {
		for _, p := range tx.Projects() {
			if p.Author.ID == authorID {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

// ListFeatured returns projects the admin or curator marked as featured.
func (s *ProjectService) ListFeatured() ([]models.Project, error) {
	out := []models.Project{}
	err := s.store.View(func(tx *database.Tx) error {
		for _, p := range tx.Projects() {
			if p.Featured {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

// Search filters by free-text query (title, description, tags, author name)
// and category, then applies the requested sort order.
func (s *ProjectService) Search(opts SearchOptions) ([]models.Project, error) {
	projects, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	out := []models.Project{}
	for _, p := range projects {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}

	sortProjects(out, opts.Sort)
	return out, nil
}

// AddComment appends a comment to the project's list. Comment order is
// insertion order and is never reordered.
func (s *ProjectService) AddComment(session models.Session, projectID, content string) (models.Comment, error) {
	if !session.Authenticated() {
		return models.Comment{}, apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to comment")
	}

	var comment models.Comment
	var recipient string
	var title string
	err := s.store.Update(func(tx *database.Tx) error {
		author, ok := findUserByID(tx.Users(), session.UserID)
		if !ok {
			return apperror.Wrap(apperror.ErrNotAuthenticated, "session user no longer exists")
		}

		projects := tx.Projects()
		for i := range projects {
			if projects[i].ID != projectID {
				continue
			}
			comment = models.Comment{
				ID:      uuid.New().String(),
				Author:  snapshotOf(author),
				Date:    time.Now().UTC(),
				Content: content,
				Likes:   0,
				IsRead:  false,
			}
			projects[i].Comments = append(projects[i].Comments, comment)
			recipient = projects[i].Author.ID
			title = projects[i].Title
			return tx.SaveProjects(projects)
		}
		return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
	})
	if err != nil {
		return models.Comment{}, err
	}

	// Commenting on your own project produces no notification.
	if recipient != session.UserID {
		s.notify(recipient, models.Notification{
			Type:         models.NotificationComment,
			ProjectID:    projectID,
			ProjectTitle: title,
			AuthorID:     comment.Author.ID,
			AuthorName:   comment.Author.Name,
			AuthorAvatar: comment.Author.Avatar,
			Message:      comment.Author.Name + " commented on " + title,
		})
	}
	return comment, nil
}

// MarkCommentsRead flags every comment on the project as read.
func (s *ProjectService) MarkCommentsRead(projectID string) error {
	return s.store.Update(func(tx *database.Tx) error {
		projects := tx.Projects()
		for i := range projects {
			if projects[i].ID != projectID {
				continue
			}
			for j := range projects[i].Comments {
				projects[i].Comments[j].IsRead = true
			}
			return tx.SaveProjects(projects)
		}
		return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
	})
}

// CountUnreadComments returns the unread comment count, or zero when the
// project does not exist.
func (s *ProjectService) CountUnreadComments(projectID string) int {
	count := 0
	s.store.View(func(tx *database.Tx) error {
		for _, p := range tx.Projects() {
			if p.ID != projectID {
				continue
			}
			for _, c := range p.Comments {
				if !c.IsRead {
					count++
				}
			}
			return nil
		}
		return nil
	})
	return count
}

// SetFeatured toggles the featured flag. Newly featured projects earn their
// author a notification.
func (s *ProjectService) SetFeatured(projectID string, featured bool) (models.Project, error) {
	var project models.Project
	wasFeatured := false
	err := s.store.Update(func(tx *database.Tx) error {
		projects := tx.Projects()
		for i := range projects {
			if projects[i].ID != projectID {
				continue
			}
			wasFeatured = projects[i].Featured
			projects[i].Featured = featured
			project = projects[i]
			return tx.SaveProjects(projects)
		}
		return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
	})
	if err != nil {
		return models.Project{}, err
	}

	if featured && !wasFeatured {
		s.notify(project.Author.ID, models.Notification{
			Type:         models.NotificationFeatured,
			ProjectID:    project.ID,
			ProjectTitle: project.Title,
			ProjectImage: project.Image,
			Message:      "Your project " + project.Title + " is now featured",
		})
	}
	return project, nil
}

// Delete removes a project. Only the owner or an admin may delete.
func (s *ProjectService) Delete(session models.Session, projectID string) error {
	if !session.Authenticated() {
		return apperror.Wrap(apperror.ErrNotAuthenticated, "you must be logged in to delete a project")
	}

	return s.store.Update(func(tx *database.Tx) error {
		projects := tx.Projects()
		for i := range projects {
			if projects[i].ID != projectID {
				continue
			}
			if projects[i].Author.ID != session.UserID && !session.Admin() {
				return apperror.Wrap(apperror.ErrForbidden, "only the project owner or an admin can delete it")
			}
			return tx.SaveProjects(append(projects[:i], projects[i+1:]...))
		}
		return apperror.Wrap(apperror.ErrProjectNotFound, "project %s not found", projectID)
	})
}

func (s *ProjectService) notify(recipientID string, n models.Notification) {
	if s.notifier == nil || recipientID == "" {
		return
	}
	if err := s.notifier.Notify(recipientID, n); err != nil {
		log.Error().Err(err).Str("recipient", recipientID).Str("type", n.Type).Msg("Failed to deliver notification")
	}
}

func snapshotOf(u models.User) models.AuthorRef {
	avatar := u.Avatar
	if avatar == "" {
		avatar = placeholderAvatar
	}
	return models.AuthorRef{
		ID:     u.ID,
		Name:   u.DisplayName(),
		Avatar: avatar,
	}
}

func matchesQuery(p models.Project, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Author.Name), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortProjects(projects []models.Project, order string) {
	switch order {
	case "recent":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Date.After(projects[j].Date)
		})
	case "popular":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Views > projects[j].Views
		})
	case "comments":
		sort.SliceStable(projects, func(i, j int) bool {
			return len(projects[i].Comments) > len(projects[j].Comments)
		})
	case "likes":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Likes > projects[j].Likes
		})
	}
}
