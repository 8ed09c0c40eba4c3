package service

import (
	"context"
	"errors"
	"time"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/repo"
	"github.com/WalidElHadhri/PDS/internal/pkg/paging"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectService interface {
	Create(ctx context.Context, owner *model.User, name, description string) (*ProjectView, error)
	List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error)
	View(ctx context.Context, p *model.Project) (*ProjectView, error)
	Update(ctx context.Context, p *model.Project, name, description *string) (*ProjectView, error)
	Delete(ctx context.Context, projectID uuid.UUID) error

	AddCollaborator(ctx context.Context, p *model.Project, email string) (*ProjectView, error)
	RemoveCollaborator(ctx context.Context, p *model.Project, userID uuid.UUID) (*ProjectView, error)

	UpdateDocumentation(ctx context.Context, p *model.Project, documentation string) error
	UpdateCodeFile(ctx context.Context, p *model.Project, filename, content string) (*model.CodeFile, error)
}

type projectService struct {
	projects repo.ProjectRepo
	users    repo.UserRepo
}

func NewProjectService(projects repo.ProjectRepo, users repo.UserRepo) ProjectService {
	return &projectService{projects: projects, users: users}
}

// MemberView pairs a resolved user with their role for display. The owner's
// entry is derived from Project.OwnerID, not stored in the member document.
type MemberView struct {
	User model.PublicUser `json:"user"`
	Role model.Role       `json:"role"`
}

type ProjectView struct {
	*model.Project
	Owner   model.PublicUser `json:"owner"`
	Members []MemberView     `json:"members"`
}

func (s *projectService) Create(ctx context.Context, owner *model.User, name, description string) (*ProjectView, error) {
	p := &model.Project{
		Name:          name,
		Description:   description,
		OwnerID:       owner.ID,
		Collaborators: datatypes.JSONSlice[model.Collaborator]{},
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.View(ctx, p)
}

type ListProjectsInput struct {
	UserID uuid.UUID `json:"user_id"`
	Limit  int       `json:"limit"` // 0 means no limit (return all)
	Cursor string    `json:"cursor"`
}

type ListProjectsOutput struct {
	Items      []*ProjectView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

func (s *projectService) List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	var afterT time.Time
	var afterID uuid.UUID
	var err error
	if in.Cursor != "" {
		afterT, afterID, err = paging.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, err
		}
	}

	limit := 0
	if in.Limit > 0 {
		// Query limit+1 is used to determine has_more
		limit = in.Limit + 1
	}
	projects, err := s.projects.ListForUser(ctx, in.UserID, afterT, afterID, limit)
	if err != nil {
		return nil, err
	}

	out := &ListProjectsOutput{HasMore: false}
	if in.Limit > 0 && len(projects) > in.Limit {
		out.HasMore = true
		projects = projects[:in.Limit]
		last := projects[len(projects)-1]
		out.NextCursor = paging.EncodeCursor(last.UpdatedAt, last.ID)
	}

	for _, p := range projects {
		view, err := s.View(ctx, p)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, view)
	}
	return out, nil
}

// View resolves the owner and collaborator identities for serialization.
func (s *projectService) View(ctx context.Context, p *model.Project) (*ProjectView, error) {
	ids := make([]uuid.UUID, 0, len(p.Collaborators)+1)
	ids = append(ids, p.OwnerID)
	for _, c := range p.Collaborators {
		ids = append(ids, c.UserID)
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u.Public()
	}

	view := &ProjectView{Project: p, Owner: byID[p.OwnerID]}
	view.Members = append(view.Members, MemberView{User: view.Owner, Role: model.RoleOwner})
	for _, c := range p.Collaborators {
		if u, ok := byID[c.UserID]; ok {
			view.Members = append(view.Members, MemberView{User: u, Role: c.Role})
		}
	}
	return view, nil
}

func (s *projectService) Update(ctx context.Context, p *model.Project, name, description *string) (*ProjectView, error) {
	if name != nil && *name != "" {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.View(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	return s.projects.Delete(ctx, projectID)
}

func (s *projectService) AddCollaborator(ctx context.Context, p *model.Project, email string) (*ProjectView, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if p.IsOwner(user.ID) || p.IsCollaborator(user.ID) {
		return nil, ErrAlreadyCollaborator
	}

	p.Collaborators = append(p.Collaborators, model.Collaborator{
		UserID: user.ID,
		Role:   model.RoleCollaborator,
	})
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.View(ctx, p)
}

// RemoveCollaborator is idempotent: removing a user who is not listed is a
// success. Removing the owner is always rejected.
func (s *projectService) RemoveCollaborator(ctx context.Context, p *model.Project, userID uuid.UUID) (*ProjectView, error) {
	if p.IsOwner(userID) {
		return nil, ErrOwnerRemoval
	}

	kept := p.Collaborators[:0]
	for _, c := range p.Collaborators {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	p.Collaborators = kept

	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.View(ctx, p)
}

func (s *projectService) UpdateDocumentation(ctx context.Context, p *model.Project, documentation string) error {
	p.Documentation = documentation
	return s.projects.Save(ctx, p)
}

func (s *projectService) UpdateCodeFile(ctx context.Context, p *model.Project, filename, content string) (*model.CodeFile, error) {
	existing := p.CodeFile.Data()
	if filename == "" {
		filename = existing.Filename
	}
	if filename == "" {
		filename = model.DefaultCodeFilename
	}

	now := time.Now()
	cf := model.CodeFile{Filename: filename, Content: content, UpdatedAt: &now}
	p.CodeFile = datatypes.NewJSONType(cf)

	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return &cf, nil
}
