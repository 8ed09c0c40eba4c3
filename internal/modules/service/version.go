package service

import (
	"context"
	"errors"
	"time"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VersionService interface {
	List(ctx context.Context, p *model.Project) (*ListVersionsOutput, error)
	Create(ctx context.Context, p *model.Project, createdBy *model.User, in CreateVersionInput) (*VersionView, error)
	SetCurrent(ctx context.Context, p *model.Project, versionID uuid.UUID) (*model.Project, error)
}

type versionService struct {
	versions repo.VersionRepo
	projects repo.ProjectRepo
	users    repo.UserRepo
	log      *zap.Logger
}

func NewVersionService(versions repo.VersionRepo, projects repo.ProjectRepo, users repo.UserRepo, log *zap.Logger) VersionService {
	return &versionService{versions: versions, projects: projects, users: users, log: log}
}

type VersionView struct {
	*model.Version
	CreatedBy model.PublicUser `json:"created_by"`
}

type ListVersionsOutput struct {
	Items            []*VersionView `json:"items"`
	CurrentVersionID *uuid.UUID     `json:"current_version_id"`
}

func (s *versionService) List(ctx context.Context, p *model.Project) (*ListVersionsOutput, error) {
	versions, err := s.versions.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.CreatedByID)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u.Public()
	}

	out := &ListVersionsOutput{CurrentVersionID: p.CurrentVersionID}
	for _, v := range versions {
		out.Items = append(out.Items, &VersionView{Version: v, CreatedBy: byID[v.CreatedByID]})
	}
	return out, nil
}

type CreateVersionInput struct {
	VersionNumber string `json:"version_number"`
	Description   string `json:"description"`
}

// Create appends a version with a copy-on-write snapshot of the project's
// shared code file. The project's current-version pointer is left untouched:
// new versions are never auto-promoted.
func (s *versionService) Create(ctx context.Context, p *model.Project, createdBy *model.User, in CreateVersionInput) (*VersionView, error) {
	cf := p.CodeFile.Data()
	v := &model.Version{
		ProjectID:     p.ID,
		VersionNumber: in.VersionNumber,
		Description:   in.Description,
		CreatedByID:   createdBy.ID,
		CodeFile: datatypes.NewJSONType(model.CodeSnapshot{
			Filename: cf.Filename,
			Content:  cf.Content,
		}),
	}
	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}
	return &VersionView{Version: v, CreatedBy: createdBy.Public()}, nil
}

// SetCurrent points the project at an existing version and, when that
// version carries a non-empty snapshot, restores the shared code file from
// it. Versions created before any code file was saved leave the shared file
// untouched.
func (s *versionService) SetCurrent(ctx context.Context, p *model.Project, versionID uuid.UUID) (*model.Project, error) {
	v, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	if v.ProjectID != p.ID {
		return nil, ErrVersionNotFound
	}

	p.CurrentVersionID = &v.ID

	snap := v.CodeFile.Data()
	if !snap.Empty() {
		filename := snap.Filename
		if filename == "" {
			filename = p.CodeFile.Data().Filename
		}
		if filename == "" {
			filename = model.DefaultCodeFilename
		}
		now := time.Now()
		p.CodeFile = datatypes.NewJSONType(model.CodeFile{
			Filename:  filename,
			Content:   snap.Content,
			UpdatedAt: &now,
		})
		s.log.Debug("restored code file from version snapshot",
			zap.String("project_id", p.ID.String()),
			zap.String("version_id", v.ID.String()))
	}

	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
