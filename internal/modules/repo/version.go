package repo

import (
	"context"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VersionRepo interface {
	Create(ctx context.Context, v *model.Version) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Version, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Version, error)
}

type versionRepo struct{ db *gorm.DB }

func NewVersionRepo(db *gorm.DB) VersionRepo {
	return &versionRepo{db: db}
}

func (r *versionRepo) Create(ctx context.Context, v *model.Version) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *versionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Version, error) {
	var v model.Version
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *versionRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Version, error) {
	var versions []*model.Version
	return versions, r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&versions).Error
}
