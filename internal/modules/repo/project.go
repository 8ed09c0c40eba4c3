package repo

import (
	"context"
	"time"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Save(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID, afterUpdatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Project, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Save(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Versions go with the project via the FK cascade.
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{}).Error
}

// ListForUser returns projects where the user is owner or appears in the
// collaborators document, newest activity first.
func (r *projectRepo) ListForUser(ctx context.Context, userID uuid.UUID, afterUpdatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Project, error) {
	member, err := sonic.Marshal([]map[string]string{{"user_id": userID.String()}})
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Where("owner_id = ? OR collaborators @> ?", userID, string(member))

	// Apply cursor-based pagination filter if cursor is provided
	if !afterUpdatedAt.IsZero() && afterID != uuid.Nil {
		q = q.Where(
			"(updated_at < ?) OR (updated_at = ? AND id < ?)",
			afterUpdatedAt, afterUpdatedAt, afterID,
		)
	}

	var projects []*model.Project
	query := q.Order("updated_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return projects, query.Find(&projects).Error
}
