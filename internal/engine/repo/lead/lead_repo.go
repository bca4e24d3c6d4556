package lead

import (
	"context"
	"errors"

	"github.com/leadfoundry/leadcore/internal/engine/model"
	"github.com/leadfoundry/leadcore/internal/engine/model/lead"
	"github.com/leadfoundry/leadcore/pkg/database"
	"gorm.io/gorm"
)

// ErrLeadNotFound signals a clean miss for a lead id.
var ErrLeadNotFound = errors.New("lead not found")

type ILeadRepository interface {
	Create(ctx context.Context, l *lead.Lead) error
	GetByLeadId(ctx context.Context, leadId string) (*lead.Lead, error)
	UpdateDisposition(ctx context.Context, leadId string, updates map[string]any) error
	ListByProject(ctx context.Context, projectId string, bucket string) ([]*lead.Lead, error)
}

type LeadRepo struct {
	db database.IDatabase
}

func NewLeadRepo(db database.IDatabase) ILeadRepository {
	return &LeadRepo{db: db}
}

func (r *LeadRepo) Create(ctx context.Context, l *lead.Lead) error {
	return r.db.Database().WithContext(ctx).Create(l).Error
}

func (r *LeadRepo) GetByLeadId(ctx context.Context, leadId string) (*lead.Lead, error) {
	var l lead.Lead
	err := r.db.Database().WithContext(ctx).
		Where("lead_id = ? AND is_deleted = ?", leadId, model.NotDeleted).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

// UpdateDisposition applies the disposition change. The caller decides
// whether the update map contains a bucket: an unresolved bucket leaves the
// stored one untouched.
func (r *LeadRepo) UpdateDisposition(ctx context.Context, leadId string, updates map[string]any) error {
	return r.db.Database().WithContext(ctx).
		Model(&lead.Lead{}).
		Where("lead_id = ? AND is_deleted = ?", leadId, model.NotDeleted).
		Updates(updates).Error
}

func (r *LeadRepo) ListByProject(ctx context.Context, projectId string, bucket string) ([]*lead.Lead, error) {
	db := r.db.Database().WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", projectId, model.NotDeleted)
	if bucket != "" {
		db = db.Where("bucket = ?", bucket)
	}
	var leads []*lead.Lead
	err := db.Order("id DESC").Find(&leads).Error
	return leads, err
}
