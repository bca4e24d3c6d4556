package accesscontrol

import (
	"context"
	"errors"

	"github.com/leadfoundry/leadcore/internal/engine/model"
	"github.com/leadfoundry/leadcore/internal/engine/model/accesscontrol"
	"github.com/leadfoundry/leadcore/pkg/database"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrAccessDocNotFound signals a clean miss for a (project, channel) pair.
var ErrAccessDocNotFound = errors.New("access control document not found")

// IAccessControlRepository is the config store surface for access control
// documents. One row per (project, channel) pair, fetched atomically.
type IAccessControlRepository interface {
	Create(ctx context.Context, doc *accesscontrol.AccessControl) error
	GetByProjectAndChannel(ctx context.Context, projectId, channelId string) (*accesscontrol.AccessControl, error)
	GetByAccessId(ctx context.Context, accessId string) (*accesscontrol.AccessControl, error)
	UpdateModuleConfigs(ctx context.Context, accessId string, moduleConfigs datatypes.JSON) error
	SoftDelete(ctx context.Context, accessId string) error
}

type AccessControlRepo struct {
	db database.IDatabase
}

func NewAccessControlRepo(db database.IDatabase) IAccessControlRepository {
	return &AccessControlRepo{db: db}
}

func (r *AccessControlRepo) Create(ctx context.Context, doc *accesscontrol.AccessControl) error {
	return r.db.Database().WithContext(ctx).Create(doc).Error
}

func (r *AccessControlRepo) GetByProjectAndChannel(ctx context.Context, projectId, channelId string) (*accesscontrol.AccessControl, error) {
	var doc accesscontrol.AccessControl
	err := r.db.Database().WithContext(ctx).
		Where("project_id = ? AND channel_id = ? AND is_deleted = ?", projectId, channelId, model.NotDeleted).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDocNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *AccessControlRepo) GetByAccessId(ctx context.Context, accessId string) (*accesscontrol.AccessControl, error) {
	var doc accesscontrol.AccessControl
	err := r.db.Database().WithContext(ctx).
		Where("access_id = ? AND is_deleted = ?", accessId, model.NotDeleted).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDocNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *AccessControlRepo) UpdateModuleConfigs(ctx context.Context, accessId string, moduleConfigs datatypes.JSON) error {
	return r.db.Database().WithContext(ctx).
		Model(&accesscontrol.AccessControl{}).
		Where("access_id = ? AND is_deleted = ?", accessId, model.NotDeleted).
		Update("module_configs", moduleConfigs).Error
}

func (r *AccessControlRepo) SoftDelete(ctx context.Context, accessId string) error {
	return r.db.Database().WithContext(ctx).
		Model(&accesscontrol.AccessControl{}).
		Where("access_id = ?", accessId).
		Update("is_deleted", model.Deleted).Error
}
