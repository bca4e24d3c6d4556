package moduleconfig

import (
	"context"
	"errors"

	"github.com/leadfoundry/leadcore/internal/engine/core/resolve"
	"github.com/leadfoundry/leadcore/internal/engine/model"
	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	"github.com/leadfoundry/leadcore/pkg/database"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IModuleConfigRepository is the config store surface for module configs.
// Reads always filter soft-deleted documents; a clean miss on the scope
// lookups is reported as resolve.ErrConfigNotFound.
type IModuleConfigRepository interface {
	Create(ctx context.Context, cfg *moduleconfig.ModuleConfig) error
	UpdateFields(ctx context.Context, configId string, fields datatypes.JSON) error
	SoftDelete(ctx context.Context, configId string) error
	GetByConfigId(ctx context.Context, configId string) (*moduleconfig.ModuleConfig, error)
	GetByModuleAndProject(ctx context.Context, moduleId, projectId string) (*moduleconfig.ModuleConfig, error)
	GetGlobal(ctx context.Context, moduleId string) (*moduleconfig.ModuleConfig, error)
	ListByModule(ctx context.Context, moduleId string) ([]*moduleconfig.ModuleConfig, error)
}

type ModuleConfigRepo struct {
	db database.IDatabase
}

func NewModuleConfigRepo(db database.IDatabase) IModuleConfigRepository {
	return &ModuleConfigRepo{db: db}
}

// compile-time check: the repo is a resolve.Store
var _ resolve.Store = (IModuleConfigRepository)(nil)

func (r *ModuleConfigRepo) Create(ctx context.Context, cfg *moduleconfig.ModuleConfig) error {
	return r.db.Database().WithContext(ctx).Create(cfg).Error
}

func (r *ModuleConfigRepo) UpdateFields(ctx context.Context, configId string, fields datatypes.JSON) error {
	return r.db.Database().WithContext(ctx).
		Model(&moduleconfig.ModuleConfig{}).
		Where("config_id = ? AND is_deleted = ?", configId, model.NotDeleted).
		Updates(map[string]any{
			"fields":  fields,
			"version": gorm.Expr("version + 1"),
		}).Error
}

func (r *ModuleConfigRepo) SoftDelete(ctx context.Context, configId string) error {
	return r.db.Database().WithContext(ctx).
		Model(&moduleconfig.ModuleConfig{}).
		Where("config_id = ?", configId).
		Update("is_deleted", model.Deleted).Error
}

func (r *ModuleConfigRepo) GetByConfigId(ctx context.Context, configId string) (*moduleconfig.ModuleConfig, error) {
	var cfg moduleconfig.ModuleConfig
	err := r.db.Database().WithContext(ctx).
		Where("config_id = ? AND is_deleted = ?", configId, model.NotDeleted).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resolve.ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// GetByModuleAndProject fetches the tenant override for (moduleId, projectId).
func (r *ModuleConfigRepo) GetByModuleAndProject(ctx context.Context, moduleId, projectId string) (*moduleconfig.ModuleConfig, error) {
	var cfg moduleconfig.ModuleConfig
	err := r.db.Database().WithContext(ctx).
		Where("module_id = ? AND project_id = ? AND is_deleted = ?", moduleId, projectId, model.NotDeleted).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resolve.ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// GetGlobal fetches the global default for the module (empty project_id).
func (r *ModuleConfigRepo) GetGlobal(ctx context.Context, moduleId string) (*moduleconfig.ModuleConfig, error) {
	var cfg moduleconfig.ModuleConfig
	err := r.db.Database().WithContext(ctx).
		Where("module_id = ? AND project_id = ? AND is_deleted = ?", moduleId, "", model.NotDeleted).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resolve.ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ModuleConfigRepo) ListByModule(ctx context.Context, moduleId string) ([]*moduleconfig.ModuleConfig, error) {
	var configs []*moduleconfig.ModuleConfig
	err := r.db.Database().WithContext(ctx).
		Where("module_id = ? AND is_deleted = ?", moduleId, model.NotDeleted).
		Order("project_id").
		Find(&configs).Error
	return configs, err
}
