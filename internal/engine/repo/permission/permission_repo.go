package permission

import (
	"context"
	"errors"

	"github.com/leadfoundry/leadcore/internal/engine/model"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	"github.com/leadfoundry/leadcore/pkg/database"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrRuleNotFound signals a clean miss for a rule id.
var ErrRuleNotFound = errors.New("permission rule not found")

// IPermissionRuleRepository is the config store surface for permission
// rules. Evaluation flows only ever read active, non-deleted rules.
type IPermissionRuleRepository interface {
	Create(ctx context.Context, rule *permission.Rule) error
	Update(ctx context.Context, ruleId string, conditions datatypes.JSON, status permission.RuleStatus) error
	SoftDelete(ctx context.Context, ruleId string) error
	GetByRuleId(ctx context.Context, ruleId string) (*permission.Rule, error)
	ListByRole(ctx context.Context, roleId string) ([]*permission.Rule, error)
	ListActiveByRole(ctx context.Context, roleId string) ([]*permission.Rule, error)
	ExistsTuple(ctx context.Context, roleId, resourceId string, action permission.Action, effect permission.Effect) (bool, error)
}

type PermissionRuleRepo struct {
	db database.IDatabase
}

func NewPermissionRuleRepo(db database.IDatabase) IPermissionRuleRepository {
	return &PermissionRuleRepo{db: db}
}

func (r *PermissionRuleRepo) Create(ctx context.Context, rule *permission.Rule) error {
	return r.db.Database().WithContext(ctx).Create(rule).Error
}

func (r *PermissionRuleRepo) Update(ctx context.Context, ruleId string, conditions datatypes.JSON, status permission.RuleStatus) error {
	updates := map[string]any{
		"conditions": conditions,
		"status":     status,
	}
	return r.db.Database().WithContext(ctx).
		Model(&permission.Rule{}).
		Where("rule_id = ? AND is_deleted = ?", ruleId, model.NotDeleted).
		Updates(updates).Error
}

func (r *PermissionRuleRepo) SoftDelete(ctx context.Context, ruleId string) error {
	return r.db.Database().WithContext(ctx).
		Model(&permission.Rule{}).
		Where("rule_id = ?", ruleId).
		Update("is_deleted", model.Deleted).Error
}

func (r *PermissionRuleRepo) GetByRuleId(ctx context.Context, ruleId string) (*permission.Rule, error) {
	var rule permission.Rule
	err := r.db.Database().WithContext(ctx).
		Where("rule_id = ? AND is_deleted = ?", ruleId, model.NotDeleted).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *PermissionRuleRepo) ListByRole(ctx context.Context, roleId string) ([]*permission.Rule, error) {
	var rules []*permission.Rule
	err := r.db.Database().WithContext(ctx).
		Where("role_id = ? AND is_deleted = ?", roleId, model.NotDeleted).
		Order("id").
		Find(&rules).Error
	return rules, err
}

// ListActiveByRole returns only the rules that participate in evaluation.
func (r *PermissionRuleRepo) ListActiveByRole(ctx context.Context, roleId string) ([]*permission.Rule, error) {
	var rules []*permission.Rule
	err := r.db.Database().WithContext(ctx).
		Where("role_id = ? AND status = ? AND is_deleted = ?", roleId, permission.RuleActive, model.NotDeleted).
		Order("id").
		Find(&rules).Error
	return rules, err
}

// ExistsTuple reports whether a live rule already occupies the unique
// (roleId, resourceId, action, effect) slot.
func (r *PermissionRuleRepo) ExistsTuple(ctx context.Context, roleId, resourceId string, action permission.Action, effect permission.Effect) (bool, error) {
	var count int64
	err := r.db.Database().WithContext(ctx).
		Model(&permission.Rule{}).
		Where("role_id = ? AND resource_id = ? AND action = ? AND effect = ? AND is_deleted = ?",
			roleId, resourceId, action, effect, model.NotDeleted).
		Count(&count).Error
	return count > 0, err
}
