package permission

import (
	"encoding/json"
	"fmt"

	"github.com/leadfoundry/leadcore/internal/engine/model"
	"gorm.io/datatypes"
)

// Action is the operation a rule applies to. ActionAll is the wildcard and
// matches any action at the lowest specificity.
type Action string

const (
	ActionAll      Action = "*"
	ActionView     Action = "view"
	ActionList     Action = "list"
	ActionCreate   Action = "create"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionAssign   Action = "assign"
	ActionReassign Action = "reassign"
	ActionExport   Action = "export"
	ActionImport   Action = "import"
	ActionCall     Action = "call"
	ActionEmail    Action = "email"
	ActionNote     Action = "note"
	ActionTask     Action = "task"
	ActionUpload   Action = "upload"
	ActionDownload Action = "download"
	ActionShare    Action = "share"
	ActionApprove  Action = "approve"
)

// ValidActions enumerates every recognized action.
var ValidActions = map[Action]struct{}{
	ActionAll: {}, ActionView: {}, ActionList: {}, ActionCreate: {},
	ActionEdit: {}, ActionDelete: {}, ActionAssign: {}, ActionReassign: {},
	ActionExport: {}, ActionImport: {}, ActionCall: {}, ActionEmail: {},
	ActionNote: {}, ActionTask: {}, ActionUpload: {}, ActionDownload: {},
	ActionShare: {}, ActionApprove: {},
}

// Effect is the outcome a rule contributes.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// RuleStatus activates or parks a rule. Inactive rules are never evaluated.
type RuleStatus string

const (
	RuleActive   RuleStatus = "active"
	RuleInactive RuleStatus = "inactive"
)

// Rule is one permission rule attached to a role. The (roleId, resourceId,
// action, effect) tuple is unique: a resource may carry one allow and one
// deny for the same action ("allow unless condition X"), never two of the
// same effect.
type Rule struct {
	model.BaseModel
	RuleId     string         `gorm:"column:rule_id;not null;uniqueIndex" json:"ruleId"`
	RoleId     string         `gorm:"column:role_id;not null;index;uniqueIndex:idx_role_resource_action_effect" json:"roleId"`
	ResourceId string         `gorm:"column:resource_id;not null;uniqueIndex:idx_role_resource_action_effect" json:"resourceId"`
	Action     Action         `gorm:"column:action;not null;type:varchar(32);uniqueIndex:idx_role_resource_action_effect" json:"action"`
	Effect     Effect         `gorm:"column:effect;not null;type:varchar(16);uniqueIndex:idx_role_resource_action_effect" json:"effect"`
	Conditions datatypes.JSON `gorm:"column:conditions;type:json" json:"conditions"`
	Status     RuleStatus     `gorm:"column:status;not null;type:varchar(16);default:'active'" json:"status"`
	IsDeleted  int            `gorm:"column:is_deleted;not null;default:0" json:"-"`
	CreatedBy  string         `gorm:"column:created_by" json:"createdBy"`
}

func (r *Rule) TableName() string {
	return "t_permission_rule"
}

// DecodeConditions decodes the opaque key/value condition map. A missing or
// empty column means the rule is unconditional.
func (r *Rule) DecodeConditions() (map[string]string, error) {
	if len(r.Conditions) == 0 {
		return nil, nil
	}
	var conditions map[string]string
	if err := json.Unmarshal(r.Conditions, &conditions); err != nil {
		return nil, fmt.Errorf("decode rule %s conditions: %w", r.RuleId, err)
	}
	return conditions, nil
}

// Validate checks enum fields on a rule before it is persisted.
func (r *Rule) Validate() error {
	if r.RoleId == "" {
		return fmt.Errorf("roleId is required")
	}
	if r.ResourceId == "" {
		return fmt.Errorf("resourceId is required")
	}
	if _, ok := ValidActions[r.Action]; !ok {
		return fmt.Errorf("unknown action %q", r.Action)
	}
	if r.Effect != EffectAllow && r.Effect != EffectDeny {
		return fmt.Errorf("unknown effect %q", r.Effect)
	}
	if r.Status != RuleActive && r.Status != RuleInactive {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}

// CreateRuleRequest is the admin-facing create payload.
type CreateRuleRequest struct {
	RoleId     string            `json:"roleId"`
	ResourceId string            `json:"resourceId"`
	Action     Action            `json:"action"`
	Effect     Effect            `json:"effect"`
	Conditions map[string]string `json:"conditions"`
	Status     RuleStatus        `json:"status"`
	CreatedBy  string            `json:"createdBy"`
}

// UpdateRuleRequest updates the mutable parts of a rule.
type UpdateRuleRequest struct {
	Conditions map[string]string `json:"conditions"`
	Status     RuleStatus        `json:"status"`
}
