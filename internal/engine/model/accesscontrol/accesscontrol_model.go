package accesscontrol

import (
	"encoding/json"
	"fmt"

	"github.com/leadfoundry/leadcore/internal/engine/model"
	"gorm.io/datatypes"
)

// AccessControl is the per-(project, channel) access control document. The
// pair is unique; the document is an explicit allow-list of module/role
// toggles, so anything not present is disabled.
type AccessControl struct {
	model.BaseModel
	AccessId      string         `gorm:"column:access_id;not null;uniqueIndex" json:"accessId"`
	ProjectId     string         `gorm:"column:project_id;not null;uniqueIndex:idx_project_channel" json:"projectId"`
	ChannelId     string         `gorm:"column:channel_id;not null;uniqueIndex:idx_project_channel" json:"channelId"`
	ModuleConfigs datatypes.JSON `gorm:"column:module_configs;type:json" json:"moduleConfigs"`
	IsDeleted     int            `gorm:"column:is_deleted;not null;default:0" json:"-"`
	CreatedBy     string         `gorm:"column:created_by" json:"createdBy"`
}

func (a *AccessControl) TableName() string {
	return "t_access_control"
}

// ModuleRoleConfig groups the role toggles for one module.
type ModuleRoleConfig struct {
	ModuleId    string       `json:"moduleId"`
	RoleConfigs []RoleToggle `json:"roleConfigs,omitempty"`
}

// RoleToggle enables or disables a module for one role.
type RoleToggle struct {
	RoleId string `json:"roleId"`
	Status bool   `json:"status"`
}

// DecodeModuleConfigs decodes the JSON module_configs column.
func (a *AccessControl) DecodeModuleConfigs() ([]ModuleRoleConfig, error) {
	if len(a.ModuleConfigs) == 0 {
		return nil, nil
	}
	var configs []ModuleRoleConfig
	if err := json.Unmarshal(a.ModuleConfigs, &configs); err != nil {
		return nil, fmt.Errorf("decode access control %s module configs: %w", a.AccessId, err)
	}
	return configs, nil
}

// EncodeModuleConfigs validates and serializes module role configs for
// persistence.
func EncodeModuleConfigs(configs []ModuleRoleConfig) (datatypes.JSON, error) {
	if err := ValidateModuleConfigs(configs); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(configs)
	if err != nil {
		return nil, fmt.Errorf("encode module configs: %w", err)
	}
	return raw, nil
}

// ValidateModuleConfigs rejects empty documents and duplicate module or role
// entries. A document with zero module configs is invalid: an empty
// allow-list grants nothing and is always an authoring mistake.
func ValidateModuleConfigs(configs []ModuleRoleConfig) error {
	if len(configs) == 0 {
		return fmt.Errorf("access control document must contain at least one module config")
	}
	seenModules := make(map[string]struct{}, len(configs))
	for _, mc := range configs {
		if mc.ModuleId == "" {
			return fmt.Errorf("module config with empty moduleId")
		}
		if _, dup := seenModules[mc.ModuleId]; dup {
			return fmt.Errorf("duplicate module %q in access control document", mc.ModuleId)
		}
		seenModules[mc.ModuleId] = struct{}{}

		seenRoles := make(map[string]struct{}, len(mc.RoleConfigs))
		for _, rt := range mc.RoleConfigs {
			if rt.RoleId == "" {
				return fmt.Errorf("module %q: role toggle with empty roleId", mc.ModuleId)
			}
			if _, dup := seenRoles[rt.RoleId]; dup {
				return fmt.Errorf("module %q: duplicate role %q", mc.ModuleId, rt.RoleId)
			}
			seenRoles[rt.RoleId] = struct{}{}
		}
	}
	return nil
}

// CreateAccessControlRequest is the admin-facing create payload.
type CreateAccessControlRequest struct {
	ProjectId     string             `json:"projectId"`
	ChannelId     string             `json:"channelId"`
	ModuleConfigs []ModuleRoleConfig `json:"moduleConfigs"`
	CreatedBy     string             `json:"createdBy"`
}

// UpdateAccessControlRequest replaces the module configs of a document.
type UpdateAccessControlRequest struct {
	ModuleConfigs []ModuleRoleConfig `json:"moduleConfigs"`
	// Merge keeps existing modules not named in ModuleConfigs instead of
	// replacing the whole list.
	Merge bool `json:"merge"`
}
