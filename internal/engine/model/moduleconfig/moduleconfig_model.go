package moduleconfig

import (
	"encoding/json"
	"fmt"

	"github.com/leadfoundry/leadcore/internal/engine/model"
	"gorm.io/datatypes"
)

// FieldLeadProgressDisposition is the distinguished field that drives lead
// status resolution. Exactly one field with this name is expected per config.
const FieldLeadProgressDisposition = "leadProgressDisposition"

// ModuleConfig is a versioned, hierarchical configuration document scoped to
// (moduleId, projectId). A row with an empty project_id is the global default
// for the module; a row with a project_id is a tenant override.
type ModuleConfig struct {
	model.BaseModel
	ConfigId  string         `gorm:"column:config_id;not null;uniqueIndex" json:"configId"`
	ModuleId  string         `gorm:"column:module_id;not null;index:idx_module_project" json:"moduleId"`
	ProjectId string         `gorm:"column:project_id;index:idx_module_project" json:"projectId"` // empty: global default
	Version   int            `gorm:"column:version;not null;default:1" json:"version"`
	Fields    datatypes.JSON `gorm:"column:fields;type:json" json:"fields"`
	IsDeleted int            `gorm:"column:is_deleted;not null;default:0" json:"-"`
	CreatedBy string         `gorm:"column:created_by" json:"createdBy"`
}

func (m *ModuleConfig) TableName() string {
	return "t_module_config"
}

// Field is one ordered field definition inside a module config.
type Field struct {
	FieldName string          `json:"fieldName"`
	FieldType string          `json:"fieldType"`
	Values    []ProgressValue `json:"values,omitempty"`
}

// ProgressValue maps a progress display name to its dispositions.
type ProgressValue struct {
	DisplayName  string             `json:"displayName"`
	Dispositions []DispositionEntry `json:"dispositions,omitempty"`
}

// DispositionEntry maps a disposition name to its sub-dispositions.
type DispositionEntry struct {
	Name            string                `json:"name"`
	SubDispositions []SubDispositionEntry `json:"subDispositions,omitempty"`
}

// SubDispositionEntry is the leaf of the resolution tree. An empty Name marks
// the default entry, matched when the caller supplies no sub-disposition.
type SubDispositionEntry struct {
	Name   string `json:"name"`
	Bucket string `json:"bucket"`
}

// DecodeFields decodes and validates the JSON fields column. This is the
// single validating boundary: the resolution engines assume the result is
// structurally well-formed.
func (m *ModuleConfig) DecodeFields() ([]Field, error) {
	if len(m.Fields) == 0 {
		return nil, nil
	}
	var fields []Field
	if err := json.Unmarshal(m.Fields, &fields); err != nil {
		return nil, fmt.Errorf("decode module config %s fields: %w", m.ConfigId, err)
	}
	if err := ValidateFields(fields); err != nil {
		return nil, fmt.Errorf("module config %s: %w", m.ConfigId, err)
	}
	return fields, nil
}

// EncodeFields validates and serializes field definitions for persistence.
func EncodeFields(fields []Field) (datatypes.JSON, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return raw, nil
}

// ValidateFields enforces the structural invariants of the resolution tree:
// field names are present, disposition names are unique within a progress
// value, and sub-disposition names are unique within a disposition (the
// empty-name default entry counts as one such name).
func ValidateFields(fields []Field) error {
	for _, f := range fields {
		if f.FieldName == "" {
			return fmt.Errorf("field with empty fieldName")
		}
		for _, pv := range f.Values {
			if pv.DisplayName == "" {
				return fmt.Errorf("field %s: progress value with empty displayName", f.FieldName)
			}
			seen := make(map[string]struct{}, len(pv.Dispositions))
			for _, d := range pv.Dispositions {
				if d.Name == "" {
					return fmt.Errorf("field %s, progress %s: disposition with empty name", f.FieldName, pv.DisplayName)
				}
				if _, dup := seen[d.Name]; dup {
					return fmt.Errorf("field %s, progress %s: duplicate disposition %q", f.FieldName, pv.DisplayName, d.Name)
				}
				seen[d.Name] = struct{}{}

				seenSub := make(map[string]struct{}, len(d.SubDispositions))
				for _, sd := range d.SubDispositions {
					if _, dup := seenSub[sd.Name]; dup {
						return fmt.Errorf("field %s, progress %s, disposition %s: duplicate sub-disposition %q",
							f.FieldName, pv.DisplayName, d.Name, sd.Name)
					}
					seenSub[sd.Name] = struct{}{}
				}
			}
		}
	}
	return nil
}

// CreateModuleConfigRequest is the admin-facing create payload.
type CreateModuleConfigRequest struct {
	ModuleId  string  `json:"moduleId"`
	ProjectId string  `json:"projectId"` // empty creates the global default
	Fields    []Field `json:"fields"`
	CreatedBy string  `json:"createdBy"`
}

// UpdateModuleConfigRequest replaces the field definitions of a config.
type UpdateModuleConfigRequest struct {
	Fields []Field `json:"fields"`
}
