package lead

import (
	"github.com/leadfoundry/leadcore/internal/engine/model"
)

// Lead is the sales lead whose status bucket the resolution engine computes.
type Lead struct {
	model.BaseModel
	LeadId         string `gorm:"column:lead_id;not null;uniqueIndex" json:"leadId"`
	LeadCode       string `gorm:"column:lead_code;not null" json:"leadCode"` // short human-facing code
	ProjectId      string `gorm:"column:project_id;not null;index" json:"projectId"`
	ChannelId      string `gorm:"column:channel_id;index" json:"channelId"`
	ModuleId       string `gorm:"column:module_id;not null" json:"moduleId"`
	Name           string `gorm:"column:name" json:"name"`
	Phone          string `gorm:"column:phone;index" json:"phone"`
	Email          string `gorm:"column:email" json:"email"`
	Progress       string `gorm:"column:progress" json:"progress"`
	Disposition    string `gorm:"column:disposition" json:"disposition"`
	SubDisposition string `gorm:"column:sub_disposition" json:"subDisposition"`
	Bucket         string `gorm:"column:bucket;index" json:"bucket"`
	AssignedTo     string `gorm:"column:assigned_to;index" json:"assignedTo"`
	IsDeleted      int    `gorm:"column:is_deleted;not null;default:0" json:"-"`
	CreatedBy      string `gorm:"column:created_by" json:"createdBy"`
}

func (l *Lead) TableName() string {
	return "t_lead"
}

// CreateLeadRequest is the intake payload.
type CreateLeadRequest struct {
	ProjectId string `json:"projectId"`
	ChannelId string `json:"channelId"`
	ModuleId  string `json:"moduleId"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedBy string `json:"createdBy"`
}

// UpdateDispositionRequest carries a disposition change for one lead.
type UpdateDispositionRequest struct {
	Progress       string `json:"progress"`
	Disposition    string `json:"disposition"`
	SubDisposition string `json:"subDisposition"`
}
