package model

import "time"

// BaseModel is embedded by all persisted entities.
type BaseModel struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// Soft delete flags. Documents are never physically removed; every store
// query filters on is_deleted.
const (
	NotDeleted = 0
	Deleted    = 1
)
