package entities

import "time"

type AuditAction string

const (
	AuditActionCreate      AuditAction = "bookmark_create"
	AuditActionUpdate      AuditAction = "bookmark_update"
	AuditActionDelete      AuditAction = "bookmark_delete"
	AuditActionPhotoSave   AuditAction = "photo_save"
	AuditActionPhotoDelete AuditAction = "photo_delete"
	AuditActionPhotoPrune  AuditAction = "photo_prune"
	AuditActionRefresh     AuditAction = "place_refresh"
	AuditActionImport      AuditAction = "import"
	AuditActionExport      AuditAction = "export"
	AuditActionAuth        AuditAction = "auth"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index" json:"user_id,omitempty"`
	Action      AuditAction `gorm:"index;size:50" json:"action"`
	BookmarkID  *uint       `gorm:"index" json:"bookmark_id,omitempty"`
	Description string      `gorm:"size:500" json:"description"`
	RequestID   string      `gorm:"size:36" json:"request_id,omitempty"`
	Status      AuditStatus `gorm:"size:20" json:"status"`
	ErrorMsg    string      `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
