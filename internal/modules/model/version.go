package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CodeSnapshot is an immutable copy of the shared code file captured when a
// version is created. Later edits to the shared file never touch it.
type CodeSnapshot struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (s CodeSnapshot) Empty() bool {
	return s.Filename == "" && s.Content == ""
}

// Version is append-only: no update or delete operation exists.
type Version struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID     uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	VersionNumber string    `gorm:"type:varchar(50);not null" json:"version_number"`
	Description   string    `gorm:"type:varchar(500);not null;default:''" json:"description"`
	CreatedByID   uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`

	CodeFile datatypes.JSONType[CodeSnapshot] `gorm:"type:jsonb" swaggertype:"object" json:"code_file"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Version <-> Project; the FK cascade removes versions with their project.
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Version <-> User
	CreatedBy *User `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Version) TableName() string { return "versions" }
