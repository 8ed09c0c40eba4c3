package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultCodeFilename is used when neither the project nor an incoming
// payload carries a filename for the shared code file.
const DefaultCodeFilename = "Main.java"

type Role string

const (
	RoleOwner        Role = "Owner"
	RoleCollaborator Role = "Collaborator"
)

// Collaborator is one entry of the project's member document. The owner is
// never stored here; ownership is derived from Project.OwnerID.
type Collaborator struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// CodeFile is the single shared mutable document of a project. Writes are
// wholesale overwrites; last write wins.
type CodeFile struct {
	Filename  string     `json:"filename"`
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:varchar(500);not null;default:''" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Collaborators datatypes.JSONSlice[Collaborator] `gorm:"type:jsonb" json:"collaborators"`
	Documentation string                            `gorm:"type:text;not null;default:''" json:"documentation"`
	CodeFile      datatypes.JSONType[CodeFile]      `gorm:"type:jsonb" swaggertype:"object" json:"code_file"`

	CurrentVersionID *uuid.UUID `gorm:"type:uuid" json:"current_version_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Project <-> User
	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Version
	Versions []Version `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) IsOwner(userID uuid.UUID) bool {
	return p.OwnerID == userID
}

// IsCollaborator reports whether userID appears in the member document,
// regardless of role.
func (p *Project) IsCollaborator(userID uuid.UUID) bool {
	for _, c := range p.Collaborators {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// HasAccess is the read/write predicate: owner or listed collaborator.
func (p *Project) HasAccess(userID uuid.UUID) bool {
	return p.IsOwner(userID) || p.IsCollaborator(userID)
}
