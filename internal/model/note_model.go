package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	Id                  uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID         `gorm:"type:uuid;not null;index"`
	Topic               string            `gorm:"type:varchar(255);not null"`
	Level               string            `gorm:"type:varchar(50);not null"`
	Content             string            `gorm:"type:text"`
	GeneratedContent    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	InteractionProgress datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	Progress            int               `gorm:"not null;default:0"`
	Status              string            `gorm:"type:varchar(20);not null;default:'Not Started'"`
	CreatedAt           time.Time         `gorm:"autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt    `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
