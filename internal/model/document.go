// internal/model/document.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document は文書ストア上の1レコードです。
// レコード本体はJSONのままDataに保持し、所有テナントだけをカラムに昇格させて
// テナントスコープのクエリに使います。
type Document struct {
	Collection string         `gorm:"primaryKey;size:64" json:"collection"`
	DocID      string         `gorm:"primaryKey;size:128;column:doc_id" json:"doc_id"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Data       datatypes.JSON `gorm:"not null" json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
