package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadRecord is one row of the persistent upload history.
type UploadRecord struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	BatchID   string    `json:"batch_id" gorm:"index"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2)"`
	RemoteID  int64     `json:"remote_id"`
	Status    string    `json:"status" gorm:"not null"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *UploadRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
