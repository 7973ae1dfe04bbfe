package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"uploader/internal/models"
)

// Database persists the upload history. A sqlite:// URL keeps everything
// local (the normal desktop case); anything else is treated as postgres.
type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	} else {
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.UploadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &Database{DB: db}, nil
}

// RecordUpload stores the outcome of one queue item.
func (d *Database) RecordUpload(batchID string, item models.QueueItem) error {
	rec := models.UploadRecord{
		BatchID:  batchID,
		SKU:      item.Record.SKU,
		Name:     item.Record.Name,
		Price:    item.Record.Price,
		RemoteID: item.RemoteID,
		Status:   string(item.Status),
		Reason:   item.FailureReason,
	}
	return d.DB.Create(&rec).Error
}

// RecentUploads returns the newest history rows, most recent first.
func (d *Database) RecentUploads(limit int) ([]models.UploadRecord, error) {
	var records []models.UploadRecord
	err := d.DB.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
