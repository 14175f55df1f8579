package database

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB defines the database instance containing the connection to the
// SQLite scan-history store.
type DB struct {
	conn *gorm.DB
}

// New opens (creating if needed) the history store at path.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); len(dir) > 0 && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}

	if err = db.Migrate(); err != nil {
		return nil, err
	}
	return db, err
}

// Migrate migrates the current database structures.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(ReportRecord{})
}

// SaveReport saves one completed run.
func (db *DB) SaveReport(rec *ReportRecord) error {
	if err := db.conn.Create(rec).Error; err != nil {
		return err
	}
	return nil
}

// Reports returns all recorded runs, newest first.
func (db *DB) Reports() ([]ReportRecord, error) {
	var records []ReportRecord
	if err := db.conn.Order("scan_date desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Report fetches one recorded run by ID.
func (db *DB) Report(id uint) (*ReportRecord, error) {
	var rec ReportRecord
	if err := db.conn.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
