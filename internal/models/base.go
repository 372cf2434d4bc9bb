package models

import (
	"time"

	"gorm.io/gorm"
)

// Record is one row of the key-value table. Every logical record (the
// transactions list, the goals list, the blocklist, counters) is stored as a
// single JSON payload under its key.
type Record struct {
	Key       string    `gorm:"column:id;primaryKey;size:191" json:"key"`
	Payload   string    `gorm:"column:payload;type:text;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName pins the table name shared with the SQL migrations.
func (Record) TableName() string {
	return "kv_records"
}

// BeforeSave stamps the modification time.
func (r *Record) BeforeSave(tx *gorm.DB) error {
	r.UpdatedAt = time.Now().UTC()
	return nil
}
