package schema

import "time"

// SchemaMeta 单行表（ID=1），记录 schema 版本以及最后一次执行迁移的程序版本
type SchemaMeta struct {
	ID            int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	MigratedBy    string    `gorm:"size:32"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}
