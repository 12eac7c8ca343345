package schema

import "time"

// UserSkill 用户技能熟练度
// 数据量级：每用户十级
type UserSkill struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:uniq_user_skill,priority:1" json:"user_id"`
	SkillName string    `gorm:"size:100;not null;uniqueIndex:uniq_user_skill,priority:2" json:"skill_name"` // React, Go, DevOps
	Category  string    `gorm:"size:50;index" json:"category"`                                             // Frontend, Backend, Language, Tools
	Level     int       `gorm:"not null;default:0" json:"level"`                                           // 0-100
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (UserSkill) TableName() string {
	return "user_skills"
}
