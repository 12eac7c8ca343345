package schema

import "time"

// Activity 用户某一天的学习活动汇总
// 每个用户每天最多一行，由 (user_id, date) 唯一索引保证
type Activity struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:uniq_user_date,priority:1" json:"user_id"`
	Date        string    `gorm:"size:10;not null;index;uniqueIndex:uniq_user_date,priority:2" json:"date"` // YYYY-MM-DD
	Count       int       `gorm:"not null;default:0" json:"count"`
	Type        string    `gorm:"size:32" json:"type"` // learning, practice, reading ...
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Activity) TableName() string {
	return "activities"
}
