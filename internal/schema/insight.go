package schema

import "time"

// Insight 已展示给用户的洞察（用于已读状态）
// ID 由引擎确定性生成，重复写入同一条洞察不会产生新行
type Insight struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:64;not null;index" json:"user_id"`
	Rule        string    `gorm:"size:32;index" json:"rule"`
	Title       string    `gorm:"size:100" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:16" json:"type"` // ACHIEVEMENT, TIP, MILESTONE
	Icon        string    `gorm:"size:16" json:"icon"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	Timestamp   int64     `gorm:"index;not null" json:"timestamp"` // Unix ms
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Insight) TableName() string {
	return "insights"
}
