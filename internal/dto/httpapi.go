package dto

// 注意：本包用于承载“对外契约”的 DTO（与 HTTP API 保持稳定）。
// 不要在这里放 GORM/持久化细节；内部持久化 schema 请见 internal/schema；业务逻辑收敛在 internal/service。

type DashboardStatsDTO struct {
	UserID          string     `json:"user_id"`
	WindowDays      int        `json:"window_days"`
	TotalActivities int        `json:"total_activities"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	ConsistencyRate int        `json:"consistency_rate"`
	SkillsLearned   int        `json:"skills_learned"`
	TopSkills       []SkillDTO `json:"top_skills"`
}

type InsightDTO struct {
	ID          string `json:"id"`
	Rule        string `json:"rule"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // ACHIEVEMENT, TIP, MILESTONE
	Icon        string `json:"icon"`
	Timestamp   int64  `json:"timestamp"` // Unix ms
	IsRead      bool   `json:"is_read"`
}

type MarkInsightReadRequestDTO struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
}

type ActivityDTO struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	Count       int    `json:"count"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ActivityDayDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LogActivityRequestDTO struct {
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD，缺省为今天
}

type SkillDTO struct {
	SkillName string `json:"skill_name"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
}

type SetSkillRequestDTO struct {
	UserID    string `json:"user_id"`
	SkillName string `json:"skill_name"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
}

type AchievementDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlocked_at,omitempty"` // RFC3339
}

type ConsistencyDTO struct {
	Week  []int `json:"week"`
	Month []int `json:"month"`
	Year  int   `json:"year"`
}
