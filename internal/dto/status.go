package dto

type StatusDTO struct {
	App      AppStatusDTO      `json:"app"`
	Storage  StorageStatusDTO  `json:"storage"`
	Insights InsightsStatusDTO `json:"insights"`
	Events   EventsStatusDTO   `json:"events"`
}

type AppStatusDTO struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Build       string `json:"build"`
	Commit      string `json:"commit"`
	StartedAt   string `json:"started_at"`
	UptimeSec   int64  `json:"uptime_sec"`
	SafeMode    bool   `json:"safe_mode"`
	DefaultUser string `json:"default_user"`
	ConfigPath  string `json:"config_path,omitempty"`
}

type StorageStatusDTO struct {
	DBPath         string `json:"db_path"`
	SchemaVersion  int    `json:"schema_version"`
	SafeModeReason string `json:"safe_mode_reason,omitempty"`
}

type InsightsStatusDTO struct {
	StreakAchievementDays int `json:"streak_achievement_days"`
	WeakSkillLevel        int `json:"weak_skill_level"`
	MilestoneStep         int `json:"milestone_step"`
	LowConsistencyRate    int `json:"low_consistency_rate"`
	WindowDays            int `json:"window_days"`
}

type EventsStatusDTO struct {
	Subscribers int `json:"subscribers"`
}
