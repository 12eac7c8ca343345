package analytics

import "time"

// Achievement 仪表盘徽章
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Requirement string     `json:"requirement"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type achievementRule struct {
	Achievement
	check func(DashboardSummary) bool
}

var achievementCatalog = []achievementRule{
	{
		Achievement: Achievement{ID: "first_step", Name: "First Step", Description: "Log your first learning activity", Icon: "🎯", Requirement: "totalActivities >= 1"},
		check:       func(s DashboardSummary) bool { return s.TotalActivities >= 1 },
	},
	{
		Achievement: Achievement{ID: "on_fire", Name: "On Fire!", Description: "Maintain a 7-day streak", Icon: "🔥", Requirement: "currentStreak >= 7"},
		check:       func(s DashboardSummary) bool { return s.CurrentStreak >= 7 },
	},
	{
		Achievement: Achievement{ID: "consistent", Name: "Consistency King", Description: "Maintain 80% consistency rate", Icon: "👑", Requirement: "consistencyRate >= 80"},
		check:       func(s DashboardSummary) bool { return s.ConsistencyRate >= 80 },
	},
	{
		Achievement: Achievement{ID: "skill_master", Name: "Skill Master", Description: "Learn 5 different skills", Icon: "🎓", Requirement: "skillsLearned >= 5"},
		check:       func(s DashboardSummary) bool { return s.SkillsLearned >= 5 },
	},
	{
		Achievement: Achievement{ID: "unstoppable", Name: "Unstoppable", Description: "Achieve a 30-day streak", Icon: "⚡", Requirement: "currentStreak >= 30"},
		check:       func(s DashboardSummary) bool { return s.CurrentStreak >= 30 },
	},
	{
		Achievement: Achievement{ID: "legend", Name: "Legend", Description: "Complete 100+ activities", Icon: "👹", Requirement: "totalActivities >= 100"},
		check:       func(s DashboardSummary) bool { return s.TotalActivities >= 100 },
	},
	{
		Achievement: Achievement{ID: "perfectionist", Name: "Perfectionist", Description: "Achieve 95% consistency rate", Icon: "✨", Requirement: "consistencyRate >= 95"},
		check:       func(s DashboardSummary) bool { return s.ConsistencyRate >= 95 },
	},
	{
		Achievement: Achievement{ID: "renaissance", Name: "Renaissance", Description: "Master 10+ skills", Icon: "🏆", Requirement: "skillsLearned >= 10"},
		check:       func(s DashboardSummary) bool { return s.SkillsLearned >= 10 },
	},
}

// EvaluateAchievements 按目录顺序返回所有徽章及其解锁状态
func EvaluateAchievements(summary DashboardSummary, now time.Time) []Achievement {
	out := make([]Achievement, 0, len(achievementCatalog))
	for _, rule := range achievementCatalog {
		a := rule.Achievement
		if rule.check(summary) {
			a.Unlocked = true
			at := now
			a.UnlockedAt = &at
		}
		out = append(out, a)
	}
	return out
}
