package analytics

import (
	"fmt"
	"time"
)

// DashboardSummary 仪表盘汇总
type DashboardSummary struct {
	TotalActivities int `json:"total_activities"`
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	ConsistencyRate int `json:"consistency_rate"`
	SkillsLearned   int `json:"skills_learned"`
}

// Dashboard 一次汇总的完整结果
type Dashboard struct {
	Summary   DashboardSummary `json:"summary"`
	Insights  []Insight        `json:"insights"`
	TopSkills []SkillLevel     `json:"top_skills"`
}

// EngineConfig 引擎参数
type EngineConfig struct {
	Thresholds Thresholds
	TopSkills  int // 展示用的技能数量，<=0 表示全部
}

// Engine 活动聚合与洞察引擎。无内部可变状态，可并发使用。
type Engine struct {
	insights  *InsightGenerator
	topSkills int
}

// NewEngine 创建引擎
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		insights:  NewInsightGenerator(cfg.Thresholds),
		topSkills: cfg.TopSkills,
	}
}

// Thresholds 当前阈值
func (e *Engine) Thresholds() Thresholds {
	return e.insights.Thresholds()
}

// Summarize 汇总活动日志与技能，输出统计与洞察。相同输入总是得到相同输出。
func (e *Engine) Summarize(log *ActivityLog, skills []SkillLevel, asOf time.Time, windowDays int, now time.Time) (*Dashboard, error) {
	if asOf.IsZero() {
		return nil, fmt.Errorf("%w: asOf 不能为空", ErrInvalidArgument)
	}

	streaks := ComputeStreaks(log, asOf)
	consistency, err := ComputeConsistency(log, windowDays, asOf)
	if err != nil {
		return nil, err
	}
	ranked := RankSkills(skills)
	learned := CountLearnedSkills(skills)

	summary := DashboardSummary{
		TotalActivities: log.Total(),
		CurrentStreak:   streaks.CurrentStreak,
		LongestStreak:   streaks.LongestStreak,
		ConsistencyRate: consistency,
		SkillsLearned:   learned,
	}

	userID := ""
	if log != nil {
		userID = log.UserID
	}
	insights := e.insights.Generate(InsightInput{
		UserID:          userID,
		Streaks:         streaks,
		Consistency:     consistency,
		TotalActivities: summary.TotalActivities,
		SkillsLearned:   learned,
		RankedSkills:    ranked,
		Now:             now,
	})

	top := ranked
	if e.topSkills > 0 && e.topSkills < len(ranked) {
		top = ranked[:e.topSkills]
	}

	return &Dashboard{
		Summary:   summary,
		Insights:  insights,
		TopSkills: top,
	}, nil
}
