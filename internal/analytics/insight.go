package analytics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// InsightCategory 洞察类别
type InsightCategory string

const (
	InsightAchievement InsightCategory = "ACHIEVEMENT"
	InsightTip         InsightCategory = "TIP"
	InsightMilestone   InsightCategory = "MILESTONE"
)

// Insight 由规则派生的提示信息，每次调用重新生成
type Insight struct {
	ID          string          `json:"id"`
	Rule        string          `json:"rule"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    InsightCategory `json:"category"`
	Icon        string          `json:"icon"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// 规则标识，也参与 ID 计算
const (
	RuleStreakAchievement = "streak_achievement"
	RuleWeakArea          = "weak_area"
	RuleMilestone         = "milestone"
	RuleLowConsistency    = "low_consistency"
)

// Thresholds 洞察规则阈值
type Thresholds struct {
	StreakAchievementDays int `json:"streak_achievement_days"`
	WeakSkillLevel        int `json:"weak_skill_level"`
	MilestoneStep         int `json:"milestone_step"`
	LowConsistencyRate    int `json:"low_consistency_rate"`
}

// DefaultThresholds 默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		StreakAchievementDays: 7,
		WeakSkillLevel:        75,
		MilestoneStep:         50,
		LowConsistencyRate:    50,
	}
}

// normalized 非正值回落到默认
func (t Thresholds) normalized() Thresholds {
	def := DefaultThresholds()
	if t.StreakAchievementDays <= 0 {
		t.StreakAchievementDays = def.StreakAchievementDays
	}
	if t.WeakSkillLevel <= 0 {
		t.WeakSkillLevel = def.WeakSkillLevel
	}
	if t.MilestoneStep <= 0 {
		t.MilestoneStep = def.MilestoneStep
	}
	if t.LowConsistencyRate <= 0 {
		t.LowConsistencyRate = def.LowConsistencyRate
	}
	return t
}

// InsightInput 生成洞察所需的已计算指标
type InsightInput struct {
	UserID          string
	Streaks         StreakState
	Consistency     int
	TotalActivities int
	SkillsLearned   int
	RankedSkills    []SkillLevel // 已按 RankSkills 排序
	Now             time.Time
}

// InsightGenerator 规则式洞察生成器。
// 规则按固定顺序逐条评估，每条最多产出一条，所有命中的规则都会产出。
type InsightGenerator struct {
	thresholds Thresholds
}

// NewInsightGenerator 创建生成器
func NewInsightGenerator(t Thresholds) *InsightGenerator {
	return &InsightGenerator{thresholds: t.normalized()}
}

// Thresholds 当前生效的阈值
func (g *InsightGenerator) Thresholds() Thresholds {
	return g.thresholds
}

// Generate 依次评估：连续成就 → 薄弱技能 → 里程碑 → 一致性提示
func (g *InsightGenerator) Generate(in InsightInput) []Insight {
	th := g.thresholds
	out := make([]Insight, 0, 4)

	if n := in.Streaks.CurrentStreak; n >= th.StreakAchievementDays {
		out = append(out, newInsight(in, RuleStreakAchievement, InsightAchievement, "🔥",
			"Amazing Streak!",
			fmt.Sprintf("You've maintained a %d-day learning streak. Keep it up!", n)))
	}

	if len(in.RankedSkills) > 0 {
		weakest := in.RankedSkills[len(in.RankedSkills)-1]
		if weakest.Level < th.WeakSkillLevel {
			out = append(out, newInsight(in, RuleWeakArea, InsightTip, "💡",
				"Focus on Weak Areas",
				fmt.Sprintf("Consider spending more time on %s concepts this week.", weakArea(weakest))))
		}
	}

	if in.TotalActivities >= th.MilestoneStep {
		reached := in.TotalActivities / th.MilestoneStep * th.MilestoneStep
		out = append(out, newInsight(in, RuleMilestone, InsightMilestone, "🎯",
			"Milestone Reached!",
			fmt.Sprintf("You've completed %d+ learning activities. You're on fire! 🚀", reached)))
	}

	// 没有任何活动时不给一致性提示，空数据不产生洞察
	if in.TotalActivities > 0 && in.Consistency < th.LowConsistencyRate {
		out = append(out, newInsight(in, RuleLowConsistency, InsightTip, "📅",
			"Build a Habit",
			fmt.Sprintf("You were active on %d%% of recent days. Short daily sessions beat occasional marathons.", in.Consistency)))
	}

	return out
}

func weakArea(s SkillLevel) string {
	if s.Category != "" {
		return s.Category
	}
	return s.SkillName
}

// insightNamespace UUIDv5 命名空间，保证相同输入得到相同 ID
var insightNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("learnpulse/insight"))

func newInsight(in InsightInput, rule string, category InsightCategory, icon, title, desc string) Insight {
	name := in.UserID + "|" + rule + "|" + strconv.FormatInt(in.Now.UnixNano(), 10)
	return Insight{
		ID:          uuid.NewSHA1(insightNamespace, []byte(name)).String(),
		Rule:        rule,
		Title:       title,
		Description: desc,
		Category:    category,
		Icon:        icon,
		GeneratedAt: in.Now,
	}
}
