package analytics

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

func TestGenerateAllRulesFire(t *testing.T) {
	g := NewInsightGenerator(DefaultThresholds())
	ranked := RankSkills([]SkillLevel{
		{SkillName: "DevOps", Category: "Tools", Level: 70},
		{SkillName: "TypeScript", Category: "Language", Level: 85},
	})
	got := g.Generate(InsightInput{
		UserID:          "demo",
		Streaks:         StreakState{CurrentStreak: 12, LongestStreak: 34},
		Consistency:     40,
		TotalActivities: 156,
		SkillsLearned:   2,
		RankedSkills:    ranked,
		Now:             testNow,
	})

	wantRules := []string{RuleStreakAchievement, RuleWeakArea, RuleMilestone, RuleLowConsistency}
	if len(got) != len(wantRules) {
		t.Fatalf("len=%d, want %d: %+v", len(got), len(wantRules), got)
	}
	for i, rule := range wantRules {
		if got[i].Rule != rule {
			t.Fatalf("insights[%d].Rule=%s, want %s", i, got[i].Rule, rule)
		}
		if !got[i].GeneratedAt.Equal(testNow) {
			t.Fatalf("insights[%d].GeneratedAt=%v, want %v", i, got[i].GeneratedAt, testNow)
		}
		if got[i].ID == "" {
			t.Fatalf("insights[%d] missing id", i)
		}
	}

	if got[0].Category != InsightAchievement || got[0].Title != "Amazing Streak!" || !strings.Contains(got[0].Description, "12-day") {
		t.Fatalf("streak insight unexpected: %+v", got[0])
	}
	if got[1].Category != InsightTip || !strings.Contains(got[1].Description, "Tools") {
		t.Fatalf("weak area insight unexpected: %+v", got[1])
	}
	if got[2].Category != InsightMilestone || !strings.Contains(got[2].Description, "150+") {
		t.Fatalf("milestone insight unexpected: %+v", got[2])
	}
	if got[3].Category != InsightTip {
		t.Fatalf("consistency insight unexpected: %+v", got[3])
	}
}

func TestGenerateNoRules(t *testing.T) {
	g := NewInsightGenerator(DefaultThresholds())
	got := g.Generate(InsightInput{
		Streaks:         StreakState{CurrentStreak: 6, LongestStreak: 6},
		Consistency:     50,
		TotalActivities: 49,
		RankedSkills:    []SkillLevel{{SkillName: "Go", Category: "Language", Level: 75}},
		Now:             testNow,
	})
	if got == nil || len(got) != 0 {
		t.Fatalf("got=%+v, want empty non-nil slice", got)
	}
}

func TestGenerateZeroDataProducesNothing(t *testing.T) {
	g := NewInsightGenerator(DefaultThresholds())
	if got := g.Generate(InsightInput{Now: testNow}); len(got) != 0 {
		t.Fatalf("got=%+v, want none", got)
	}
}

func TestGenerateMilestoneUsesLargestMultiple(t *testing.T) {
	g := NewInsightGenerator(DefaultThresholds())
	cases := []struct {
		total int
		want  string
	}{
		{50, "50+"},
		{99, "50+"},
		{100, "100+"},
		{1234, "1200+"},
	}
	for _, tc := range cases {
		got := g.Generate(InsightInput{TotalActivities: tc.total, Consistency: 100, Now: testNow})
		if len(got) != 1 || got[0].Rule != RuleMilestone || !strings.Contains(got[0].Description, tc.want) {
			t.Errorf("total=%d got=%+v, want milestone %s", tc.total, got, tc.want)
		}
	}
}

func TestGenerateCustomThresholds(t *testing.T) {
	g := NewInsightGenerator(Thresholds{StreakAchievementDays: 3, MilestoneStep: 10})
	th := g.Thresholds()
	if th.WeakSkillLevel != 75 || th.LowConsistencyRate != 50 {
		t.Fatalf("unset thresholds should fall back to defaults: %+v", th)
	}
	got := g.Generate(InsightInput{
		Streaks:         StreakState{CurrentStreak: 3, LongestStreak: 3},
		TotalActivities: 25,
		Consistency:     90,
		Now:             testNow,
	})
	if len(got) != 2 || got[0].Rule != RuleStreakAchievement || !strings.Contains(got[1].Description, "20+") {
		t.Fatalf("got=%+v", got)
	}
}

func TestInsightIDsAreDeterministic(t *testing.T) {
	g := NewInsightGenerator(DefaultThresholds())
	in := InsightInput{UserID: "u1", TotalActivities: 60, Consistency: 10, Now: testNow}
	a, b := g.Generate(in), g.Generate(in)
	if a[0].ID != b[0].ID || a[1].ID != b[1].ID {
		t.Fatalf("ids differ across identical calls")
	}
	if a[0].ID == a[1].ID {
		t.Fatalf("different rules should get different ids")
	}
	in.UserID = "u2"
	if c := g.Generate(in); c[0].ID == a[0].ID {
		t.Fatalf("different users should get different ids")
	}
}
