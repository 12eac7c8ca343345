package analytics

import "testing"

func TestEvaluateAchievements(t *testing.T) {
	got := EvaluateAchievements(DashboardSummary{
		TotalActivities: 156,
		CurrentStreak:   12,
		ConsistencyRate: 87,
		SkillsLearned:   6,
	}, testNow)

	if len(got) != len(achievementCatalog) {
		t.Fatalf("len=%d, want %d", len(got), len(achievementCatalog))
	}
	want := map[string]bool{
		"first_step":    true,
		"on_fire":       true,
		"consistent":    true,
		"skill_master":  true,
		"unstoppable":   false,
		"legend":        true,
		"perfectionist": false,
		"renaissance":   false,
	}
	for _, a := range got {
		if a.Unlocked != want[a.ID] {
			t.Errorf("%s unlocked=%v, want %v", a.ID, a.Unlocked, want[a.ID])
		}
		if a.Unlocked && (a.UnlockedAt == nil || !a.UnlockedAt.Equal(testNow)) {
			t.Errorf("%s unlockedAt=%v", a.ID, a.UnlockedAt)
		}
		if !a.Unlocked && a.UnlockedAt != nil {
			t.Errorf("%s locked but has unlockedAt", a.ID)
		}
	}
	if got[0].ID != "first_step" {
		t.Fatalf("catalog order not preserved")
	}
}

func TestEvaluateAchievementsEmpty(t *testing.T) {
	for _, a := range EvaluateAchievements(DashboardSummary{}, testNow) {
		if a.Unlocked {
			t.Fatalf("%s should be locked", a.ID)
		}
	}
}
