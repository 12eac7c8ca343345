package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/LearnPulse/internal/pkg/config"
	"github.com/yuqie6/LearnPulse/internal/repository"
	"github.com/yuqie6/LearnPulse/internal/service"
)

func TestBuildWiresServices(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DBPath = repository.MemoryDSN
	cfg.Insights.ConsistencyWindowDays = 14

	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	core, err := Build(cfg, func() time.Time { return now })
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(func() { _ = core.Close() })

	if core.DB.SafeMode {
		t.Fatalf("unexpected safe mode: %s", core.DB.MigrationError)
	}
	if core.Services.Dashboard.WindowDays() != 14 {
		t.Fatalf("window=%d, want 14", core.Services.Dashboard.WindowDays())
	}

	ctx := context.Background()
	if _, err := core.Services.Activities.LogActivity(ctx, service.LogActivityRequest{UserID: "u1", Count: 2}); err != nil {
		t.Fatalf("LogActivity error: %v", err)
	}
	d, err := core.Services.Dashboard.GetDashboard(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("GetDashboard error: %v", err)
	}
	// 1/14 = 7.14 -> 7
	if d.Summary.TotalActivities != 2 || d.Summary.CurrentStreak != 1 || d.Summary.ConsistencyRate != 7 {
		t.Fatalf("summary=%+v", d.Summary)
	}
}

func TestApplyConfigUpdatesThresholds(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DBPath = repository.MemoryDSN
	core, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(func() { _ = core.Close() })

	rt := &AgentRuntime{Core: core}
	next := *cfg
	next.Insights.MilestoneStep = 25
	next.Insights.ConsistencyWindowDays = 7
	rt.ApplyConfig(&next)

	if got := core.Services.Dashboard.Thresholds().MilestoneStep; got != 25 {
		t.Fatalf("milestoneStep=%d, want 25", got)
	}
	if got := core.Services.Dashboard.WindowDays(); got != 7 {
		t.Fatalf("window=%d, want 7", got)
	}
}
