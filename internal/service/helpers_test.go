package service

import (
	"sync"
	"testing"
	"time"

	"github.com/yuqie6/LearnPulse/internal/eventbus"
	"github.com/yuqie6/LearnPulse/internal/repository"
	"github.com/yuqie6/LearnPulse/internal/testutil"
)

// 固定时钟：2025-03-12 中午（UTC）
var testNow = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return testNow }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(evt eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testRepos struct {
	activities *repository.ActivityRepository
	skills     *repository.SkillRepository
	insights   *repository.InsightRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	db := testutil.OpenTestDB(t)
	return testRepos{
		activities: repository.NewActivityRepository(db),
		skills:     repository.NewSkillRepository(db),
		insights:   repository.NewInsightRepository(db),
	}
}

func dateBefore(days int) string {
	return testNow.AddDate(0, 0, -days).Format("2006-01-02")
}
