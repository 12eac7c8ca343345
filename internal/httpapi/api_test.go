package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yuqie6/LearnPulse/internal/bootstrap"
	"github.com/yuqie6/LearnPulse/internal/dto"
	"github.com/yuqie6/LearnPulse/internal/pkg/config"
	"github.com/yuqie6/LearnPulse/internal/repository"
)

var testNow = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *bootstrap.Core) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = repository.MemoryDSN
	cfg.App.DefaultUser = "demo_user"

	core, err := bootstrap.Build(cfg, func() time.Time { return testNow })
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	srv := httptest.NewServer(NewHandler(core))
	t.Cleanup(func() {
		srv.Close()
		_ = core.Close()
	})
	return srv, core
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status=%d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func postJSON(t *testing.T, url string, body any, wantStatus int, out any) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s status=%d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func logDays(t *testing.T, base string, user string, days, count int) {
	t.Helper()
	for i := 0; i < days; i++ {
		postJSON(t, base+"/api/activities", dto.LogActivityRequestDTO{
			UserID: user,
			Count:  count,
			Date:   testNow.AddDate(0, 0, -i).Format("2006-01-02"),
		}, http.StatusOK, nil)
	}
}

func TestHealthAndStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	var health map[string]any
	getJSON(t, srv.URL+"/health", http.StatusOK, &health)
	if health["ok"] != true || health["safe_mode"] != false {
		t.Fatalf("health=%v", health)
	}

	var status dto.StatusDTO
	getJSON(t, srv.URL+"/api/status", http.StatusOK, &status)
	if status.Storage.SchemaVersion != 1 || status.Insights.WindowDays != 30 || status.App.DefaultUser != "demo_user" {
		t.Fatalf("status=%+v", status)
	}
}

func TestDashboardStatsFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	logDays(t, srv.URL, "u1", 12, 3)

	var stats dto.DashboardStatsDTO
	getJSON(t, srv.URL+"/api/dashboard/stats?user_id=u1", http.StatusOK, &stats)
	if stats.TotalActivities != 36 || stats.CurrentStreak != 12 || stats.LongestStreak != 12 ||
		stats.ConsistencyRate != 40 || stats.WindowDays != 30 {
		t.Fatalf("stats=%+v", stats)
	}

	getJSON(t, srv.URL+"/api/dashboard/stats?user_id=u1&window=12", http.StatusOK, &stats)
	if stats.ConsistencyRate != 100 || stats.WindowDays != 12 {
		t.Fatalf("stats(window=12)=%+v", stats)
	}

	getJSON(t, srv.URL+"/api/dashboard/stats?user_id=u1&window=abc", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/api/dashboard/stats?user_id=u1&window=-1", http.StatusBadRequest, nil)
}

func TestDefaultUserFallback(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSON(t, srv.URL+"/api/activities", dto.LogActivityRequestDTO{Count: 5}, http.StatusOK, nil)

	var stats dto.DashboardStatsDTO
	getJSON(t, srv.URL+"/api/dashboard/stats", http.StatusOK, &stats)
	if stats.UserID != "demo_user" || stats.TotalActivities != 5 {
		t.Fatalf("stats=%+v", stats)
	}
}

func TestInsightsReadFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	logDays(t, srv.URL, "u1", 12, 3)

	var generated []dto.InsightDTO
	getJSON(t, srv.URL+"/api/dashboard/insights?user_id=u1", http.StatusOK, &generated)
	if len(generated) != 2 || generated[0].Type != "ACHIEVEMENT" || generated[1].Type != "TIP" {
		t.Fatalf("generated=%+v", generated)
	}

	var unread []dto.InsightDTO
	getJSON(t, srv.URL+"/api/insights?user_id=u1&unread=1", http.StatusOK, &unread)
	if len(unread) != 2 {
		t.Fatalf("unread=%d, want 2", len(unread))
	}

	postJSON(t, srv.URL+"/api/insights/read", dto.MarkInsightReadRequestDTO{UserID: "u1", ID: unread[0].ID}, http.StatusOK, nil)
	getJSON(t, srv.URL+"/api/insights?user_id=u1&unread=1", http.StatusOK, &unread)
	if len(unread) != 1 {
		t.Fatalf("unread after mark=%d, want 1", len(unread))
	}

	postJSON(t, srv.URL+"/api/insights/read", dto.MarkInsightReadRequestDTO{UserID: "u1", ID: "missing"}, http.StatusNotFound, nil)
	postJSON(t, srv.URL+"/api/insights/read", map[string]any{"bogus": 1}, http.StatusBadRequest, nil)
}

func TestActivitiesSeries(t *testing.T) {
	srv, _ := newTestServer(t)
	logDays(t, srv.URL, "u1", 3, 2)

	var series []dto.ActivityDayDTO
	getJSON(t, srv.URL+"/api/activities?user_id=u1&start=2025-03-08&end=2025-03-12", http.StatusOK, &series)
	want := []int{0, 0, 2, 2, 2}
	if len(series) != len(want) {
		t.Fatalf("len=%d, want %d", len(series), len(want))
	}
	for i, c := range want {
		if series[i].Count != c {
			t.Fatalf("series[%d]=%+v, want count %d", i, series[i], c)
		}
	}

	getJSON(t, srv.URL+"/api/activities?user_id=u1&start=bad", http.StatusBadRequest, nil)
	postJSON(t, srv.URL+"/api/activities", dto.LogActivityRequestDTO{UserID: "u1", Count: -2}, http.StatusBadRequest, nil)
}

func TestSkillsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, s := range []dto.SetSkillRequestDTO{
		{UserID: "u1", SkillName: "React", Category: "Frontend", Level: 90},
		{UserID: "u1", SkillName: "DevOps", Category: "Tools", Level: 60},
		{UserID: "u1", SkillName: "Go", Category: "Language", Level: 80},
	} {
		postJSON(t, srv.URL+"/api/skills", s, http.StatusOK, nil)
	}
	postJSON(t, srv.URL+"/api/skills", dto.SetSkillRequestDTO{UserID: "u1", SkillName: "X", Level: 150}, http.StatusBadRequest, nil)

	var top []dto.SkillDTO
	getJSON(t, srv.URL+"/api/skills?user_id=u1&top=2", http.StatusOK, &top)
	if len(top) != 2 || top[0].SkillName != "React" || top[1].SkillName != "Go" {
		t.Fatalf("top=%+v", top)
	}

	var stats dto.DashboardStatsDTO
	getJSON(t, srv.URL+"/api/dashboard/stats?user_id=u1", http.StatusOK, &stats)
	if stats.SkillsLearned != 3 || len(stats.TopSkills) != 3 {
		t.Fatalf("stats=%+v", stats)
	}
}

func TestAchievementsAndConsistency(t *testing.T) {
	srv, _ := newTestServer(t)
	logDays(t, srv.URL, "u1", 7, 1)

	var achievements []dto.AchievementDTO
	getJSON(t, srv.URL+"/api/achievements?user_id=u1", http.StatusOK, &achievements)
	if len(achievements) != 8 {
		t.Fatalf("achievements=%d, want 8", len(achievements))
	}
	if !achievements[0].Unlocked || achievements[0].UnlockedAt == "" {
		t.Fatalf("first achievement should be unlocked: %+v", achievements[0])
	}

	var c dto.ConsistencyDTO
	getJSON(t, srv.URL+"/api/consistency?user_id=u1", http.StatusOK, &c)
	if len(c.Week) != 7 || len(c.Month) != 30 || c.Year != 2 {
		t.Fatalf("consistency=%+v", c)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSON(t, srv.URL+"/api/dashboard/stats", map[string]any{}, http.StatusMethodNotAllowed, nil)
	getJSON(t, srv.URL+"/api/insights/read", http.StatusMethodNotAllowed, nil)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/activities", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want 405", resp.StatusCode)
	}
}

func TestSSEDeliversActivityEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	waitFor := func(prefix string) string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("waiting for %q: %v", prefix, err)
			}
			if strings.HasPrefix(line, prefix) {
				return line
			}
		}
	}

	waitFor("event: ready")
	postJSON(t, srv.URL+"/api/activities", dto.LogActivityRequestDTO{UserID: "u1", Count: 2}, http.StatusOK, nil)
	waitFor("event: activity.logged")
	data := waitFor("data: ")
	if !strings.Contains(data, `"user_id":"u1"`) {
		t.Fatalf("data=%s", data)
	}
}

func TestSkillsSearch(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, s := range []dto.SetSkillRequestDTO{
		{UserID: "u1", SkillName: "Spring Boot", Category: "Backend", Level: 70},
		{UserID: "u1", SkillName: "Python", Category: "Language", Level: 75},
	} {
		postJSON(t, srv.URL+"/api/skills", s, http.StatusOK, nil)
	}

	var found []dto.SkillDTO
	getJSON(t, srv.URL+"/api/skills?user_id=u1&q=spr", http.StatusOK, &found)
	if len(found) != 1 || found[0].SkillName != "Spring Boot" {
		t.Fatalf("found=%+v", found)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/activities", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, srv.URL+"/api/activities", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin=%q", got)
	}
}
