package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/bootstrap"
	"github.com/yuqie6/LearnPulse/internal/dto"
	"github.com/yuqie6/LearnPulse/internal/pkg/buildinfo"
	"github.com/yuqie6/LearnPulse/internal/schema"
	"github.com/yuqie6/LearnPulse/internal/service"
)

const (
	defaultInsightLimit = 10
	requestTimeout      = 10 * time.Second
)

type apiServer struct {
	core      *bootstrap.Core
	startTime time.Time
}

func newAPI(core *bootstrap.Core) *apiServer {
	return &apiServer{core: core, startTime: time.Now()}
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       a.core.Cfg.App.Name,
		"version":    a.core.Cfg.App.Version,
		"started_at": a.startTime.Format(time.RFC3339),
		"safe_mode":  a.core.DB != nil && a.core.DB.SafeMode,
	})
}

func (a *apiServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	sub := a.core.Hub.Subscribe(ctx, 32)

	// initial event
	_, _ = io.WriteString(w, "event: ready\n")
	_, _ = io.WriteString(w, "data: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, "event: ping\n")
			_, _ = io.WriteString(w, "data: {}\n\n")
			flusher.Flush()
		case evt, ok := <-sub:
			if !ok {
				return
			}
			b, _ := json.Marshal(evt)
			_, _ = io.WriteString(w, "event: "+sanitizeSSEName(evt.Type)+"\n")
			_, _ = io.WriteString(w, "data: ")
			_, _ = w.Write(b)
			_, _ = io.WriteString(w, "\n\n")
			flusher.Flush()
		}
	}
}

func sanitizeSSEName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return "message"
	}
	n = strings.ReplaceAll(n, "\n", "")
	n = strings.ReplaceAll(n, "\r", "")
	return n
}

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", a.wrapGET(a.getStatus))

	mux.HandleFunc("/api/dashboard/stats", a.wrapGET(a.requireDB(a.getDashboardStats)))
	mux.HandleFunc("/api/dashboard/insights", a.wrapGET(a.requireDB(a.getDashboardInsights)))

	mux.HandleFunc("/api/insights", a.wrapGET(a.requireDB(a.listInsights)))
	mux.HandleFunc("/api/insights/read", a.wrapPOST(a.requireDB(a.markInsightRead)))

	mux.HandleFunc("/api/activities", a.wrapAny(a.requireDB(a.activities)))
	mux.HandleFunc("/api/skills", a.wrapAny(a.requireDB(a.skills)))

	mux.HandleFunc("/api/achievements", a.wrapGET(a.requireDB(a.getAchievements)))
	mux.HandleFunc("/api/consistency", a.wrapGET(a.requireDB(a.getConsistency)))
}

func (a *apiServer) wrapGET(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapPOST(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapAny(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { fn(w, r) }
}

// requireDB 安全模式下拒绝数据接口
func (a *apiServer) requireDB(fn func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.core.DB == nil || a.core.DB.SafeMode {
			writeError(w, http.StatusServiceUnavailable, "数据库处于安全模式，请查看 /api/status")
			return
		}
		fn(w, r)
	}
}

// userID 查询参数优先，缺省为配置的默认用户
func (a *apiServer) userID(r *http.Request) string {
	if u := strings.TrimSpace(r.URL.Query().Get("user_id")); u != "" {
		return u
	}
	return a.core.Cfg.App.DefaultUser
}

func (a *apiServer) bodyUserID(u string) string {
	if u = strings.TrimSpace(u); u != "" {
		return u
	}
	return a.core.Cfg.App.DefaultUser
}

// ========== handlers ==========

func (a *apiServer) getStatus(w http.ResponseWriter, r *http.Request) {
	dash := a.core.Services.Dashboard
	th := dash.Thresholds()

	status := dto.StatusDTO{
		App: dto.AppStatusDTO{
			Name:        a.core.Cfg.App.Name,
			Version:     a.core.Cfg.App.Version,
			Build:       buildinfo.Version,
			Commit:      buildinfo.Commit,
			StartedAt:   a.startTime.Format(time.RFC3339),
			UptimeSec:   int64(time.Since(a.startTime).Seconds()),
			DefaultUser: a.core.Cfg.App.DefaultUser,
			ConfigPath:  a.core.CfgPath,
		},
		Storage: dto.StorageStatusDTO{
			DBPath: a.core.Cfg.Storage.DBPath,
		},
		Insights: dto.InsightsStatusDTO{
			StreakAchievementDays: th.StreakAchievementDays,
			WeakSkillLevel:        th.WeakSkillLevel,
			MilestoneStep:         th.MilestoneStep,
			LowConsistencyRate:    th.LowConsistencyRate,
			WindowDays:            dash.WindowDays(),
		},
		Events: dto.EventsStatusDTO{Subscribers: a.core.Hub.Subscribers()},
	}
	if db := a.core.DB; db != nil {
		status.App.SafeMode = db.SafeMode
		status.Storage.SchemaVersion = db.SchemaVersion
		status.Storage.SafeModeReason = db.MigrationError
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *apiServer) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	window, err := parseIntParam(r.URL.Query().Get("window"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user := a.userID(r)
	d, err := a.core.Services.Dashboard.GetDashboard(ctx, user, window)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if window == 0 {
		window = a.core.Services.Dashboard.WindowDays()
	}

	writeJSON(w, http.StatusOK, &dto.DashboardStatsDTO{
		UserID:          user,
		WindowDays:      window,
		TotalActivities: d.Summary.TotalActivities,
		CurrentStreak:   d.Summary.CurrentStreak,
		LongestStreak:   d.Summary.LongestStreak,
		ConsistencyRate: d.Summary.ConsistencyRate,
		SkillsLearned:   d.Summary.SkillsLearned,
		TopSkills:       skillsToDTO(d.TopSkills),
	})
}

func (a *apiServer) getDashboardInsights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	insights, err := a.core.Services.Dashboard.RefreshInsights(ctx, a.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.InsightDTO, 0, len(insights))
	for _, in := range insights {
		out = append(out, dto.InsightDTO{
			ID:          in.ID,
			Rule:        in.Rule,
			Title:       in.Title,
			Description: in.Description,
			Type:        string(in.Category),
			Icon:        in.Icon,
			Timestamp:   in.GeneratedAt.UnixMilli(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) listInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseIntParam(q.Get("limit"), defaultInsightLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unread := q.Get("unread") == "1" || strings.EqualFold(q.Get("unread"), "true")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rows, err := a.core.Services.Dashboard.ListInsights(ctx, a.userID(r), unread, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insightRowsToDTO(rows))
}

func (a *apiServer) markInsightRead(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkInsightReadRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := a.core.Services.Dashboard.MarkInsightRead(ctx, a.bodyUserID(req.UserID), req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *apiServer) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getActivities(w, r)
	case http.MethodPost:
		a.logActivity(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) getActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	series, err := a.core.Services.Activities.Series(ctx, a.userID(r), q.Get("start"), q.Get("end"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.ActivityDayDTO, 0, len(series))
	for _, d := range series {
		out = append(out, dto.ActivityDayDTO{Date: d.Date, Count: d.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) logActivity(w http.ResponseWriter, r *http.Request) {
	var req dto.LogActivityRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	saved, err := a.core.Services.Activities.LogActivity(ctx, service.LogActivityRequest{
		UserID:      a.bodyUserID(req.UserID),
		Type:        req.Type,
		Description: req.Description,
		Count:       req.Count,
		Date:        req.Date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &dto.ActivityDTO{
		ID:          saved.ID,
		UserID:      saved.UserID,
		Date:        saved.Date,
		Count:       saved.Count,
		Type:        saved.Type,
		Description: saved.Description,
	})
}

func (a *apiServer) skills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getSkills(w, r)
	case http.MethodPost:
		a.setSkill(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) getSkills(w http.ResponseWriter, r *http.Request) {
	top, err := parseIntParam(r.URL.Query().Get("top"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var skills []analytics.SkillLevel
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		skills, err = a.core.Services.Skills.SearchSkills(ctx, a.userID(r), q)
	} else {
		skills, err = a.core.Services.Skills.TopSkills(ctx, a.userID(r), top)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skillsToDTO(skills))
}

func (a *apiServer) setSkill(w http.ResponseWriter, r *http.Request) {
	var req dto.SetSkillRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	saved, err := a.core.Services.Skills.SetSkillLevel(ctx, service.SetSkillRequest{
		UserID:    a.bodyUserID(req.UserID),
		SkillName: req.SkillName,
		Category:  req.Category,
		Level:     req.Level,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &dto.SkillDTO{
		SkillName: saved.SkillName,
		Category:  saved.Category,
		Level:     saved.Level,
	})
}

func (a *apiServer) getAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	achievements, err := a.core.Services.Dashboard.Achievements(ctx, a.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.AchievementDTO, 0, len(achievements))
	for _, ach := range achievements {
		item := dto.AchievementDTO{
			ID:          ach.ID,
			Name:        ach.Name,
			Description: ach.Description,
			Icon:        ach.Icon,
			Requirement: ach.Requirement,
			Unlocked:    ach.Unlocked,
		}
		if ach.UnlockedAt != nil {
			item.UnlockedAt = ach.UnlockedAt.Format(time.RFC3339)
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) getConsistency(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := a.core.Services.Dashboard.ConsistencyMetrics(ctx, a.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &dto.ConsistencyDTO{Week: m.Week, Month: m.Month, Year: m.Year})
}

func skillsToDTO(skills []analytics.SkillLevel) []dto.SkillDTO {
	out := make([]dto.SkillDTO, 0, len(skills))
	for _, s := range skills {
		out = append(out, dto.SkillDTO{SkillName: s.SkillName, Category: s.Category, Level: s.Level})
	}
	return out
}

func insightRowsToDTO(rows []schema.Insight) []dto.InsightDTO {
	out := make([]dto.InsightDTO, 0, len(rows))
	for _, in := range rows {
		out = append(out, dto.InsightDTO{
			ID:          in.ID,
			Rule:        in.Rule,
			Title:       in.Title,
			Description: in.Description,
			Type:        in.Type,
			Icon:        in.Icon,
			Timestamp:   in.Timestamp,
			IsRead:      in.IsRead,
		})
	}
	return out
}
