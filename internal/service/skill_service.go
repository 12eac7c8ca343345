package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/eventbus"
	"github.com/yuqie6/LearnPulse/internal/schema"
)

// SetSkillRequest 设置技能熟练度
type SetSkillRequest struct {
	UserID    string
	SkillName string
	Category  string
	Level     int
}

// SkillService 技能服务
type SkillService struct {
	repo      SkillRepository
	events    EventPublisher
	onChanged func(userID string)
}

// NewSkillService 创建技能服务
func NewSkillService(repo SkillRepository, events EventPublisher) *SkillService {
	return &SkillService{repo: repo, events: publisherOrNop(events)}
}

// SetOnChanged 技能写入成功后回调
func (s *SkillService) SetOnChanged(fn func(userID string)) {
	s.onChanged = fn
}

// SetSkillLevel 插入或更新技能等级（0-100）
func (s *SkillService) SetSkillLevel(ctx context.Context, req SetSkillRequest) (*schema.UserSkill, error) {
	userID := strings.TrimSpace(req.UserID)
	name := strings.TrimSpace(req.SkillName)
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user_id 与 skill_name 不能为空", analytics.ErrInvalidArgument)
	}
	if req.Level < 0 || req.Level > 100 {
		return nil, fmt.Errorf("%w: level 必须在 0-100，实际 %d", analytics.ErrInvalidArgument, req.Level)
	}

	skill := &schema.UserSkill{
		UserID:    userID,
		SkillName: name,
		Category:  strings.TrimSpace(req.Category),
		Level:     req.Level,
	}
	if err := s.repo.Upsert(ctx, skill); err != nil {
		return nil, err
	}

	if s.onChanged != nil {
		s.onChanged(userID)
	}
	s.events.Publish(eventbus.Event{
		Type: eventbus.TypeSkillUpdated,
		Data: map[string]any{"user_id": userID, "skill_name": name, "level": req.Level},
	})
	return skill, nil
}

// ListSkills 用户全部技能（已排序）
func (s *SkillService) ListSkills(ctx context.Context, userID string) ([]analytics.SkillLevel, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.RankSkills(toSkillLevels(rows)), nil
}

// TopSkills 等级最高的 n 个技能；n<=0 返回全部
func (s *SkillService) TopSkills(ctx context.Context, userID string, n int) ([]analytics.SkillLevel, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.TopSkills(toSkillLevels(rows), n), nil
}

// SearchSkills 按技能名模糊匹配，结果按匹配度排序；query 为空时等同 ListSkills
func (s *SkillService) SearchSkills(ctx context.Context, userID, query string) ([]analytics.SkillLevel, error) {
	ranked, err := s.ListSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return ranked, nil
	}

	names := make([]string, len(ranked))
	for i, sk := range ranked {
		names[i] = sk.SkillName
	}
	matches := fuzzy.Find(query, names)
	out := make([]analytics.SkillLevel, 0, len(matches))
	for _, m := range matches {
		out = append(out, ranked[m.Index])
	}
	return out, nil
}

func toSkillLevels(rows []schema.UserSkill) []analytics.SkillLevel {
	out := make([]analytics.SkillLevel, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.SkillLevel{
			SkillName: r.SkillName,
			Category:  r.Category,
			Level:     r.Level,
		})
	}
	return out
}
