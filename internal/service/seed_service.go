package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/schema"
)

const (
	seedDays         = 30
	seedDescription  = "Daily learning activity"
	DefaultSeedValue = 42
)

type seedSkill struct {
	name     string
	category string
}

var seedCatalog = []seedSkill{
	{"React", "Frontend"},
	{"TypeScript", "Language"},
	{"Node.js", "Backend"},
	{"CSS", "Frontend"},
	{"Database Design", "Backend"},
	{"DevOps", "Tools"},
	{"Java", "Language"},
	{"Spring Boot", "Backend"},
	{"Python", "Language"},
	{"Docker", "Tools"},
}

// 前 6 个技能的熟练度，其余技能登记为 0（未掌握）
var seedLevels = []int{90, 85, 80, 88, 75, 70}

// SeedResult 演示数据写入结果
type SeedResult struct {
	Skipped    bool `json:"skipped"`
	Activities int  `json:"activities"`
	Skills     int  `json:"skills"`
}

// SeedService 写入演示数据
type SeedService struct {
	activities ActivityRepository
	skills     SkillRepository
	clock      Clock
	seed       int64
}

// NewSeedService 创建演示数据服务；相同 seed 与日期产生相同数据
func NewSeedService(activities ActivityRepository, skills SkillRepository, clock Clock, seed int64) *SeedService {
	return &SeedService{activities: activities, skills: skills, clock: clock, seed: seed}
}

// Seed 为没有任何活动的用户写入最近 30 天活动与技能
func (s *SeedService) Seed(ctx context.Context, userID string) (*SeedResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id 不能为空", analytics.ErrInvalidArgument)
	}
	exists, err := s.activities.HasAny(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.Info("用户已有活动，跳过演示数据", "user_id", userID)
		return &SeedResult{Skipped: true}, nil
	}

	r := rand.New(rand.NewSource(s.seed))
	today := analytics.Day(s.clock.now())
	for i := 0; i < seedDays; i++ {
		date := today.AddDate(0, 0, -i)
		if err := s.activities.Upsert(ctx, &schema.Activity{
			UserID:      userID,
			Date:        analytics.DateKey(date),
			Count:       r.Intn(10) + 1,
			Type:        defaultActivityType,
			Description: seedDescription,
		}); err != nil {
			return nil, fmt.Errorf("写入演示活动失败: %w", err)
		}
	}

	skills := make([]*schema.UserSkill, 0, len(seedCatalog))
	for i, sk := range seedCatalog {
		level := 0
		if i < len(seedLevels) {
			level = seedLevels[i]
		}
		skills = append(skills, &schema.UserSkill{
			UserID:    userID,
			SkillName: sk.name,
			Category:  sk.category,
			Level:     level,
		})
	}
	if err := s.skills.UpsertBatch(ctx, skills); err != nil {
		return nil, fmt.Errorf("写入演示技能失败: %w", err)
	}

	slog.Info("演示数据已写入", "user_id", userID, "days", seedDays, "skills", len(skills))
	return &SeedResult{Activities: seedDays, Skills: len(skills)}, nil
}
