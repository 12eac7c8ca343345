package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/LearnPulse/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SkillRepository 用户技能仓储
type SkillRepository struct {
	db *gorm.DB
}

// NewSkillRepository 创建仓储
func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Upsert 插入或更新技能等级
func (r *SkillRepository) Upsert(ctx context.Context, skill *schema.UserSkill) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "level", "updated_at"}),
	}).Create(skill).Error
	if err != nil {
		return fmt.Errorf("更新技能失败: %w", err)
	}
	return nil
}

// UpsertBatch 批量插入或更新技能（在事务中）
func (r *SkillRepository) UpsertBatch(ctx context.Context, skills []*schema.UserSkill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, skill := range skills {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_name"}},
				DoUpdates: clause.AssignmentColumns([]string{"category", "level", "updated_at"}),
			}).Create(skill).Error; err != nil {
				return fmt.Errorf("批量更新技能失败: %w", err)
			}
		}
		return nil
	})
}

// ListByUser 获取用户全部技能
func (r *SkillRepository) ListByUser(ctx context.Context, userID string) ([]schema.UserSkill, error) {
	var skills []schema.UserSkill
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("level DESC, skill_name ASC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	return skills, nil
}

// CountLearned 统计 level > 0 的技能数
func (r *SkillRepository) CountLearned(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.UserSkill{}).
		Where("user_id = ? AND level > 0", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计技能失败: %w", err)
	}
	return count, nil
}
