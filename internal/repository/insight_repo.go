package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/LearnPulse/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsightRepository 洞察仓储
type InsightRepository struct {
	db *gorm.DB
}

// NewInsightRepository 创建仓储
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// ReplaceUnread 用新一批洞察替换该用户所有未读洞察；已读记录保留作为历史
func (r *InsightRepository) ReplaceUnread(ctx context.Context, userID string, insights []schema.Insight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND is_read = ?", userID, false).Delete(&schema.Insight{}).Error; err != nil {
			return fmt.Errorf("清理未读洞察失败: %w", err)
		}
		if len(insights) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&insights).Error; err != nil {
			return fmt.Errorf("写入洞察失败: %w", err)
		}
		return nil
	})
}

// ListRecent 最近的洞察（按时间倒序）
func (r *InsightRepository) ListRecent(ctx context.Context, userID string, limit int) ([]schema.Insight, error) {
	var out []schema.Insight
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("查询洞察失败: %w", err)
	}
	return out, nil
}

// ListUnread 未读洞察（按时间倒序）
func (r *InsightRepository) ListUnread(ctx context.Context, userID string) ([]schema.Insight, error) {
	var out []schema.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("timestamp DESC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("查询未读洞察失败: %w", err)
	}
	return out, nil
}

// MarkRead 标记已读，返回是否找到该洞察
func (r *InsightRepository) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&schema.Insight{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_read", true)
	if res.Error != nil {
		return false, fmt.Errorf("标记洞察已读失败: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
