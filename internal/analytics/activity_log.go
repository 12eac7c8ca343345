package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout 日期键格式
const DateLayout = "2006-01-02"

// ActivityRecord 某一天的学习活动
type ActivityRecord struct {
	Date        time.Time `json:"date"`
	Count       int       `json:"count"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
}

// ActivityLog 单个用户按日期去重的活动记录。
// 构造后只读，可被多个 goroutine 并发读取。
type ActivityLog struct {
	UserID  string
	records []ActivityRecord // 按日期升序
	byDate  map[string]int   // 日期键 -> records 下标
}

// Day 将任意时间截断为 UTC 零点的自然日（按时间自身的时区取年月日）
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey 返回自然日键 YYYY-MM-DD
func DateKey(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日期格式错误 %q", ErrInvalidArgument, s)
	}
	return t, nil
}

// NewActivityLog 校验并构建活动日志，records 可以任意顺序。
// 同一日期出现两次返回 ErrDataIntegrity，不做合并。
func NewActivityLog(userID string, records []ActivityRecord) (*ActivityLog, error) {
	l := &ActivityLog{
		UserID:  userID,
		records: make([]ActivityRecord, 0, len(records)),
		byDate:  make(map[string]int, len(records)),
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Date.IsZero() {
			return nil, fmt.Errorf("%w: 活动记录缺少日期", ErrInvalidArgument)
		}
		if r.Count < 0 {
			return nil, fmt.Errorf("%w: 活动计数不能为负 (%s: %d)", ErrInvalidArgument, DateKey(r.Date), r.Count)
		}
		key := DateKey(r.Date)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: 用户 %q 在 %s 存在重复记录", ErrDataIntegrity, userID, key)
		}
		seen[key] = struct{}{}
		r.Date = Day(r.Date)
		l.records = append(l.records, r)
	}

	sort.Slice(l.records, func(i, j int) bool {
		return l.records[i].Date.Before(l.records[j].Date)
	})
	for i, r := range l.records {
		l.byDate[DateKey(r.Date)] = i
	}
	return l, nil
}

// Len 记录条数
func (l *ActivityLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Records 返回升序记录的副本
func (l *ActivityLog) Records() []ActivityRecord {
	if l == nil {
		return nil
	}
	return append([]ActivityRecord(nil), l.records...)
}

// Get 查询某天的记录
func (l *ActivityLog) Get(date time.Time) (ActivityRecord, bool) {
	if l == nil {
		return ActivityRecord{}, false
	}
	i, ok := l.byDate[DateKey(date)]
	if !ok {
		return ActivityRecord{}, false
	}
	return l.records[i], true
}

// CountOn 某天的活动数，无记录视为 0
func (l *ActivityLog) CountOn(date time.Time) int {
	r, ok := l.Get(date)
	if !ok {
		return 0
	}
	return r.Count
}

// IsActive 某天是否有非零活动
func (l *ActivityLog) IsActive(date time.Time) bool {
	return l.CountOn(date) > 0
}

// Total 全部记录的活动总数
func (l *ActivityLog) Total() int {
	if l == nil {
		return 0
	}
	total := 0
	for _, r := range l.records {
		total += r.Count
	}
	return total
}
