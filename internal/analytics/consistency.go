package analytics

import (
	"fmt"
	"time"
)

// ComputeConsistency 计算以 asOf 结尾（含）的 windowDays 天窗口内的活跃天占比，0-100，四舍五入。
func ComputeConsistency(log *ActivityLog, windowDays int, asOf time.Time) (int, error) {
	if windowDays <= 0 {
		return 0, fmt.Errorf("%w: windowDays 必须 >= 1，实际 %d", ErrInvalidArgument, windowDays)
	}
	end := Day(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))

	if log == nil {
		return 0, nil
	}
	active := 0
	for i := len(log.records) - 1; i >= 0; i-- {
		r := log.records[i]
		if r.Date.Before(start) {
			break
		}
		if r.Count > 0 && !r.Date.After(end) {
			active++
		}
	}
	return percentRound(active, windowDays), nil
}

// percentRound round-half-up(100*n/d)，结果限制在 [0,100]
func percentRound(n, d int) int {
	if d <= 0 || n <= 0 {
		return 0
	}
	rate := (200*n + d) / (2 * d)
	if rate > 100 {
		return 100
	}
	return rate
}
