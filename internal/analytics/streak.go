package analytics

import "time"

// StreakState 连续活跃天数
type StreakState struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// ComputeStreaks 计算截至 asOf 的当前连续天数与历史最长连续天数。
// asOf 当天无活动时 CurrentStreak 为 0；缺失日期与 count=0 的记录同样中断连续。
func ComputeStreaks(log *ActivityLog, asOf time.Time) StreakState {
	if log.Len() == 0 {
		return StreakState{}
	}

	current := 0
	for day := Day(asOf); log.IsActive(day); day = day.AddDate(0, 0, -1) {
		current++
	}

	longest, run := 0, 0
	var prev time.Time
	for _, r := range log.records {
		switch {
		case r.Count <= 0:
			run = 0
		case run > 0 && prev.AddDate(0, 0, 1).Equal(r.Date):
			run++
		default:
			run = 1
		}
		prev = r.Date
		if run > longest {
			longest = run
		}
	}

	return StreakState{CurrentStreak: current, LongestStreak: longest}
}
