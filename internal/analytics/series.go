package analytics

import (
	"fmt"
	"time"
)

// DayCount 某天的活动数（图表用）
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ConsistencyMetrics 周/月每日活动数与年度一致性
type ConsistencyMetrics struct {
	Week  []int `json:"week"`  // 最近 7 天，旧 -> 新
	Month []int `json:"month"` // 最近 30 天，旧 -> 新
	Year  int   `json:"year"`  // 最近 365 天一致性 0-100
}

// DailySeries 返回 [start, end] 内逐日的活动数，无记录的日期补 0
func DailySeries(log *ActivityLog, start, end time.Time) ([]DayCount, error) {
	from, to := Day(start), Day(end)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 结束日期 %s 早于开始日期 %s", ErrInvalidArgument, DateKey(to), DateKey(from))
	}
	out := make([]DayCount, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, DayCount{Date: d.Format(DateLayout), Count: log.CountOn(d)})
	}
	return out, nil
}

// ComputeConsistencyMetrics 以 asOf 为最后一天计算周/月/年指标
func ComputeConsistencyMetrics(log *ActivityLog, asOf time.Time) ConsistencyMetrics {
	end := Day(asOf)
	year, _ := ComputeConsistency(log, 365, end)
	return ConsistencyMetrics{
		Week:  trailingCounts(log, end, 7),
		Month: trailingCounts(log, end, 30),
		Year:  year,
	}
}

func trailingCounts(log *ActivityLog, end time.Time, days int) []int {
	out := make([]int, days)
	for i := 0; i < days; i++ {
		out[i] = log.CountOn(end.AddDate(0, 0, i-days+1))
	}
	return out
}
