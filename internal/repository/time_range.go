package repository

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// TrailingDateRange 返回以 end 为最后一天、共 days 天的日期闭区间 [start, end]（YYYY-MM-DD）
func TrailingDateRange(end time.Time, days int) (startDate string, endDate string, err error) {
	if days <= 0 {
		return "", "", fmt.Errorf("天数必须为正: %d", days)
	}
	y, m, d := end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return last.AddDate(0, 0, -(days - 1)).Format(dateLayout), last.Format(dateLayout), nil
}
