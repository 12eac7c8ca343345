package analytics

import "errors"

var (
	// ErrDataIntegrity 调用方提供的活动日志存在重复日期
	ErrDataIntegrity = errors.New("数据完整性错误")
	// ErrInvalidArgument 参数非法（窗口天数、日期、计数等）
	ErrInvalidArgument = errors.New("参数非法")
)
