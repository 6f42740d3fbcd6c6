package internal

import "time"

// 键模式
type KeyMode string

const (
	// 仅用文件名（不含扩展名）作为键
	KeyModeFlat KeyMode = "flat"
	// 用相对图片根目录的路径（不含扩展名）作为键
	KeyModeRelative KeyMode = "relative"
)

// ParseKeyMode 解析键模式字符串，未知值回退到相对路径模式
func ParseKeyMode(s string) KeyMode {
	if s == string(KeyModeFlat) {
		return KeyModeFlat
	}
	return KeyModeRelative
}

// 清理统计
type PruneStats struct {
	ImageCount     int
	ReferenceCount int
	UnusedCount    int
	Deleted        int
	Skipped        int
	Errors         int
	FreedSpace     int64
	StartTime      time.Time
	EndTime        time.Time
}
