package internal

const (
	// 历史数据库默认路径
	DefaultHistoryPath = "~/.renpy-img-prune/history.db"

	// 哈希计算池默认工作线程数
	DefaultHashWorkers = 4
)

// 默认的图片扩展名白名单（小写，不含点）
var DefaultImageExtensions = []string{"png", "jpg", "jpeg", "avif", "webp", "svg"}

// Ren'Py 项目中常见的脚本目录名
var DefaultScriptDirNames = []string{"game", "script", "scripts"}

// 脚本文件扩展名
const ScriptExtension = ".rpy"
