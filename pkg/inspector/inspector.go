package inspector

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// Info 单个图片文件的检查结果，供评审界面展示
type Info struct {
	Path         string
	Size         int64
	DetectedType string // 按文件内容嗅探出的类型，如 "png"
	ExtMismatch  bool   // 扩展名与实际内容不一致
	Width        int
	Height       int
	Measured     bool // 是否成功解析出尺寸
}

// CanMeasure 判断某扩展名的图片能否解析尺寸
// 显式能力检查: png/jpg/jpeg/webp 可以，svg/avif 没有对应解码器
// 调用方在需要展示尺寸的地方检查，而不是依赖隐藏的全局开关
func CanMeasure(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "webp":
		return true
	default:
		return false
	}
}

// Inspect 检查单个图片文件
// 类型嗅探失败不算错误，只是 DetectedType 为空
func Inspect(path string) (*Info, error) {
	info := &Info{Path: path}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	info.Size = stat.Size()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// filetype 只需要文件头部即可判断类型
	head := make([]byte, 262)
	n, _ := file.Read(head)
	head = head[:n]

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		info.DetectedType = kind.Extension
		info.ExtMismatch = !sameType(ext, kind.Extension)
	}

	if CanMeasure(ext) {
		if _, err := file.Seek(0, 0); err == nil {
			if cfg, _, err := image.DecodeConfig(file); err == nil {
				info.Width = cfg.Width
				info.Height = cfg.Height
				info.Measured = true
			} else {
				logger.Get().Debug().Err(err).Msgf("解析图片尺寸失败: %s", path)
			}
		}
	}

	return info, nil
}

// sameType 判断扩展名与嗅探类型是否一致，jpg/jpeg 视为同一类型
func sameType(ext, detected string) bool {
	if ext == detected {
		return true
	}
	return (ext == "jpeg" && detected == "jpg") || (ext == "jpg" && detected == "jpeg")
}
