package extractor

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/logger"
	"github.com/Ati1707/renpy-img-prune/pkg/scanner"
)

// Patterns 引用提取使用的三组正则
// 作为显式配置注入提取器，避免包级可变状态
type Patterns struct {
	// show/scene 语句，捕获图片名，允许 gui/button 这类带路径的名字
	ShowScene *regexp.Regexp
	// image 定义语句，定义本身视为对该名字的引用
	ImageDefine *regexp.Regexp
	// imagebutton 语句，捕获引号内的图片路径
	ImageButton *regexp.Regexp
}

// DefaultPatterns 返回默认的 Ren'Py 引用匹配正则
func DefaultPatterns() Patterns {
	return Patterns{
		ShowScene:   regexp.MustCompile(`(?mi)^\s*(?:show|scene)\s+([\w/-]+)(?:\s+.*)?$`),
		ImageDefine: regexp.MustCompile(`(?mi)^\s*image\s+([\w/-]+)\s*=\s*".*?"`),
		ImageButton: regexp.MustCompile(`(?i)imagebutton\s+(?:auto\s+)?(?:hover\s*)?"(.*?)"`),
	}
}

// printf 风格占位符，如 %s、%d
var placeholderRe = regexp.MustCompile(`%.`)

// Extractor 从脚本目录提取图片引用键集合
type Extractor struct {
	fs        afero.Fs
	walker    *scanner.FileWalker
	patterns  Patterns
	scriptExt string
}

func New(patterns Patterns) *Extractor {
	return NewWithFs(afero.NewOsFs(), patterns)
}

func NewWithFs(fs afero.Fs, patterns Patterns) *Extractor {
	return &Extractor{
		fs:        fs,
		walker:    scanner.NewFileWalkerWithFs(fs),
		patterns:  patterns,
		scriptExt: internal.ScriptExtension,
	}
}

// Extract 递归扫描 root 下所有 .rpy 文件，返回引用键集合
// 三组正则独立匹配，结果取并集；单个文件读取或解码失败只警告并跳过
// root 不存在时返回空集合并记录警告，不视为致命错误
func (x *Extractor) Extract(root string) (map[string]struct{}, error) {
	refs := make(map[string]struct{})

	if !x.walker.IsDir(root) {
		logger.Get().Warn().Msgf("脚本目录不存在或不是目录: %s", root)
		return refs, nil
	}

	logger.Get().Info().Msgf("开始扫描脚本目录: %s", root)

	fileCount := 0
	err := x.walker.Walk(root, func(path string, info os.FileInfo) error {
		if !strings.EqualFold(filepath.Ext(info.Name()), x.scriptExt) {
			return nil
		}

		fileCount++
		data, err := afero.ReadFile(x.fs, path)
		if err != nil {
			logger.Get().Warn().Err(err).Msgf("无法读取脚本文件，跳过: %s", path)
			return nil
		}

		if !utf8.Valid(data) {
			logger.Get().Warn().Msgf("脚本文件不是有效的 UTF-8 编码，跳过: %s", path)
			return nil
		}

		x.extractFromText(string(data), refs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Msgf("脚本扫描完成，共 %d 个脚本文件，%d 个引用键", fileCount, len(refs))
	return refs, nil
}

// extractFromText 对一段脚本文本运行全部匹配器，把结果并入 refs
func (x *Extractor) extractFromText(text string, refs map[string]struct{}) {
	for _, m := range x.patterns.ShowScene.FindAllStringSubmatch(text, -1) {
		ref := normalizeName(m[1])
		if ref != "" {
			refs[ref] = struct{}{}
		}
	}

	for _, m := range x.patterns.ImageDefine.FindAllStringSubmatch(text, -1) {
		ref := normalizeName(m[1])
		if ref != "" {
			refs[ref] = struct{}{}
		}
	}

	for _, m := range x.patterns.ImageButton.FindAllStringSubmatch(text, -1) {
		ref := normalizeButtonPath(m[1])
		if ref != "" {
			refs[ref] = struct{}{}
		}
	}
}

// normalizeName 清理 show/scene/image 捕获的名字
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.ReplaceAll(name, `\`, "/")
}

// normalizeButtonPath 清理 imagebutton 捕获的路径
// 去掉 %s 之类的占位符和扩展名，统一为正斜杠；清理后为空则丢弃
func normalizeButtonPath(p string) string {
	p = placeholderRe.ReplaceAllString(p, "")
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, "/")
	if ext := filepath.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	return p
}
