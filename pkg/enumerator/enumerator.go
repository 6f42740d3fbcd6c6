package enumerator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/logger"
	"github.com/Ati1707/renpy-img-prune/pkg/scanner"
)

// Enumerator 枚举图片根目录下的所有图片文件
type Enumerator struct {
	walker     *scanner.FileWalker
	extensions map[string]bool
	keyMode    internal.KeyMode
}

// Result 枚举结果
// Keys 的键为图片键，值为该键对应的所有绝对路径
// 扁平模式下不同子目录里的同名文件会收敛到同一个键
type Result struct {
	Keys  map[string][]string
	Count int
}

// TotalSize 汇总所有已枚举文件的大小
func (r *Result) TotalSize(fs afero.Fs) int64 {
	var total int64
	for _, paths := range r.Keys {
		for _, p := range paths {
			if info, err := fs.Stat(p); err == nil {
				total += info.Size()
			}
		}
	}
	return total
}

// New 创建图片枚举器
// extensions 为不含点的小写扩展名白名单
func New(extensions []string, keyMode internal.KeyMode) *Enumerator {
	return NewWithFs(afero.NewOsFs(), extensions, keyMode)
}

func NewWithFs(fs afero.Fs, extensions []string, keyMode internal.KeyMode) *Enumerator {
	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &Enumerator{
		walker:     scanner.NewFileWalkerWithFs(fs),
		extensions: extMap,
		keyMode:    keyMode,
	}
}

// Enumerate 递归枚举 root 下所有扩展名在白名单中的图片文件
// 扩展名匹配不区分大小写，无扩展名的文件被排除
// root 不存在或不是目录时返回空结果并记录警告，不视为致命错误
func (e *Enumerator) Enumerate(root string) (*Result, error) {
	result := &Result{Keys: make(map[string][]string)}

	if !e.walker.IsDir(root) {
		logger.Get().Warn().Msgf("图片目录不存在或不是目录: %s", root)
		return result, nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	logger.Get().Info().Msgf("开始枚举图片目录: %s", absRoot)

	err = e.walker.Walk(absRoot, func(path string, info os.FileInfo) error {
		ext := filepath.Ext(info.Name())
		if ext == "" {
			return nil
		}
		if !e.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] {
			return nil
		}

		key := e.keyFor(absRoot, path)
		result.Keys[key] = append(result.Keys[key], path)
		result.Count++
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Msgf("图片枚举完成，共找到 %d 个文件，%d 个键", result.Count, len(result.Keys))
	return result, nil
}

// keyFor 根据键模式计算图片键
// 扁平模式: 文件名去掉扩展名
// 相对模式: 相对根目录的路径去掉扩展名，统一使用正斜杠
func (e *Enumerator) keyFor(root, path string) string {
	if e.keyMode == internal.KeyModeFlat {
		base := filepath.Base(path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel)
}
