package deleter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// Result 一次删除批次的结果
// DeletedPaths 为实际删除成功的路径子集，调用方据此更新内存状态，无需重新扫描
type Result struct {
	Deleted      int
	Skipped      int
	Errors       int
	FreedSpace   int64
	DeletedPaths []string
	// DeletedSizes 每个删除成功路径的原大小
	DeletedSizes map[string]int64
}

// SafeDelete 删除候选路径中解析后位于 baseRoot 内的文件
//
// 安全边界: 每个路径先经符号链接解析，解析结果不在 baseRoot 之内的
// 一律拒绝并计为错误，绝不删除。文件已不存在计为跳过（重复删除请求
// 幂等）。单个文件的删除失败计为错误并继续处理后续路径，批次永不中断。
func SafeDelete(paths []string, baseRoot string) (*Result, error) {
	result := &Result{DeletedSizes: make(map[string]int64)}

	resolvedRoot, err := resolveDir(baseRoot)
	if err != nil {
		return nil, fmt.Errorf("无法解析删除边界目录 %s: %w", baseRoot, err)
	}

	// 固定处理顺序，保证日志和结果可复现
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	logger.Get().Info().Msgf("开始删除批次，共 %d 个候选文件，边界目录: %s", len(sorted), resolvedRoot)

	for _, p := range sorted {
		resolved, err := resolvePath(p)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Get().Debug().Msgf("文件已不存在，跳过: %s", p)
				result.Skipped++
				continue
			}
			logger.Get().Error().Err(err).Msgf("解析路径失败: %s", p)
			result.Errors++
			continue
		}

		if !within(resolvedRoot, resolved) {
			logger.Get().Error().Msgf("安全拒绝: %s 解析为 %s，位于边界目录 %s 之外", p, resolved, resolvedRoot)
			result.Errors++
			continue
		}

		var size int64
		if info, err := os.Stat(resolved); err == nil {
			size = info.Size()
		}

		if err := os.Remove(resolved); err != nil {
			if os.IsNotExist(err) {
				result.Skipped++
				continue
			}
			logger.Get().Error().Err(err).Msgf("删除文件失败: %s", resolved)
			result.Errors++
			continue
		}

		result.Deleted++
		result.FreedSpace += size
		result.DeletedPaths = append(result.DeletedPaths, p)
		result.DeletedSizes[p] = size
		logger.Get().Info().Msgf("已删除: %s", displayPath(resolved, resolvedRoot))
	}

	logger.Get().Info().Msgf("删除批次完成: 删除 %d，跳过 %d，错误 %d", result.Deleted, result.Skipped, result.Errors)
	return result, nil
}

// resolveDir 把目录路径解析为绝对的真实路径
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s 不是目录", dir)
	}
	return resolved, nil
}

// resolvePath 把文件路径解析为绝对的真实路径，跟随符号链接
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// within 判断 path 是否等于 root 或位于 root 之下
func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// displayPath 尽量展示相对边界目录的路径，便于阅读
func displayPath(path, root string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
