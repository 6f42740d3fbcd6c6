package scanner

import (
	"os"

	"github.com/spf13/afero"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// FileWalker 封装目录遍历
// 基于 afero 抽象文件系统，便于在内存文件系统上测试
type FileWalker struct {
	Fs afero.Fs
}

func NewFileWalker() *FileWalker {
	return &FileWalker{
		Fs: afero.NewOsFs(),
	}
}

func NewFileWalkerWithFs(fs afero.Fs) *FileWalker {
	return &FileWalker{
		Fs: fs,
	}
}

// Walk 遍历 root 下的所有普通文件，对每个文件调用 callback
// 单个文件的遍历错误会被跳过，不中断整体遍历
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Get().Warn().Err(err).Msgf("跳过无法访问的路径: %s", path)
			return nil
		}

		if info.IsDir() {
			return nil
		}

		return callback(path, info)
	})
}

// IsDir 检查路径是否为已存在的目录
func (w *FileWalker) IsDir(path string) bool {
	info, err := w.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CountFiles 统计多个目录下的文件总数
func (w *FileWalker) CountFiles(dirs []string) (int, error) {
	count := 0
	for _, dir := range dirs {
		logger.Get().Debug().Msgf("扫描目录: %s", dir)
		err := w.Walk(dir, func(path string, info os.FileInfo) error {
			count++
			return nil
		})
		if err != nil {
			logger.Get().Error().Err(err).Msgf("扫描目录失败: %s", dir)
			return 0, err
		}
	}

	logger.Get().Debug().Msgf("文件统计完成，共找到 %d 个文件", count)
	return count, nil
}
