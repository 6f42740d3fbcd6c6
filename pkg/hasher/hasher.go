package hasher

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// CalculateHash 计算文件内容的 xxHash 值
func CalculateHash(filePath string) (uint64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		logger.Get().Error().Err(err).Msgf("无法打开文件: %s", filePath)
		return 0, err
	}
	defer file.Close()

	hash := xxhash.New()
	if _, err := io.Copy(hash, file); err != nil {
		logger.Get().Error().Err(err).Msgf("计算哈希失败: %s", filePath)
		return 0, err
	}

	return hash.Sum64(), nil
}
