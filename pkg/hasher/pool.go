package hasher

import (
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// HashAll 用 goroutine 池并发计算一批文件的哈希
// 返回 路径 -> 十六进制哈希 映射；单个文件失败只警告并从结果中省略
func HashAll(paths []string, workers int) (map[string]string, error) {
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("创建 goroutine 池失败: %w", err)
	}
	defer pool.Release()

	logger.Get().Debug().Msgf("启动哈希计算池，文件数: %d，工作线程数: %d", len(paths), workers)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(paths))
	)

	for _, p := range paths {
		p := p
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			hash, err := CalculateHash(p)
			if err != nil {
				logger.Get().Warn().Err(err).Msgf("哈希计算失败，跳过: %s", p)
				return
			}
			mu.Lock()
			results[p] = fmt.Sprintf("%016x", hash)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			logger.Get().Warn().Err(err).Msgf("提交哈希任务失败: %s", p)
		}
	}

	wg.Wait()
	return results, nil
}

// DuplicateGroups 按哈希对文件分组，返回内容完全相同的文件组
// 每组内部及组间都按字典序排序，保证输出稳定
func DuplicateGroups(hashes map[string]string) [][]string {
	byHash := make(map[string][]string)
	for path, hash := range hashes {
		byHash[hash] = append(byHash[hash], path)
	}

	var groups [][]string
	for _, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups = append(groups, paths)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}
