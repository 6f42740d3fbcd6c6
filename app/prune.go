package app

import (
	"time"

	"github.com/Ati1707/renpy-img-prune/config"
	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/deleter"
	"github.com/Ati1707/renpy-img-prune/pkg/history"
	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

type PruneOptions struct {
	Scan *ScanResult
	// Paths 要删除的路径子集，为空表示删除全部未使用文件
	Paths  []string
	DryRun bool
}

// RunPrune 对扫描结果中的未使用文件执行安全删除
// 删除边界为本次扫描的图片根目录；每个成功删除的文件写入审计存储
func RunPrune(opts *PruneOptions) (*internal.PruneStats, *deleter.Result, error) {
	scan := opts.Scan

	paths := opts.Paths
	if len(paths) == 0 {
		paths = scan.UnusedPaths
	}

	stats := &internal.PruneStats{
		ImageCount:     scan.Report.ImageCount,
		ReferenceCount: scan.Report.ReferenceCount,
		UnusedCount:    scan.Report.UnusedCount,
		StartTime:      time.Now(),
	}

	if opts.DryRun {
		logger.Get().Info().Msgf("=== 预览模式，不会实际删除文件（共 %d 个候选）===", len(paths))
		stats.EndTime = time.Now()
		return stats, &deleter.Result{}, nil
	}

	result, err := deleter.SafeDelete(paths, scan.ImagesRoot)
	if err != nil {
		return nil, nil, err
	}

	stats.Deleted = result.Deleted
	stats.Skipped = result.Skipped
	stats.Errors = result.Errors
	stats.FreedSpace = result.FreedSpace
	stats.EndTime = time.Now()

	RecordDeletions(scan, result)

	return stats, result, nil
}

// RecordDeletions 把删除成功的文件写入历史数据库
// 审计失败只警告，不影响删除结果
func RecordDeletions(scan *ScanResult, result *deleter.Result) {
	if len(result.DeletedPaths) == 0 {
		return
	}

	h, err := history.New(config.Get().History.Path)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("打开历史数据库失败，删除记录不落盘")
		return
	}
	defer h.Close()

	records := make([]history.DeletionRecord, 0, len(result.DeletedPaths))
	for _, p := range result.DeletedPaths {
		records = append(records, history.DeletionRecord{
			ScanID:   scan.ScanID,
			FilePath: p,
			Key:      scan.KeyForPath(p),
			Hash:     scan.Hashes[p],
			FileSize: result.DeletedSizes[p],
		})
	}

	if err := h.RecordDeletions(records); err != nil {
		logger.Get().Warn().Err(err).Msg("写入删除记录失败")
	}
}
