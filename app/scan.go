package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/Ati1707/renpy-img-prune/config"
	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/enumerator"
	"github.com/Ati1707/renpy-img-prune/pkg/extractor"
	"github.com/Ati1707/renpy-img-prune/pkg/hasher"
	"github.com/Ati1707/renpy-img-prune/pkg/history"
	"github.com/Ati1707/renpy-img-prune/pkg/logger"
	"github.com/Ati1707/renpy-img-prune/pkg/reconciler"
)

type ScanOptions struct {
	ImagesRoot  string
	ScriptsRoot string
	// ProjectDir 为 Ren'Py 项目的 game 目录
	// 给出时按约定推导 images 与脚本目录，覆盖未显式给出的根目录
	ProjectDir string
	KeyMode    string
	Verbose    bool
	LogLevel   string
	LogFile    string
	// QuietLog 时日志只落盘，控制台留给 TUI
	QuietLog bool
}

type ScanResult struct {
	ScanID      string
	ImagesRoot  string
	ScriptsRoot string
	KeyMode     internal.KeyMode
	Images      *enumerator.Result
	Report      *reconciler.Report
	// UnusedPaths 未使用键对应的全部文件路径，字典序
	UnusedPaths []string
	// Hashes 未使用文件的内容哈希，路径 -> 十六进制哈希
	Hashes map[string]string
	// DuplicateGroups 未使用文件中内容完全相同的分组
	DuplicateGroups [][]string
}

// RunScan 执行一次完整扫描: 枚举图片、提取引用、对账、哈希未使用文件
func RunScan(opts *ScanOptions) (*ScanResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logLevel := cfg.Logging.Level
	if opts.LogLevel != "" {
		logLevel = opts.LogLevel
	}
	if opts.Verbose {
		logLevel = "debug"
	}

	logFile := cfg.Logging.File
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}

	if opts.QuietLog {
		err = logger.InitQuiet(logLevel, logFile)
	} else {
		err = logger.Init(logLevel, logFile)
	}
	if err != nil {
		return nil, err
	}

	imagesRoot, scriptsRoot, err := resolveRoots(opts, cfg)
	if err != nil {
		return nil, err
	}

	keyMode := internal.ParseKeyMode(opts.KeyMode)
	if opts.KeyMode == "" {
		keyMode = internal.ParseKeyMode(cfg.Scanner.KeyMode)
	}

	logger.Get().Info().Msgf("图片目录: %s", imagesRoot)
	logger.Get().Info().Msgf("脚本目录: %s", scriptsRoot)
	logger.Get().Info().Msgf("键模式: %s", keyMode)

	enum := enumerator.New(cfg.Scanner.ImageExtensions, keyMode)
	images, err := enum.Enumerate(imagesRoot)
	if err != nil {
		return nil, fmt.Errorf("枚举图片失败: %w", err)
	}

	ext := extractor.New(extractor.DefaultPatterns())
	refs, err := ext.Extract(scriptsRoot)
	if err != nil {
		return nil, fmt.Errorf("提取引用失败: %w", err)
	}

	report := reconciler.Reconcile(images.Keys, refs)
	logger.Get().Info().Msgf("对账完成: %d 个图片键，%d 个引用键，%d 个未使用",
		report.ImageCount, report.ReferenceCount, report.UnusedCount)

	result := &ScanResult{
		ScanID:      uuid.New().String(),
		ImagesRoot:  imagesRoot,
		ScriptsRoot: scriptsRoot,
		KeyMode:     keyMode,
		Images:      images,
		Report:      report,
		UnusedPaths: report.UnusedPaths(images.Keys),
	}

	if len(result.UnusedPaths) > 0 {
		hashes, err := hasher.HashAll(result.UnusedPaths, cfg.Performance.HashWorkers)
		if err != nil {
			logger.Get().Warn().Err(err).Msg("哈希计算池启动失败，跳过重复检测")
		} else {
			result.Hashes = hashes
			result.DuplicateGroups = hasher.DuplicateGroups(hashes)
			if len(result.DuplicateGroups) > 0 {
				logger.Get().Info().Msgf("未使用文件中发现 %d 组内容相同的文件", len(result.DuplicateGroups))
			}
		}
	}

	recordScan(cfg, result)

	return result, nil
}

// resolveRoots 确定图片与脚本根目录并校验其存在
// 目录缺失属于配置错误，在任何扫描开始前终止本次运行
func resolveRoots(opts *ScanOptions, cfg *config.Config) (string, string, error) {
	imagesRoot := opts.ImagesRoot
	scriptsRoot := opts.ScriptsRoot

	if opts.ProjectDir != "" {
		projectDir, err := filepath.Abs(opts.ProjectDir)
		if err != nil {
			return "", "", fmt.Errorf("无法解析项目目录 %s: %w", opts.ProjectDir, err)
		}
		if !isDir(projectDir) {
			return "", "", fmt.Errorf("项目目录不存在: %s", projectDir)
		}

		if imagesRoot == "" {
			imagesRoot = filepath.Join(projectDir, "images")
		}
		if scriptsRoot == "" {
			scriptsRoot = findScriptDir(projectDir, cfg.Scanner.ScriptDirNames)
			if scriptsRoot == "" {
				// 项目目录本身就是脚本目录的情况（.rpy 直接在 game 下）
				scriptsRoot = projectDir
			}
		}
	}

	if imagesRoot == "" || scriptsRoot == "" {
		return "", "", fmt.Errorf("必须提供图片目录和脚本目录（或提供项目目录）")
	}

	if !isDir(imagesRoot) {
		return "", "", fmt.Errorf("图片目录不存在或不是目录: %s", imagesRoot)
	}
	if !isDir(scriptsRoot) {
		return "", "", fmt.Errorf("脚本目录不存在或不是目录: %s", scriptsRoot)
	}

	absImages, err := filepath.Abs(imagesRoot)
	if err != nil {
		return "", "", err
	}
	absScripts, err := filepath.Abs(scriptsRoot)
	if err != nil {
		return "", "", err
	}

	return absImages, absScripts, nil
}

// findScriptDir 在项目目录下按候选名顺序查找脚本目录
func findScriptDir(projectDir string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(projectDir, name)
		if isDir(candidate) {
			return candidate
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// recordScan 把扫描结果写入历史数据库
// 审计存储不可用只警告，不影响扫描结果
func recordScan(cfg *config.Config, result *ScanResult) {
	h, err := history.New(cfg.History.Path)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("打开历史数据库失败，本次扫描不记录")
		return
	}
	defer h.Close()

	record := &history.ScanRecord{
		ID:             result.ScanID,
		ImagesRoot:     result.ImagesRoot,
		ScriptsRoot:    result.ScriptsRoot,
		KeyMode:        string(result.KeyMode),
		ImageCount:     result.Report.ImageCount,
		ReferenceCount: result.Report.ReferenceCount,
		UnusedCount:    result.Report.UnusedCount,
	}
	if err := h.RecordScan(record); err != nil {
		logger.Get().Warn().Err(err).Msg("写入扫描记录失败")
	}
}

// TotalUnusedSize 汇总未使用文件的总大小
func (r *ScanResult) TotalUnusedSize() int64 {
	fs := afero.NewOsFs()
	var total int64
	for _, p := range r.UnusedPaths {
		if info, err := fs.Stat(p); err == nil {
			total += info.Size()
		}
	}
	return total
}

// KeyForPath 反查路径对应的图片键
func (r *ScanResult) KeyForPath(path string) string {
	for _, key := range r.Report.Unused {
		for _, p := range r.Images.Keys[key] {
			if p == path {
				return key
			}
		}
	}
	return ""
}
