package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ati1707/renpy-img-prune/config"
	"github.com/Ati1707/renpy-img-prune/pkg/history"
	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看最近的扫描记录",
	Long:  `列出历史数据库中最近的扫描记录，包括每次扫描的目录、键模式和统计数字。`,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	showDeletions, _ := cmd.Flags().GetBool("deletions")

	h, err := history.New(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("打开历史数据库失败: %w", err)
	}
	defer h.Close()

	scans, err := h.RecentScans(limit)
	if err != nil {
		return err
	}

	if len(scans) == 0 {
		fmt.Println("还没有扫描记录。")
		return nil
	}

	for _, s := range scans {
		fmt.Printf("%s  %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"), s.ID)
		fmt.Printf("  图片目录: %s\n", s.ImagesRoot)
		fmt.Printf("  脚本目录: %s\n", s.ScriptsRoot)
		fmt.Printf("  键模式: %s，图片键: %d，引用键: %d，未使用: %d\n",
			s.KeyMode, s.ImageCount, s.ReferenceCount, s.UnusedCount)

		if showDeletions {
			deletions, err := h.DeletionsForScan(s.ID)
			if err != nil {
				return err
			}
			for _, d := range deletions {
				fmt.Printf("    已删除: %s (%d bytes)\n", d.FilePath, d.FileSize)
			}
		}
		fmt.Println()
	}

	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "显示的记录条数")
	historyCmd.Flags().BoolP("deletions", "d", false, "同时显示每次扫描的删除记录")

	rootCmd.AddCommand(historyCmd)
}
