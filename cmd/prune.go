package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ati1707/renpy-img-prune/app"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "扫描并删除未使用的图片",
	Long: `在扫描的基础上删除所有未被引用的图片文件。
删除前需要确认（--yes 跳过确认），--dry-run 只预览不删除。
删除严格限制在图片目录之内，解析到目录之外的路径一律拒绝。`,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	scan, err := app.RunScan(&app.ScanOptions{
		ImagesRoot:  imagesDir,
		ScriptsRoot: scriptsDir,
		ProjectDir:  projectDir,
		KeyMode:     keyMode,
		Verbose:     verbose,
	})
	if err != nil {
		return err
	}

	printScanReport(scan)

	if scan.Report.UnusedCount == 0 {
		return nil
	}

	if !dryRun && !yes {
		if !confirm(fmt.Sprintf("确定要删除这 %d 个文件吗?", len(scan.UnusedPaths))) {
			fmt.Println("已取消，没有删除任何文件。")
			return nil
		}
	}

	stats, _, err := app.RunPrune(&app.PruneOptions{
		Scan:   scan,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Println("\n预览模式: 以上文件未被删除。")
		return nil
	}

	fmt.Println("\n========== 删除完成 ==========")
	fmt.Printf("已删除:   %d 个文件\n", stats.Deleted)
	fmt.Printf("已跳过:   %d 个\n", stats.Skipped)
	fmt.Printf("错误:     %d 个\n", stats.Errors)
	fmt.Printf("释放空间: %s\n", formatBytes(stats.FreedSpace))
	fmt.Printf("总耗时:   %v\n", stats.EndTime.Sub(stats.StartTime))
	fmt.Println("==============================")

	return nil
}

// confirm 从标准输入读取 y/n 确认
func confirm(prompt string) bool {
	fmt.Printf("%s (y/n): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

func init() {
	pruneCmd.Flags().StringVarP(&imagesDir, "images", "i", "", "图片目录路径")
	pruneCmd.Flags().StringVarP(&scriptsDir, "scripts", "s", "", "脚本目录路径")
	pruneCmd.Flags().StringVarP(&projectDir, "project", "p", "", "Ren'Py 项目 game 目录")
	pruneCmd.Flags().StringVarP(&keyMode, "key-mode", "k", "", "键模式: flat 或 relative")
	pruneCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "启用调试日志")
	pruneCmd.Flags().Bool("dry-run", false, "预览模式，不实际删除文件")
	pruneCmd.Flags().BoolP("yes", "y", false, "跳过删除确认")

	rootCmd.AddCommand(pruneCmd)
}
