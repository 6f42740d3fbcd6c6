package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ati1707/renpy-img-prune/app"
)

var (
	imagesDir  string // 图片目录
	scriptsDir string // 脚本目录
	projectDir string // Ren'Py 项目 game 目录
	keyMode    string // 键模式: flat 或 relative
	verbose    bool   // 调试模式
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "扫描并报告未使用的图片",
	Long: `枚举图片目录中的所有图片，扫描脚本目录中的全部 .rpy 文件，
报告从未被 show/scene、image 定义或 imagebutton 引用的图片。
只读操作，不会修改任何文件。`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	result, err := app.RunScan(&app.ScanOptions{
		ImagesRoot:  imagesDir,
		ScriptsRoot: scriptsDir,
		ProjectDir:  projectDir,
		KeyMode:     keyMode,
		Verbose:     verbose,
	})
	if err != nil {
		return err
	}

	printScanReport(result)
	return nil
}

func printScanReport(result *app.ScanResult) {
	fmt.Println("========== 扫描结果 ==========")
	fmt.Printf("图片目录: %s\n", result.ImagesRoot)
	fmt.Printf("脚本目录: %s\n", result.ScriptsRoot)
	fmt.Printf("键模式:   %s\n", result.KeyMode)
	fmt.Printf("图片键数: %d\n", result.Report.ImageCount)
	fmt.Printf("引用键数: %d\n", result.Report.ReferenceCount)
	fmt.Printf("未使用:   %d\n", result.Report.UnusedCount)

	if result.Report.UnusedCount == 0 {
		fmt.Println("\n没有发现未使用的图片。")
		return
	}

	fmt.Println("\n未使用的图片:")
	for _, key := range result.Report.Unused {
		for _, path := range result.Images.Keys[key] {
			fmt.Printf("  %s  (%s)\n", key, path)
		}
	}

	if len(result.DuplicateGroups) > 0 {
		fmt.Printf("\n未使用文件中有 %d 组内容完全相同:\n", len(result.DuplicateGroups))
		for i, group := range result.DuplicateGroups {
			fmt.Printf("  [%d] %s\n", i+1, strings.Join(group, "\n      "))
		}
	}

	fmt.Printf("\n可释放空间: %s\n", formatBytes(result.TotalUnusedSize()))
	fmt.Println("==============================")
}

func init() {
	scanCmd.Flags().StringVarP(&imagesDir, "images", "i", "", "图片目录路径")
	scanCmd.Flags().StringVarP(&scriptsDir, "scripts", "s", "", "脚本目录路径")
	scanCmd.Flags().StringVarP(&projectDir, "project", "p", "", "Ren'Py 项目 game 目录（自动推导图片和脚本目录）")
	scanCmd.Flags().StringVarP(&keyMode, "key-mode", "k", "", "键模式: flat 或 relative（默认取配置文件）")
	scanCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "启用调试日志")

	rootCmd.AddCommand(scanCmd)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
