package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ati1707/renpy-img-prune/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "交互式评审并删除未使用的图片",
	Long: `启动终端交互界面: 输入图片目录和脚本目录后扫描，
逐个评审未使用的图片（大小、实际类型、尺寸），标记后批量删除。
删除同样受图片目录安全边界约束。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(&tui.Config{
			ImagesRoot:  imagesDir,
			ScriptsRoot: scriptsDir,
			ProjectDir:  projectDir,
			KeyMode:     keyMode,
		})
	},
}

func init() {
	tuiCmd.Flags().StringVarP(&imagesDir, "images", "i", "", "图片目录路径")
	tuiCmd.Flags().StringVarP(&scriptsDir, "scripts", "s", "", "脚本目录路径")
	tuiCmd.Flags().StringVarP(&projectDir, "project", "p", "", "Ren'Py 项目 game 目录")
	tuiCmd.Flags().StringVarP(&keyMode, "key-mode", "k", "", "键模式: flat 或 relative")

	rootCmd.AddCommand(tuiCmd)
}
