package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "renpy-img-prune",
	Short: "查找并清理 Ren'Py 项目中未使用的图片资源",
	Long: `Renpy Img Prune 是一个命令行工具，用于找出视觉小说项目中定义了但从未被引用的图片。

主要功能:
- 递归枚举图片目录中的所有图片文件
- 扫描 .rpy 脚本中的 show/scene、image 定义和 imagebutton 引用
- 计算差集，得到未被任何脚本引用的图片
- 交互式评审并安全删除（删除严格限制在图片目录之内）
- 扫描与删除历史记录到 SQLite 数据库`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
