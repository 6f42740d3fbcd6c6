package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	switch m.state {
	case StateConfig:
		return m.configView()
	case StateScanning:
		return m.scanningView()
	case StateReview:
		return m.reviewView()
	case StateDeleting:
		return m.deletingView()
	case StateComplete:
		return m.completeView()
	default:
		return "未知状态"
	}
}

func (m *model) configView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🧹 Ren'Py 未使用图片清理工具") + "\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	b.WriteString(labelStyle.Render("1. 输入图片目录：") + "\n")
	if m.focus == FocusImagesDir {
		b.WriteString(focusedStyle.Render(m.imagesInput.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.imagesInput.View()) + "\n\n")
	}

	b.WriteString(labelStyle.Render("2. 输入脚本目录：") + "\n")
	if m.focus == FocusScriptsDir {
		b.WriteString(focusedStyle.Render(m.scriptsInput.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.scriptsInput.View()) + "\n\n")
	}

	b.WriteString(labelStyle.Render("3. 选择键模式：") + "\n")
	if m.focus == FocusKeyMode {
		b.WriteString(focusedStyle.Render(m.keyModeList.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.keyModeList.View()) + "\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("错误: "+m.err.Error()) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("操作提示：") + "\n")
	b.WriteString("  • Tab 键切换焦点\n")
	b.WriteString("  • Enter 确认（在键模式处按 Enter 开始扫描）\n")
	b.WriteString("  • Ctrl+C 退出程序\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) scanningView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔍 正在扫描...") + "\n\n")
	b.WriteString(m.spinner.View() + "\n")
	b.WriteString("  正在枚举图片并扫描脚本引用...\n")
	b.WriteString("  图片目录: " + m.cfg.ImagesRoot + "\n")
	b.WriteString("  脚本目录: " + m.cfg.ScriptsRoot)

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render("错误: "+m.err.Error()))
		b.WriteString("\n" + hintStyle.Render("按 Ctrl+C 退出"))
	}

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) reviewView() string {
	var b strings.Builder

	marked := len(m.markedPaths())
	total := len(m.reviewList.Items())

	if total == 0 {
		b.WriteString(successTitleStyle.Render("✅ 没有未使用的图片！") + "\n\n")
		b.WriteString(m.renderScanStats() + "\n\n")
		b.WriteString(hintStyle.Render("按 q 或 Ctrl+C 退出") + "\n")
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	b.WriteString(m.reviewList.View() + "\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(fmt.Sprintf("已标记 %d / %d 个文件\n", marked, total))
	b.WriteString(hintStyle.Render("操作提示：") + "\n")
	b.WriteString("  • 空格 标记/取消当前文件\n")
	b.WriteString("  • a 全部标记，u 全部取消\n")
	b.WriteString("  • d 删除已标记的文件\n")
	b.WriteString("  • q 退出\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) deletingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🗑  正在删除...") + "\n\n")

	b.WriteString(labelStyle.Render("删除进度：") + "\n")
	b.WriteString(m.progressBar.View() + "\n\n")

	b.WriteString(fmt.Sprintf("  已删除: %d，跳过: %d，错误: %d\n",
		m.batchResult.Deleted, m.batchResult.Skipped, m.batchResult.Errors))

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	b.WriteString(successTitleStyle.Render("✅ 删除完成！") + "\n\n")

	b.WriteString(statsBoxStyle.Render(m.renderFinalStats()) + "\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	if len(m.reviewList.Items()) > 0 {
		b.WriteString(hintStyle.Render("按 Enter 继续评审剩余文件，q 退出") + "\n")
	} else {
		b.WriteString(hintStyle.Render("按 Enter 或 q 退出") + "\n")
	}

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) renderScanStats() string {
	if m.scan == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  图片键数: %d\n", m.scan.Report.ImageCount))
	b.WriteString(fmt.Sprintf("  引用键数: %d\n", m.scan.Report.ReferenceCount))
	b.WriteString(fmt.Sprintf("  未使用:   %d\n", m.scan.Report.UnusedCount))
	return b.String()
}

func (m *model) renderFinalStats() string {
	var b strings.Builder
	b.WriteString("📊 删除统计：\n\n")
	b.WriteString(fmt.Sprintf("  • 已删除：   %d 个文件\n", m.stats.Deleted))
	b.WriteString(fmt.Sprintf("  • 已跳过：   %d 个\n", m.stats.Skipped))
	b.WriteString(fmt.Sprintf("  • 错误：     %d 个\n", m.stats.Errors))
	b.WriteString(fmt.Sprintf("  • 释放空间： %s\n", formatBytes(m.stats.FreedSpace)))
	b.WriteString(fmt.Sprintf("  • 剩余未使用：%d 个\n", len(m.reviewList.Items())))
	return b.String()
}
