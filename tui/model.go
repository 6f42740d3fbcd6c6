package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ati1707/renpy-img-prune/app"
	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/deleter"
	"github.com/Ati1707/renpy-img-prune/pkg/inspector"
)

type State int

const (
	StateConfig State = iota
	StateScanning
	StateReview
	StateDeleting
	StateComplete
)

type Focus int

const (
	FocusImagesDir Focus = iota
	FocusScriptsDir
	FocusKeyMode
)

type model struct {
	state State
	focus Focus

	cfg *Config

	imagesInput textinput.Model
	scriptsInput textinput.Model
	keyModeList list.Model

	scan       *app.ScanResult
	reviewList list.Model

	// 本批次待删除的路径，按列表顺序
	pendingPaths []string
	deleteIndex  int
	batchResult  *deleter.Result

	stats internal.PruneStats

	progressBar progress.Model
	spinner     spinner.Model
	width       int
	err         error
}

func initialModel(cfg *Config) model {
	imagesInput := textinput.New()
	imagesInput.Placeholder = "请输入图片目录（例如: ~/project/game/images）"
	imagesInput.Prompt = "> "
	imagesInput.PromptStyle = focusedPromptStyle
	imagesInput.TextStyle = textStyle
	imagesInput.SetValue(cfg.ImagesRoot)

	scriptsInput := textinput.New()
	scriptsInput.Placeholder = "请输入脚本目录（例如: ~/project/game）"
	scriptsInput.Prompt = "> "
	scriptsInput.PromptStyle = focusedPromptStyle
	scriptsInput.TextStyle = textStyle
	scriptsInput.SetValue(cfg.ScriptsRoot)

	keyModeList := list.New([]list.Item{
		keyModeItem{mode: internal.KeyModeRelative, title: "相对路径模式", desc: "键为相对图片目录的路径，子目录同名文件不冲突"},
		keyModeItem{mode: internal.KeyModeFlat, title: "扁平模式", desc: "键仅为文件名，子目录同名文件收敛为一个键"},
	}, list.NewDefaultDelegate(), 0, 2)
	keyModeList.Title = "选择键模式"
	keyModeList.SetShowStatusBar(false)
	keyModeList.SetFilteringEnabled(false)
	keyModeList.Styles.Title = titleStyle

	reviewList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 10)
	reviewList.Title = "未使用的图片"
	reviewList.SetShowStatusBar(false)
	reviewList.SetFilteringEnabled(false)
	reviewList.Styles.Title = titleStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := model{
		state:        StateConfig,
		focus:        FocusImagesDir,
		cfg:          cfg,
		imagesInput:  imagesInput,
		scriptsInput: scriptsInput,
		keyModeList:  keyModeList,
		reviewList:   reviewList,
		progressBar:  progressBar,
		spinner:      s,
	}

	m.updateFocusState()
	return m
}

// InitCmd 命令行已给全目录时直接开始扫描
func (m *model) Init() tea.Cmd {
	if m.cfg.ProjectDir != "" || (m.cfg.ImagesRoot != "" && m.cfg.ScriptsRoot != "") {
		m.state = StateScanning
		return tea.Batch(m.spinner.Tick, m.scanCmd())
	}
	return nil
}

type keyModeItem struct {
	mode  internal.KeyMode
	title string
	desc  string
}

func (k keyModeItem) Title() string       { return k.title }
func (k keyModeItem) Description() string { return k.desc }
func (k keyModeItem) FilterValue() string { return k.title }

// unusedItem 评审列表里的单个未使用图片
type unusedItem struct {
	key    string
	path   string
	info   *inspector.Info
	marked bool
}

func (u unusedItem) Title() string {
	if u.marked {
		return markedStyle.Render("[删] ") + u.key
	}
	return "    " + u.key
}

func (u unusedItem) Description() string {
	if u.info == nil {
		return u.path
	}

	desc := fmt.Sprintf("%s  %s", u.path, formatBytes(u.info.Size))
	if u.info.Measured {
		desc += fmt.Sprintf("  %dx%d", u.info.Width, u.info.Height)
	}
	if u.info.DetectedType != "" {
		desc += "  " + u.info.DetectedType
	}
	if u.info.ExtMismatch {
		desc += "  " + warnStyle.Render("扩展名与内容不符!")
	}
	return desc
}

func (u unusedItem) FilterValue() string { return u.key }

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
