package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// Config TUI 启动参数，命令行未给出的目录在界面里输入
type Config struct {
	ImagesRoot  string
	ScriptsRoot string
	ProjectDir  string
	KeyMode     string
}

type teaModel struct {
	m *model
}

func (tm teaModel) Init() tea.Cmd {
	return tm.m.Init()
}

func (tm teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return tm.m.Update(msg)
}

func (tm teaModel) View() string {
	return tm.m.View()
}

func Run(config *Config) error {
	m := initialModel(config)
	p := tea.NewProgram(teaModel{m: &m}, tea.WithAltScreen())

	_, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
	}

	return err
}
