package tui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ati1707/renpy-img-prune/app"
	"github.com/Ati1707/renpy-img-prune/pkg/deleter"
	"github.com/Ati1707/renpy-img-prune/pkg/inspector"
	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case StateConfig:
			return m.updateConfigPhase(msg)
		case StateReview:
			if handled, cmd := m.updateReviewKeys(msg); handled {
				return m, cmd
			}
		case StateComplete:
			if msg.String() == "enter" {
				if len(m.reviewList.Items()) == 0 {
					return m, tea.Quit
				}
				m.state = StateReview
				return m, nil
			}
			if msg.String() == "q" {
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case scanCompleteMsg:
		m.scan = msg.result
		items := make([]list.Item, 0, len(msg.items))
		for _, it := range msg.items {
			items = append(items, it)
		}
		m.reviewList.SetItems(items)
		m.state = StateReview
		return m, nil

	case deleteProgressMsg:
		m.mergeBatchResult(msg.result)
		var cmd tea.Cmd
		if len(m.pendingPaths) > 0 {
			percent := float64(msg.index+1) / float64(len(m.pendingPaths))
			cmd = m.progressBar.SetPercent(percent)
		}
		if msg.index+1 < len(m.pendingPaths) {
			return m, tea.Batch(cmd, m.deleteNextCmd(msg.index+1))
		}
		return m, tea.Batch(cmd, m.finishBatchCmd())

	case deleteCompleteMsg:
		m.applyBatchResult()
		m.state = StateComplete
		return m, nil

	case errMsg:
		m.err = msg
		return m, nil

	case spinner.TickMsg:
		if m.state == StateScanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if m.state == StateConfig {
		var cmd tea.Cmd
		m.imagesInput, cmd = m.imagesInput.Update(msg)
		cmds = append(cmds, cmd)

		m.scriptsInput, cmd = m.scriptsInput.Update(msg)
		cmds = append(cmds, cmd)

		m.keyModeList, cmd = m.keyModeList.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.state == StateReview {
		var cmd tea.Cmd
		m.reviewList, cmd = m.reviewList.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.state == StateDeleting {
		model, cmd := m.progressBar.Update(msg)
		m.progressBar = model.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) updateConfigPhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "tab" {
		m.nextFocus()
		m.updateFocusState()
		return m, nil
	}

	if msg.String() == "enter" {
		return m.handleEnterKey()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.imagesInput, cmd = m.imagesInput.Update(msg)
	cmds = append(cmds, cmd)
	m.scriptsInput, cmd = m.scriptsInput.Update(msg)
	cmds = append(cmds, cmd)
	m.keyModeList, cmd = m.keyModeList.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) nextFocus() {
	switch m.focus {
	case FocusImagesDir:
		m.focus = FocusScriptsDir
	case FocusScriptsDir:
		m.focus = FocusKeyMode
	case FocusKeyMode:
		m.focus = FocusImagesDir
	}
}

func (m *model) updateFocusState() {
	if m.focus == FocusImagesDir {
		m.imagesInput.Focus()
	} else {
		m.imagesInput.Blur()
	}

	if m.focus == FocusScriptsDir {
		m.scriptsInput.Focus()
	} else {
		m.scriptsInput.Blur()
	}

	m.keyModeList.KeyMap.CursorUp.SetEnabled(m.focus == FocusKeyMode)
	m.keyModeList.KeyMap.CursorDown.SetEnabled(m.focus == FocusKeyMode)
}

func (m *model) handleEnterKey() (tea.Model, tea.Cmd) {
	switch m.focus {
	case FocusImagesDir:
		m.cfg.ImagesRoot = m.imagesInput.Value()
		m.nextFocus()
		m.updateFocusState()
		return m, nil

	case FocusScriptsDir:
		m.cfg.ScriptsRoot = m.scriptsInput.Value()
		m.nextFocus()
		m.updateFocusState()
		return m, nil

	case FocusKeyMode:
		if item, ok := m.keyModeList.SelectedItem().(keyModeItem); ok {
			m.cfg.KeyMode = string(item.mode)
		}
		m.cfg.ImagesRoot = m.imagesInput.Value()
		m.cfg.ScriptsRoot = m.scriptsInput.Value()

		if m.cfg.ImagesRoot == "" || m.cfg.ScriptsRoot == "" {
			return m, nil
		}

		m.err = nil
		m.state = StateScanning
		return m, tea.Batch(m.spinner.Tick, m.scanCmd())
	}

	return m, nil
}

// updateReviewKeys 处理评审列表的标记和删除按键
func (m *model) updateReviewKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.reviewList.Index()
		if item, ok := m.reviewList.SelectedItem().(unusedItem); ok {
			item.marked = !item.marked
			return true, m.reviewList.SetItem(idx, item)
		}
		return true, nil

	case "a":
		return true, m.setAllMarks(true)

	case "u":
		return true, m.setAllMarks(false)

	case "d":
		paths := m.markedPaths()
		if len(paths) == 0 {
			return true, nil
		}
		sort.Strings(paths)
		m.pendingPaths = paths
		m.deleteIndex = 0
		m.batchResult = &deleter.Result{DeletedSizes: make(map[string]int64)}
		m.stats.StartTime = time.Now()
		m.state = StateDeleting
		return true, tea.Batch(m.progressBar.SetPercent(0), m.deleteNextCmd(0))

	case "q":
		return true, tea.Quit
	}

	return false, nil
}

func (m *model) setAllMarks(marked bool) tea.Cmd {
	var cmds []tea.Cmd
	for i, li := range m.reviewList.Items() {
		if item, ok := li.(unusedItem); ok && item.marked != marked {
			item.marked = marked
			cmds = append(cmds, m.reviewList.SetItem(i, item))
		}
	}
	return tea.Batch(cmds...)
}

func (m *model) markedPaths() []string {
	var paths []string
	for _, li := range m.reviewList.Items() {
		if item, ok := li.(unusedItem); ok && item.marked {
			paths = append(paths, item.path)
		}
	}
	return paths
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width

	m.imagesInput.Width = msg.Width - 10
	m.scriptsInput.Width = msg.Width - 10
	m.keyModeList.SetSize(msg.Width-4, 8)
	m.reviewList.SetSize(msg.Width-4, msg.Height-10)
	m.progressBar.Width = msg.Width - 10
}

// scanCmd 后台执行扫描并检查每个未使用文件
func (m *model) scanCmd() tea.Cmd {
	cfg := *m.cfg
	return func() tea.Msg {
		result, err := app.RunScan(&app.ScanOptions{
			ImagesRoot:  cfg.ImagesRoot,
			ScriptsRoot: cfg.ScriptsRoot,
			ProjectDir:  cfg.ProjectDir,
			KeyMode:     cfg.KeyMode,
			QuietLog:    true,
		})
		if err != nil {
			return errMsg(err)
		}

		items := make([]unusedItem, 0, len(result.UnusedPaths))
		for _, key := range result.Report.Unused {
			for _, path := range result.Images.Keys[key] {
				info, err := inspector.Inspect(path)
				if err != nil {
					logger.Get().Warn().Err(err).Msgf("检查图片失败: %s", path)
					info = nil
				}
				items = append(items, unusedItem{key: key, path: path, info: info})
			}
		}

		return scanCompleteMsg{result: result, items: items}
	}
}

// deleteNextCmd 删除待删除列表中的第 index 个文件
// 逐个删除以保持进度条和界面响应，单个失败不影响后续
func (m *model) deleteNextCmd(index int) tea.Cmd {
	path := m.pendingPaths[index]
	root := m.scan.ImagesRoot
	return func() tea.Msg {
		result, err := deleter.SafeDelete([]string{path}, root)
		if err != nil {
			logger.Get().Error().Err(err).Msgf("删除批次失败: %s", path)
			result = &deleter.Result{Errors: 1}
		}
		return deleteProgressMsg{index: index, result: result}
	}
}

// finishBatchCmd 批次收尾: 写入审计记录
func (m *model) finishBatchCmd() tea.Cmd {
	scan := m.scan
	batch := m.batchResult
	return func() tea.Msg {
		app.RecordDeletions(scan, batch)
		return deleteCompleteMsg{}
	}
}

// mergeBatchResult 把单个文件的删除结果并入批次累计
func (m *model) mergeBatchResult(r *deleter.Result) {
	if r == nil {
		return
	}
	m.batchResult.Deleted += r.Deleted
	m.batchResult.Skipped += r.Skipped
	m.batchResult.Errors += r.Errors
	m.batchResult.FreedSpace += r.FreedSpace
	m.batchResult.DeletedPaths = append(m.batchResult.DeletedPaths, r.DeletedPaths...)
	for p, size := range r.DeletedSizes {
		m.batchResult.DeletedSizes[p] = size
	}
}

// applyBatchResult 用删除结果就地更新内存状态，避免重新扫描
func (m *model) applyBatchResult() {
	deleted := make(map[string]bool, len(m.batchResult.DeletedPaths))
	for _, p := range m.batchResult.DeletedPaths {
		deleted[p] = true
	}

	var remaining []list.Item
	for _, li := range m.reviewList.Items() {
		item, ok := li.(unusedItem)
		if !ok || deleted[item.path] {
			continue
		}
		item.marked = false
		remaining = append(remaining, item)
	}
	m.reviewList.SetItems(remaining)

	m.stats.Deleted += m.batchResult.Deleted
	m.stats.Skipped += m.batchResult.Skipped
	m.stats.Errors += m.batchResult.Errors
	m.stats.FreedSpace += m.batchResult.FreedSpace
	m.stats.EndTime = time.Now()
	m.pendingPaths = nil
}
