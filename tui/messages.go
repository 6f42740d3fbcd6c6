package tui

import (
	"github.com/Ati1707/renpy-img-prune/app"
	"github.com/Ati1707/renpy-img-prune/pkg/deleter"
)

type scanCompleteMsg struct {
	result *app.ScanResult
	items  []unusedItem
}

type deleteProgressMsg struct {
	index  int
	result *deleter.Result
}

type deleteCompleteMsg struct{}

type errMsg error
