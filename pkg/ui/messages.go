package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
	"github.com/vanderheijden86/coursemap/pkg/watcher"
)

// ReloadMsg carries a rebuilt catalog (or the error that prevented one)
// from the catalog watcher.
type ReloadMsg struct {
	watcher.Reload
}

// WatchReloadCmd waits for the next reload from r. The model re-issues it
// after handling each ReloadMsg.
func WatchReloadCmd(r *watcher.Reloader) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-r.Reloads()
		if !ok {
			return nil
		}
		return ReloadMsg{Reload: res}
	}
}

// StatusSavedMsg reports the outcome of cycling a course status.
type StatusSavedMsg struct {
	Code   string
	Status model.Status
	Err    error
}

// cycleStatusCmd advances code to its next status in store.
func cycleStatusCmd(store progress.Store, code string) tea.Cmd {
	return func() tea.Msg {
		next, err := progress.Cycle(store, code)
		return StatusSavedMsg{Code: code, Status: next, Err: err}
	}
}
