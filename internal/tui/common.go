package tui

import (
	"fmt"

	"github.com/hyunsol/croquis/internal/session"
	"github.com/hyunsol/croquis/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewDecks
	viewSession
	viewHistory
	viewAlarms
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Decks", "Session", "History", "Alarms", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg struct{}

// sessionStartedMsg carries a freshly built session up to the app, which
// switches to the session view.
type sessionStartedMsg struct {
	sess     *session.Session
	deckPath string
}

type sessionEndedMsg struct {
	completed int
}

type pairSavedMsg struct {
	file string
}

type historyDataMsg struct {
	entries []store.HistoryEntry
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatClock renders seconds as MM:SS, spilling into hours past 59:59.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
