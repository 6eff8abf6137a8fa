package tui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyunsol/croquis/internal/session"
	"github.com/hyunsol/croquis/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testImages(t *testing.T, names ...string) []store.Image {
	t.Helper()
	data := pngBytes(t)
	var out []store.Image
	for _, n := range names {
		out = append(out, store.Image{
			Filename:   n,
			Width:      2,
			Height:     2,
			Size:       int64(len(data)),
			Data:       data,
			Difficulty: 3,
		})
	}
	return out
}

func newTestSession(t *testing.T, secs int, names ...string) *session.Session {
	t.Helper()
	seed := uint64(7)
	sess, err := session.New(testImages(t, names...), session.Config{
		DurationSeconds: secs,
		Seed:            &seed,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Session view
// ============================================================

func TestSessionViewInactiveByDefault(t *testing.T) {
	s := newTestStore(t)
	m := newSessionViewModel(s)

	if m.active() {
		t.Fatal("fresh session view should not be active")
	}
	if m.capturing() {
		t.Fatal("fresh session view should not be capturing")
	}
	if !strings.Contains(m.view(), "No session running") {
		t.Fatal("inactive view should show the placeholder")
	}
}

func TestSessionViewCountdownToCapture(t *testing.T) {
	s := newTestStore(t)
	m := newSessionViewModel(s)
	m.start(newTestSession(t, 2, "a.png", "b.png"), "/tmp/figures.crdk")

	if !m.active() {
		t.Fatal("session view should be active after start")
	}

	m, _ = m.update(tickMsg{})
	if m.capturing() {
		t.Fatal("should still be counting down after one tick")
	}

	m, _ = m.update(tickMsg{})
	if !m.capturing() {
		t.Fatal("should be capturing once the countdown hits zero")
	}
	if !strings.Contains(m.view(), "Time!") {
		t.Fatal("capture view should announce the countdown end")
	}
}

func TestSessionViewCaptureEmptyPathSavesPair(t *testing.T) {
	s := newTestStore(t)
	m := newSessionViewModel(s)
	m.start(newTestSession(t, 1, "a.png", "b.png"), "/tmp/figures.crdk")

	m, _ = m.update(tickMsg{})
	if !m.capturing() {
		t.Fatal("expected capture step")
	}

	// Enter with no path records a pair without a drawing.
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("accepting a capture should schedule the save")
	}
	msg := cmd()
	saved, ok := msg.(pairSavedMsg)
	if !ok {
		t.Fatalf("expected pairSavedMsg, got %T: %v", msg, msg)
	}
	if saved.file == "" {
		t.Fatal("saved pair should name its file")
	}

	m, _ = m.update(saved)
	if m.completed != 1 {
		t.Fatalf("completed = %d, want 1", m.completed)
	}
	if m.capturing() {
		t.Fatal("session should have advanced past the capture step")
	}

	entries, err := s.ListHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	if len(entries[0].Pair.Screenshot) != 0 {
		t.Fatal("pair saved without a drawing should have no screenshot bytes")
	}
	if s.TodayCount() != 1 {
		t.Fatalf("today count = %d, want 1", s.TodayCount())
	}
}

func TestSessionViewCaptureEscRetakes(t *testing.T) {
	s := newTestStore(t)
	m := newSessionViewModel(s)
	m.start(newTestSession(t, 1, "a.png", "b.png"), "/tmp/figures.crdk")

	m, _ = m.update(tickMsg{})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})

	if !m.capturing() {
		t.Fatal("esc should keep the capture step open for a retake")
	}
	if m.completed != 0 {
		t.Fatal("retake should not record a pair")
	}
}

func TestSessionViewPauseShortcut(t *testing.T) {
	s := newTestStore(t)
	m := newSessionViewModel(s)
	m.start(newTestSession(t, 30, "a.png"), "/tmp/figures.crdk")

	// Default pause shortcut is P.
	m, _ = m.update(runeKey("p"))
	if m.sess.State() != session.StatePaused {
		t.Fatalf("state = %v, want paused", m.sess.State())
	}

	remaining := m.sess.Remaining()
	m, _ = m.update(tickMsg{})
	if m.sess.Remaining() != remaining {
		t.Fatal("ticks should not advance a paused session")
	}

	m, _ = m.update(runeKey("p"))
	if m.sess.State() != session.StateDisplaying {
		t.Fatalf("state = %v, want displaying", m.sess.State())
	}
}

func TestSessionViewStopEndsSession(t *testing.T) {
	s := newTestStore(t)
	m := newSessionViewModel(s)
	m.start(newTestSession(t, 30, "a.png"), "/tmp/figures.crdk")

	// Default stop shortcut is Escape.
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("stop should emit a session-ended message")
	}
	if _, ok := cmd().(sessionEndedMsg); !ok {
		t.Fatal("expected sessionEndedMsg")
	}
	if m.active() {
		t.Fatal("stopped session view should be inactive")
	}
}

// ============================================================
// Formatting helpers
// ============================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{125, "02:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.secs); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if min(3, 5) != 3 || min(5, 3) != 3 {
		t.Error("min broken")
	}
	if max(3, 5) != 5 || max(5, 3) != 5 {
		t.Error("max broken")
	}
}

// ============================================================
// View states
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != viewCount {
		t.Fatalf("viewNames has %d entries, want %d", len(viewNames), viewCount)
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewSettings != viewCount-1 {
		t.Fatal("view state constants should span 0..viewCount-1")
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardInit(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)

	cmd := d.Init()
	if cmd == nil {
		t.Fatal("init should load data")
	}
	msg, ok := cmd().(dashboardDataMsg)
	if !ok {
		t.Fatal("expected dashboardDataMsg")
	}
	if msg.today != 0 || msg.total != 0 {
		t.Fatal("fresh store should have zero counts")
	}
}

func TestDashboardDataUpdate(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)

	d, _ = d.update(dashboardDataMsg{
		today:   2,
		total:   40,
		heatmap: map[string]int{"2026-08-28": 2},
		recent:  []string{"/home/u/a.crdk"},
	})
	if d.today != 2 || d.total != 40 {
		t.Fatal("counts not applied")
	}
	if len(d.recent) != 1 {
		t.Fatal("recent list not applied")
	}
}

func TestDashboardTagPicker(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)

	deck := &store.Deck{Images: []store.Image{
		{Filename: "a.png", Tags: []string{"hands"}},
		{Filename: "b.png", Tags: []string{"faces"}},
	}}
	d, _ = d.update(deckLoadedMsg{path: "/tmp/figures.crdk", deck: deck})

	if !d.picking {
		t.Fatal("loading a deck should open the tag picker")
	}
	if len(d.pickerTags) != 2 {
		t.Fatalf("picker has %d tags, want 2", len(d.pickerTags))
	}

	d, _ = d.update(runeKey(" "))
	if len(d.pickerOn) != 1 {
		t.Fatal("space should toggle the highlighted tag on")
	}
	d, _ = d.update(runeKey(" "))
	if len(d.pickerOn) != 0 {
		t.Fatal("space again should toggle it back off")
	}

	d, _ = d.update(tea.KeyMsg{Type: tea.KeyEsc})
	if d.picking {
		t.Fatal("esc should close the picker")
	}
}

func TestDashboardView(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)
	d.setSize(100, 40)

	v := d.view()
	if !strings.Contains(v, "Practice heatmap") {
		t.Fatal("dashboard should render the heatmap panel")
	}
	if !strings.Contains(v, "No decks opened yet") {
		t.Fatal("dashboard should render the empty recent list")
	}
}

// ============================================================
// Key maps
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should not be empty")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	rows := keys.FullHelp()
	if len(rows) == 0 {
		t.Fatal("full help should not be empty")
	}
	for i, row := range rows {
		if len(row) == 0 {
			t.Fatalf("full help row %d is empty", i)
		}
	}
}

func TestShortcutKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Space", " "},
		{"Escape", "esc"},
		{"Return", "enter"},
		{"Enter", "enter"},
		{"Left", "left"},
		{"Right", "right"},
		{"Tab", "tab"},
		{"P", "p"},
		{"X", "x"},
	}
	for _, tt := range tests {
		if got := shortcutKey(tt.name); got != tt.want {
			t.Errorf("shortcutKey(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewSessionKeyMapDefaults(t *testing.T) {
	km := newSessionKeyMap(store.DefaultSettings())

	if !km.Next.Enabled() || km.Next.Keys()[0] != " " {
		t.Fatal("next should default to space")
	}
	if km.Previous.Keys()[0] != "left" {
		t.Fatal("previous should default to left")
	}
	if km.Pause.Keys()[0] != "p" {
		t.Fatal("pause should default to p")
	}
	if km.Stop.Keys()[0] != "esc" {
		t.Fatal("stop should default to escape")
	}
}

func TestNewSessionKeyMapRebind(t *testing.T) {
	cfg := store.DefaultSettings()
	cfg.Shortcuts[store.ActionNextImage] = "N"

	km := newSessionKeyMap(cfg)
	if km.Next.Keys()[0] != "n" {
		t.Fatalf("next = %q, want n", km.Next.Keys()[0])
	}
	// Unset actions fall back to the defaults.
	if km.Pause.Keys()[0] != "p" {
		t.Fatal("pause should keep its default")
	}
}

func TestNewSessionKeyMapEmptyShortcuts(t *testing.T) {
	cfg := store.DefaultSettings()
	cfg.Shortcuts = map[string]string{}

	km := newSessionKeyMap(cfg)
	if km.Next.Keys()[0] != " " || km.Stop.Keys()[0] != "esc" {
		t.Fatal("missing shortcut map should fall back to defaults")
	}
}

// ============================================================
// Styles
// ============================================================

func TestDifficultyDots(t *testing.T) {
	tests := []struct {
		d    int
		want string
	}{
		{0, "○○○○○"},
		{1, "●○○○○"},
		{3, "●●●○○"},
		{5, "●●●●●"},
	}
	for _, tt := range tests {
		if got := difficultyDots(tt.d); got != tt.want {
			t.Errorf("difficultyDots(%d) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHeatCell(t *testing.T) {
	// Same bucket renders the same cell, different buckets differ.
	if heatCell(0) != heatCell(0) {
		t.Fatal("heat cell should be deterministic")
	}
	if heatCell(1) != heatCell(2) {
		t.Fatal("1 and 2 sessions share a shade")
	}
	if heatCell(5) != heatCell(7) {
		t.Fatal("5 and 7 sessions share a shade")
	}
	for _, n := range []int{0, 1, 3, 5, 8} {
		if !strings.Contains(heatCell(n), "■") {
			t.Fatalf("heatCell(%d) missing the cell glyph", n)
		}
	}
}

func TestStylesRender(t *testing.T) {
	for _, s := range []string{
		titleStyle.Render("x"),
		successStyle.Render("x"),
		warningStyle.Render("x"),
		errorStyle.Render("x"),
		mutedStyle.Render("x"),
		highlightStyle.Render("x"),
	} {
		if !strings.Contains(s, "x") {
			t.Fatal("style dropped its content")
		}
	}
}

// ============================================================
// App
// ============================================================

func sizedApp(t *testing.T) App {
	t.Helper()
	s := newTestStore(t)
	a := NewApp(s)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model.(App)
}

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s)

	if a.activeView != viewDashboard {
		t.Fatal("app should open on the dashboard")
	}
	if a.exportPicking {
		t.Fatal("export picker should start closed")
	}
	if a.Init() == nil {
		t.Fatal("init should schedule the first tick")
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s)

	if !strings.Contains(a.View(), "Loading") {
		t.Fatal("unsized app should render the loading state")
	}
}

func TestAppViewStates(t *testing.T) {
	a := sizedApp(t)

	for v := viewDashboard; v < viewCount; v++ {
		a.activeView = v
		if a.View() == "" {
			t.Fatalf("view %s rendered empty", viewNames[v])
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	a := sizedApp(t)

	header := a.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
	if !strings.Contains(header, "croquis") {
		t.Fatal("header missing the app title")
	}
}

func TestAppRenderFooter(t *testing.T) {
	a := sizedApp(t)
	if a.renderFooter() == "" {
		t.Fatal("footer rendered empty")
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := sizedApp(t)

	model, _ := a.Update(statusMsg{text: "saved", isError: false})
	a = model.(App)
	if !strings.Contains(a.renderFooter(), "saved") {
		t.Fatal("status text should surface in the footer")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := sizedApp(t)

	tests := []struct {
		key  string
		want viewState
	}{
		{"2", viewDecks},
		{"4", viewHistory},
		{"7", viewSettings},
		{"1", viewDashboard},
	}
	for _, tt := range tests {
		model, _ := a.Update(runeKey(tt.key))
		a = model.(App)
		if a.activeView != tt.want {
			t.Fatalf("after key %q activeView = %v, want %v", tt.key, a.activeView, tt.want)
		}
	}
}

func TestAppTabCycleWraps(t *testing.T) {
	a := sizedApp(t)
	a.activeView = viewSettings

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(App)
	if a.activeView != viewDashboard {
		t.Fatalf("tab from the last view should wrap, got %v", a.activeView)
	}
}

func TestAppQuit(t *testing.T) {
	a := sizedApp(t)

	_, cmd := a.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected a quit message")
	}
}

func TestAppExportPicker(t *testing.T) {
	a := sizedApp(t)

	model, _ := a.Update(runeKey("e"))
	a = model.(App)
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(a.View(), "Export") {
		t.Fatal("picker should render")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a = model.(App)
	if a.exportCursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.exportCursor)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	a := sizedApp(t)

	for v := viewDashboard; v < viewCount; v++ {
		a.activeView = v
		if a.isFormActive() {
			t.Fatalf("no form should be active on a fresh %s view", viewNames[v])
		}
	}
}

func TestAppSessionLifecycle(t *testing.T) {
	a := sizedApp(t)
	sess := newTestSession(t, 30, "a.png", "b.png")

	model, _ := a.Update(sessionStartedMsg{sess: sess, deckPath: "/tmp/figures.crdk"})
	a = model.(App)
	if a.activeView != viewSession {
		t.Fatal("starting a session should switch to the session view")
	}
	if !a.session.active() {
		t.Fatal("session view should be running")
	}

	model, _ = a.Update(sessionEndedMsg{completed: 3})
	a = model.(App)
	if a.activeView != viewDashboard {
		t.Fatal("ending a session should return to the dashboard")
	}
	if !strings.Contains(a.status, "3") {
		t.Fatal("end-of-session status should report the count")
	}
}

func TestAppTickKeepsTicking(t *testing.T) {
	a := sizedApp(t)

	_, cmd := a.Update(tickMsg{})
	if cmd == nil {
		t.Fatal("tick should re-arm the next tick")
	}
}

func TestAppTickReachesSession(t *testing.T) {
	a := sizedApp(t)
	sess := newTestSession(t, 5, "a.png")

	model, _ := a.Update(sessionStartedMsg{sess: sess, deckPath: "/tmp/figures.crdk"})
	a = model.(App)

	// Session keeps counting even while another tab is shown.
	a.activeView = viewHistory
	model, _ = a.Update(tickMsg{})
	a = model.(App)
	if a.session.sess.Remaining() != 4 {
		t.Fatalf("remaining = %d, want 4", a.session.sess.Remaining())
	}
}

func TestDecksReplacingDraftDiscardsOld(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m := newDecksModel(s)

	first, err := s.OpenDraft("")
	if err != nil {
		t.Fatal(err)
	}
	m, _ = m.update(draftOpenedMsg{draft: first})

	second, err := s.OpenDraft("")
	if err != nil {
		t.Fatal(err)
	}
	m, _ = m.update(draftOpenedMsg{draft: second})
	s.Flush()

	drafts, err := os.ReadDir(filepath.Join(dir, "drafts"))
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 1 {
		t.Fatalf("%d draft files remain, want 1 (replaced draft not deleted)", len(drafts))
	}
	if m.draft != second {
		t.Fatal("new draft should be installed")
	}
}

func TestAppQuitDiscardsDraft(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	a := NewApp(s)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a = model.(App)

	draft, err := s.OpenDraft("")
	if err != nil {
		t.Fatal(err)
	}
	a.activeView = viewDecks
	model, _ = a.Update(draftOpenedMsg{draft: draft})
	a = model.(App)

	_, cmd := a.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	s.Flush()

	drafts, err := os.ReadDir(filepath.Join(dir, "drafts"))
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 0 {
		t.Fatalf("%d draft files remain after quit, want 0", len(drafts))
	}
}
