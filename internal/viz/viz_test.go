package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/isingviz/internal/fit"
	"github.com/san-kum/isingviz/internal/series"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPagerNavigation(t *testing.T) {
	var m tea.Model = NewModel([]Page{{Title: "one"}, {Title: "two"}, {Title: "three"}})

	m, _ = m.Update(key("right"))
	m, _ = m.Update(key("l"))
	m, _ = m.Update(key("l"))
	if got := m.(Model).Index(); got != 2 {
		t.Errorf("expected to stop at last page, got %d", got)
	}

	m, _ = m.Update(key("left"))
	if got := m.(Model).Index(); got != 1 {
		t.Errorf("expected page 1, got %d", got)
	}
	m, _ = m.Update(key("h"))
	m, _ = m.Update(key("h"))
	if got := m.(Model).Index(); got != 0 {
		t.Errorf("expected to stop at first page, got %d", got)
	}

	if !strings.Contains(m.View(), "ONE") {
		t.Error("expected view to show the current page title")
	}
}

func TestPagerQuit(t *testing.T) {
	m := NewModel([]Page{{Title: "one"}})
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestPagerTheme(t *testing.T) {
	var m tea.Model = NewModel(nil)
	for range Themes {
		m, _ = m.Update(key("t"))
	}
	if m.(Model).Theme().Name != Themes[0].Name {
		t.Error("expected theme cycle to wrap")
	}
	if !strings.Contains(m.View(), "nothing to show") {
		t.Error("expected empty pager message")
	}
}

func TestFitTable(t *testing.T) {
	out := FitTable([]fit.Outcome{
		{Row: 0, Result: fit.Result{Rate: -0.25, StdErr: 0.001, ChiSq: 9, DOF: 9, Points: 10}},
		{Row: 1, Err: errors.New("fit: no valid points after masking")},
	})
	if !strings.Contains(out, "-0.25000") {
		t.Error("expected the fitted rate in the table")
	}
	if !strings.Contains(out, "skipped: fit: no valid points") {
		t.Error("expected the skip reason in the table")
	}
}

func TestCharts(t *testing.T) {
	if EnergyChart(nil, nil, 40, 5) != "" {
		t.Error("expected empty chart without data")
	}
	if EnergyChart([]float64{-2, -1.9, -1.8}, []float64{0, -1, -1.7}, 40, 5) == "" {
		t.Error("expected energy chart")
	}

	m := series.Window{}.Apply([]float64{1, 0.5, -0.1, 0.2}, []float64{0.1, 0.1, 0.1, 0.1})
	if CorrelatorChart([]series.Masked{m, {}}, 40, 5) == "" {
		t.Error("expected correlator chart")
	}
	if CorrelatorChart(nil, 40, 5) != "" {
		t.Error("expected empty correlator chart")
	}

	if SpectrumChart([]float64{0}, 40, 5) != "" {
		t.Error("expected empty spectrum chart for a single bin")
	}
	if SpectrumChart([]float64{0, 3, 1, 0.5}, 40, 5) == "" {
		t.Error("expected spectrum chart")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	if Sparkline([]float64{1, 2, 3}, 0) != "" {
		t.Error("expected empty sparkline for zero width")
	}
}
