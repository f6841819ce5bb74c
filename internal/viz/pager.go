package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type Page struct {
	Title string
	Body  string
}

// Model is a read-only pager over rendered pages.
type Model struct {
	pages  []Page
	index  int
	theme  int
	width  int
	height int
}

func NewModel(pages []Page) Model {
	return Model{pages: pages, width: 80, height: 24}
}

func (m Model) Index() int    { return m.index }
func (m Model) Theme() Theme  { return Themes[m.theme] }
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", "pgdown":
			if m.index < len(m.pages)-1 {
				m.index++
			}
		case "left", "h", "p", "pgup":
			if m.index > 0 {
				m.index--
			}
		case "home", "g":
			m.index = 0
		case "end", "G":
			m.index = max(len(m.pages)-1, 0)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) View() string {
	th := m.Theme()
	if len(m.pages) == 0 {
		return th.muted().Render("nothing to show") + "\n"
	}
	page := m.pages[m.index]

	var s strings.Builder
	s.WriteString(th.title().Render(strings.ToUpper(page.Title)))
	s.WriteString(th.muted().Render(fmt.Sprintf("  %d/%d", m.index+1, len(m.pages))))
	s.WriteString("\n")
	s.WriteString(Separator(min(m.width, 80)))
	s.WriteString("\n\n")
	s.WriteString(page.Body)
	s.WriteString("\n\n")
	s.WriteString(KeyHint.Render("←/→ page  t theme  q quit"))
	s.WriteString(th.accent().Render("  " + th.Name))
	s.WriteString("\n")
	return s.String()
}

// Run blocks until the user quits the pager.
func Run(pages []Page) error {
	_, err := tea.NewProgram(NewModel(pages)).Run()
	return err
}
