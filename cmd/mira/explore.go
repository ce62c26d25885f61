package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirajs/mira/mira"
)

var (
	exploreHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6")).
				Bold(true).
				Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	listItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

type exploreKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var exploreKeys = exploreKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous module"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next module"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

type exploreModel struct {
	graph    *mira.ModuleGraph
	modules  []*mira.Module
	cursor   int
	quitting bool
}

func newExploreModel(graph *mira.ModuleGraph) exploreModel {
	return exploreModel{graph: graph, modules: graph.Modules()}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, exploreKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, exploreKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, exploreKeys.Down):
		if m.cursor < len(m.modules)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(exploreHeaderStyle.Render(fmt.Sprintf("module graph · %d modules", len(m.modules))))
	b.WriteString("\n\n")

	for i, module := range m.modules {
		line := module.Path()
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(listItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailStyle.Render(m.detailView()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · q quit"))
	return b.String()
}

func (m exploreModel) detailView() string {
	module := m.modules[m.cursor]
	requests := module.RequestedModules()
	if len(requests) == 0 {
		return module.Path() + "\n" + dimStyle.Render("no imports")
	}

	deps := m.graph.Requires(module)
	var b strings.Builder
	b.WriteString(module.Path())
	for i, specifier := range requests {
		b.WriteString("\n")
		b.WriteString(specifier)
		if i < len(deps) {
			b.WriteString(dimStyle.Render(" → " + deps[i].Path()))
		}
	}
	return b.String()
}

func exploreCommand(args []string) error {
	fs := flag.NewFlagSet("explore", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	root := fs.String("root", "", "module root directory (default: the entry file's directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return errors.New("mira explore: entry module path required")
	}

	graph, _, err := loadEntryGraph(*root, remaining[0], false)
	if err != nil {
		return fmt.Errorf("explore failed: %w", err)
	}

	program := tea.NewProgram(newExploreModel(graph))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("explore failed: %w", err)
	}
	return nil
}
