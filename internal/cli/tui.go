package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/routefinder/pkg/flight"
	rfio "github.com/matzehuels/routefinder/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RouteListModel - Interactive route browser
// =============================================================================

// RouteListModel is the bubbletea model for browsing search results. Enter
// opens the flights of the route under the cursor; esc goes back.
type RouteListModel struct {
	Routes   []rfio.RouteRecord
	Cursor   int
	Offset   int
	Height   int
	Detail   bool
	Selected *rfio.RouteRecord
}

// NewRouteListModel creates a new route list model.
func NewRouteListModel(routes []rfio.RouteRecord) RouteListModel {
	return RouteListModel{
		Routes: routes,
		Height: 15,
	}
}

func (m RouteListModel) Init() tea.Cmd {
	return nil
}

func (m RouteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "backspace", "left", "h":
				m.Detail = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Routes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if len(m.Routes) == 0 {
				return m, nil
			}
			m.Selected = &m.Routes[m.Cursor]
			m.Detail = true
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RouteListModel) View() string {
	if m.Detail && m.Selected != nil {
		return m.detailView(*m.Selected)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Routes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ flights  q quit"))
	b.WriteString("\n\n")

	if len(m.Routes) == 0 {
		b.WriteString(StyleWarning.Render("No routes found"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Routes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, routeRow(i+1, m.Routes[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, routeTableHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Routes))))
	return b.String()
}

func (m RouteListModel) detailView(r rfio.RouteRecord) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(strings.Join(r.Stops(), " "+iconArrow+" ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(r.Flights))
	for i, f := range r.Flights {
		rows[i] = []string{
			f.FlightNo,
			f.Origin + " " + iconArrow + " " + f.Destination,
			flight.FormatTime(f.Departure),
			flight.FormatTime(f.Arrival),
			flight.FormatDuration(f.Duration()),
			strconv.FormatFloat(f.Price(r.BagsCount), 'f', 2, 64),
			strconv.Itoa(f.BagsAllowed),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Flight", "Leg", "Departure", "Arrival", "Duration", "Price", "Bags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s %s   %s %s   %s %d/%d\n",
		listDimStyle.Render("total"), StyleNumber.Render(strconv.FormatFloat(r.TotalPrice, 'f', 2, 64)),
		listDimStyle.Render("travel"), StyleValue.Render(flight.FormatDuration(r.TravelTime)),
		listDimStyle.Render("bags"), r.BagsCount, r.BagsAllowed)
	return b.String()
}

// runRouteBrowser shows routes in the interactive browser until the user quits.
func runRouteBrowser(routes []rfio.RouteRecord) error {
	_, err := tea.NewProgram(NewRouteListModel(routes)).Run()
	return err
}
