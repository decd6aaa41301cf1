package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(26)
	focusedPanelStyle = panelStyle.BorderForeground(lipgloss.Color("205"))
	labelStyle        = lipgloss.NewStyle().Faint(true)
	valueStyle        = lipgloss.NewStyle().Bold(true)
)

// RenderText draws p as a row of bordered panels.
func RenderText(p Page) string {
	if p.Loading {
		return "Loading..."
	}
	if len(p.Panels) == 0 {
		return labelStyle.Render("(no panels)")
	}

	style := panelStyle
	if p.Focused {
		style = focusedPanelStyle
	}
	tiles := make([]string, 0, len(p.Panels))
	for _, panel := range p.Panels {
		value := panel.Value
		if value == "" {
			value = "-"
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render(fmt.Sprintf("%d. %s", panel.ID, panel.Label)),
			valueStyle.Render(value),
		)
		tiles = append(tiles, style.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// WriteText writes RenderText(p) followed by a newline.
func WriteText(w io.Writer, p Page) error {
	var b strings.Builder
	b.WriteString(RenderText(p))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
