package dashboard

import (
	"github.com/SmitUplenchwar2687/schedboard/internal/focus"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// ViewState is everything the dashboard renders from.
type ViewState struct {
	Loading bool
	Focus   focus.Focus
	Data    scheduler.State
}

// Panel is one rendered tile.
type Panel struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Page is the rendered dashboard. While Loading is true nothing else is set.
type Page struct {
	Loading bool    `json:"loading"`
	Focused bool    `json:"focused"` // styling only
	Panels  []Panel `json:"panels"`
	Version uint64  `json:"version"`
}

// Render computes the page for vs. With a focus set only the matching panel
// is shown, which may be none; otherwise every panel in table order.
func Render(vs ViewState, panels []PanelSpec) Page {
	if vs.Loading {
		return Page{Loading: true, Panels: []Panel{}}
	}

	page := Page{
		Focused: vs.Focus.IsSet(),
		Panels:  make([]Panel, 0, len(panels)),
	}
	for _, spec := range panels {
		if vs.Focus.IsSet() && !vs.Focus.Is(spec.ID) {
			continue
		}
		page.Panels = append(page.Panels, Panel{
			ID:    spec.ID,
			Label: spec.Label,
			Value: spec.Value(vs.Data),
		})
	}
	return page
}
