// Package dashboard exposes the dashboard view for embedding in other
// programs.
package dashboard

import (
	internaldashboard "github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/focus"
	"github.com/SmitUplenchwar2687/schedboard/internal/live"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

// View holds the dashboard's state for one mount.
type View = internaldashboard.View

// Deps wires a View.
type Deps = internaldashboard.Deps

// ViewState is everything the dashboard renders from.
type ViewState = internaldashboard.ViewState

// Page is a rendered dashboard.
type Page = internaldashboard.Page

// Panel is one rendered tile.
type Panel = internaldashboard.Panel

// PanelSpec is one entry of the panel table.
type PanelSpec = internaldashboard.PanelSpec

// State is the scheduler read model the panels are computed from.
type State = scheduler.State

// Focus is the focused panel, or none.
type Focus = focus.Focus

// LiveOptions configures the push-channel client.
type LiveOptions = live.Options

// NewView validates deps and returns an unmounted view.
func NewView(deps Deps) (*View, error) {
	return internaldashboard.NewView(deps)
}

// DefaultPanels returns the standard four-panel table.
func DefaultPanels() []PanelSpec {
	return internaldashboard.DefaultPanels()
}

// Render computes the page for vs.
func Render(vs ViewState, panels []PanelSpec) Page {
	return internaldashboard.Render(vs, panels)
}

// LiveSubscriber dials url for push messages.
func LiveSubscriber(url string, opts LiveOptions) internaldashboard.SubscribeFunc {
	return internaldashboard.LiveSubscriber(url, opts)
}

// NewMemoryFocusStore keeps the focus in process memory.
func NewMemoryFocusStore() *focus.Store {
	return focus.NewStore(storage.NewMemoryStorage())
}

// NewFileFocusStore keeps the focus in a JSON file at path.
func NewFileFocusStore(path string) (*focus.Store, error) {
	fs, err := storage.NewFileStorage(path)
	if err != nil {
		return nil, err
	}
	return focus.NewStore(fs), nil
}
