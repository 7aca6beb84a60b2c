package appstate

// View is the full visible state, projected from the controllers. What
// is true lives in Panels/Collapsibles/Prefs; what is shown is only
// ever derived from them here.
type View struct {
	ActivePanel    string          `json:"activePanel"`
	Sections       map[string]bool `json:"sections"` // section -> open
	SidebarVisible bool            `json:"sidebarVisible"`
	LastPatient    string          `json:"lastPatient,omitempty"`
	LastCrewCard   string          `json:"lastCrewCard,omitempty"`
	VisibilityMode string          `json:"visibilityMode,omitempty"`
}

// Render projects the current state into a view model. It reads state
// and computes; it never mutates, so rendering twice in a row yields
// the same view.
func Render(panels *Panels, collapsibles *Collapsibles, prefs *Prefs) View {
	collapsibles.mu.Lock()
	sections := make([]string, len(collapsibles.sections))
	copy(sections, collapsibles.sections)
	collapsibles.mu.Unlock()

	open := make(map[string]bool, len(sections))
	for _, section := range sections {
		open[section] = collapsibles.IsOpen(section)
	}

	return View{
		ActivePanel:    panels.Active(),
		Sections:       open,
		SidebarVisible: collapsibles.SidebarVisible(),
		LastPatient:    prefs.Get(KeyLastPatient),
		LastCrewCard:   prefs.Get(KeyLastCrewCard),
		VisibilityMode: prefs.Get(KeyVisibilityMode),
	}
}
