package appstate

import "sync"

// Collapsibles tracks per-section open/closed state, persisted through
// a Prefs store. Sections registered with a group form an accordion:
// opening one closes its siblings, last-opened-wins. A designated
// section drives the sidebar through the shared sidebar key.
type Collapsibles struct {
	prefs *Prefs

	mu             sync.Mutex
	groups         map[string]string // section -> accordion group ("" = independent)
	sections       []string
	sidebarSection string
}

// NewCollapsibles creates a collapsible controller over the given
// preference store.
func NewCollapsibles(prefs *Prefs) *Collapsibles {
	return &Collapsibles{
		prefs:  prefs,
		groups: map[string]string{},
	}
}

// Register adds a section. group "" makes it independent; sections
// sharing a group behave as an accordion.
func (c *Collapsibles) Register(section, group string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, known := c.groups[section]; !known {
		c.sections = append(c.sections, section)
	}
	c.groups[section] = group
}

// MirrorSidebar designates the section whose open state the sidebar
// follows.
func (c *Collapsibles) MirrorSidebar(section string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidebarSection = section
}

// IsOpen reports whether a section is open. Sections start open: the
// stored flag records collapse, so an absent key means open.
func (c *Collapsibles) IsOpen(section string) bool {
	return !c.prefs.GetBool(SectionKey(section))
}

// Open expands a section, closing accordion siblings.
func (c *Collapsibles) Open(section string) {
	c.setOpen(section, true)

	c.mu.Lock()
	group := c.groups[section]
	var siblings []string
	if group != "" {
		for _, other := range c.sections {
			if other != section && c.groups[other] == group {
				siblings = append(siblings, other)
			}
		}
	}
	c.mu.Unlock()

	for _, sibling := range siblings {
		c.setOpen(sibling, false)
	}
}

// Close collapses a section.
func (c *Collapsibles) Close(section string) {
	c.setOpen(section, false)
}

// Toggle flips a section.
func (c *Collapsibles) Toggle(section string) {
	if c.IsOpen(section) {
		c.Close(section)
	} else {
		c.Open(section)
	}
}

func (c *Collapsibles) setOpen(section string, open bool) {
	c.prefs.SetBool(SectionKey(section), !open)

	c.mu.Lock()
	mirror := c.sidebarSection == section
	c.mu.Unlock()
	if mirror {
		c.prefs.SetBool(KeySidebarCollapsed, !open)
	}
}

// SidebarVisible reports the mirrored sidebar state.
func (c *Collapsibles) SidebarVisible() bool {
	return !c.prefs.GetBool(KeySidebarCollapsed)
}
