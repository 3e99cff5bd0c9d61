package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding of the main screen. Help and the footer are
// generated from it.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Help   key.Binding
	Search key.Binding
	Filter key.Binding
	Tree   key.Binding
	Sort   key.Binding
	Invert key.Binding
	NiceUp key.Binding
	NiceDn key.Binding
	Kill   key.Binding
	Quit   key.Binding

	Next      key.Binding
	Prev      key.Binding
	User      key.Binding
	Tag       key.Binding
	TagTree   key.Binding
	Untag     key.Binding
	Follow    key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	ToggleAll key.Binding
	Affinity  key.Binding
	Info      key.Binding
	Kernel    key.Binding
	Path      key.Binding
	Pause     key.Binding
	Redraw    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "select previous")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "select next")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("Home", "first process")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("End", "last process")),

		Help:   key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("F1", "Help")),
		Search: key.NewBinding(key.WithKeys("f3", "/"), key.WithHelp("F3", "Search")),
		Filter: key.NewBinding(key.WithKeys("f4", "\\"), key.WithHelp("F4", "Filter")),
		Tree:   key.NewBinding(key.WithKeys("f5", "t"), key.WithHelp("F5", "Tree")),
		Sort:   key.NewBinding(key.WithKeys("f6", ">", "<"), key.WithHelp("F6", "SortBy")),
		Invert: key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "invert sort order")),
		NiceUp: key.NewBinding(key.WithKeys("f7", "]"), key.WithHelp("F7", "Nice -")),
		NiceDn: key.NewBinding(key.WithKeys("f8", "["), key.WithHelp("F8", "Nice +")),
		Kill:   key.NewBinding(key.WithKeys("f9", "k"), key.WithHelp("F9", "Kill")),
		Quit:   key.NewBinding(key.WithKeys("f10", "q", "ctrl+c"), key.WithHelp("F10", "Quit")),

		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next search match")),
		Prev:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "previous search match")),
		User:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "show one user's processes")),
		Tag:       key.NewBinding(key.WithKeys(" "), key.WithHelp("Space", "tag process")),
		TagTree:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "tag process and children")),
		Untag:     key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "untag all")),
		Follow:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "follow process")),
		Expand:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "expand subtree")),
		Collapse:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "collapse subtree")),
		ToggleAll: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "collapse or expand all")),
		Affinity:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "set CPU affinity")),
		Info:      key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i", "process details")),
		Kernel:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "toggle kernel threads")),
		Path:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle program path")),
		Pause:     key.NewBinding(key.WithKeys("Z", "z"), key.WithHelp("Z", "pause updates")),
		Redraw:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "redraw screen")),
	}
}

// footerBindings are the F-key hints along the bottom row.
func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{k.Help, k.Search, k.Filter, k.Tree, k.Sort, k.NiceUp, k.NiceDn, k.Kill, k.Quit}
}

// helpBindings lists every binding for the help dialog, in display order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End,
		k.Help, k.Search, k.Next, k.Prev, k.Filter, k.User, k.Tree, k.Expand, k.Collapse, k.ToggleAll,
		k.Sort, k.Invert, k.NiceUp, k.NiceDn, k.Kill, k.Affinity, k.Info,
		k.Tag, k.TagTree, k.Untag, k.Follow, k.Kernel, k.Path, k.Pause, k.Redraw, k.Quit,
	}
}
