package statsui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Scroll   key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Narrower key.Binding
	Wider    key.Binding
	Settings key.Binding
	Pick     key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Scroll:   key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓/pgup/pgdn", "scroll")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Narrower: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower window")),
		Wider:    key.NewBinding(key.WithKeys("="), key.WithHelp("=", "wider window")),
		Settings: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "settings")),
		Pick:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick chars")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// forTab lists the bindings shown in the footer of a tab.
func (k keyMap) forTab(tab int) []key.Binding {
	switch tab {
	case tabServer:
		return []key.Binding{k.Prev, k.Next, k.Scroll, k.Reload, k.Quit}
	case tabCharCurves:
		return []key.Binding{k.Prev, k.Next, k.Scroll, k.Pick, k.Narrower, k.Wider, k.Settings, k.Quit}
	}
	return []key.Binding{k.Prev, k.Next, k.Scroll, k.Narrower, k.Wider, k.Settings, k.Quit}
}

var settingsKeys = []key.Binding{
	key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/shift+tab", "next field")),
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
