package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the picker key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Resume     key.Binding
	ForkResume key.Binding
	DrillIn    key.Binding
	Back       key.Binding

	Filter     key.Binding
	FullText   key.Binding
	NormalMode key.Binding

	Escape key.Binding
	Quit   key.Binding
}

// ShortHelp is the binding subset rendered in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Resume, k.ForkResume, k.DrillIn, k.Filter, k.FullText, k.Quit,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Resume, k.ForkResume, k.DrillIn, k.Back},
		{k.Filter, k.FullText, k.NormalMode, k.Escape, k.Quit},
	}
}

func NewKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Resume: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume"),
		),
		ForkResume: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "fork"),
		),
		DrillIn: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "forks"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "back"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		FullText: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "search"),
		),
		NormalMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back/exit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
