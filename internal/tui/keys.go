package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Sort     key.Binding
	Copy     key.Binding
	Logs     key.Binding
	Events   key.Binding
	YAML     key.Binding
	Previous key.Binding
	Wrap     key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	TabNext  key.Binding
	Quit     key.Binding

	// Rollout actions
	Restart     key.Binding
	Retry       key.Binding
	Abort       key.Binding
	Promote     key.Binding
	PromoteFull key.Binding
	SetImage    key.Binding
	Undo        key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "monter")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "descendre")),
	Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "début")),
	Bottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "fin")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("C-u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("C-d", "page dn")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sélectionner")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "retour")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filtre")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r", "f5"), key.WithHelp("C-r", "refresh")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "tri")),
	Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copier nom")),
	Logs:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
	Events:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "events")),
	YAML:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yaml")),
	Previous: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "logs précédents")),
	Wrap:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wrap")),
	Tab1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "namespaces")),
	Tab2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "rollouts")),
	Tab3:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "rollout")),
	Tab4:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "events")),
	TabNext:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "vue suivante")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quitter")),

	Restart:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart")),
	Retry:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "retry")),
	Abort:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "abort")),
	Promote:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "promote")),
	PromoteFull: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "promote full")),
	SetImage:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "set image")),
	Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
}
