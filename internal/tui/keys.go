package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Top, Bottom key.Binding
	Fold, Edit, Due       key.Binding
	Status, Child, Todo   key.Binding
	Answer, Delete, Root  key.Binding
	Export, Reload        key.Binding
	Help, Quit            key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Fold:   key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "fold/check")),
		Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Due:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "due date")),
		Status: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Child:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "add child")),
		Todo:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "add to-resolve")),
		Answer: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "answer")),
		Delete: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Root:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new question")),
		Export: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "export markdown")),
		Reload: key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fold, k.Edit, k.Child, k.Todo, k.Answer, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Fold, k.Edit, k.Due, k.Status},
		{k.Child, k.Todo, k.Answer, k.Delete},
		{k.Root, k.Export, k.Reload, k.Quit},
	}
}
