// Package ui renders an editable record as an interactive terminal form.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evcraddock/garage/internal/record"
)

type keyMap struct {
	Edit   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Next, k.Submit, k.Cancel, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Edit, k.Next, k.Prev},
		{k.Submit, k.Cancel, k.Quit},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// submittedMsg carries the outcome of an asynchronous submit.
type submittedMsg struct {
	err error
}

// Option configures a FormModel.
type Option[T any] func(*FormModel[T])

// WithFooter renders extra content below the fields, such as priced line items.
func WithFooter[T any](fn func(T) string) Option[T] {
	return func(m *FormModel[T]) { m.footer = fn }
}

// WithCancel replaces the form's own Cancel, for editors that reset more
// state than the form holds.
func WithCancel[T any](fn func()) Option[T] {
	return func(m *FormModel[T]) { m.cancel = fn }
}

// FormModel is a bubbletea model over a record.Form. Every keystroke in a
// field is passed to the form as input, so field errors update as the user types.
type FormModel[T any] struct {
	form   *record.Form[T]
	fields []record.Field[T]
	inputs []textinput.Model
	focus  int

	keys keyMap
	help help.Model

	submitting bool
	status     string
	footer     func(T) string
	cancel     func()
}

// New returns a model over form. Closing the program closes the form.
func New[T any](form *record.Form[T], opts ...Option[T]) *FormModel[T] {
	m := &FormModel[T]{
		form:   form,
		fields: form.Schema().Fields(),
		keys:   defaultKeys(),
		help:   help.New(),
		cancel: form.Cancel,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		in := textinput.New()
		in.Placeholder = f.Label
		in.CharLimit = 500
		in.Width = 40
		m.inputs[i] = in
	}
	m.reload()
	if form.Mode().Editable() {
		m.focusField(0)
	}
	return m
}

// Init implements tea.Model.
func (m *FormModel[T]) Init() tea.Cmd {
	if m.form.Mode().Editable() {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model.
func (m *FormModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		return m.submitted(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *FormModel[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editable := m.form.Mode().Editable()

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, m.keys.Quit) && !editable:
		m.form.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit) && !editable:
		if err := m.form.Edit(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		return m, m.focusField(0)
	}

	if !editable {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.focusField((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keys.Prev):
		return m, m.focusField((m.focus - 1 + len(m.inputs)) % len(m.inputs))
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	}

	if m.submitting {
		return m, nil
	}

	if key.Matches(msg, m.keys.Cancel) {
		m.cancel()
		m.status = ""
		m.reload()
		if m.form.Mode().Editable() {
			return m, m.focusField(0)
		}
		m.blurAll()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if value := m.inputs[m.focus].Value(); value != before {
		if err := m.form.Input(m.fields[m.focus].Name, value); err != nil {
			m.status = err.Error()
		}
	}
	return m, cmd
}

// submit starts an asynchronous submit bound to the form's lifetime.
func (m *FormModel[T]) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	if !m.form.Valid() {
		m.status = "Fix the highlighted fields before saving"
		return nil
	}
	m.submitting = true
	m.status = "Saving..."
	form := m.form
	return func() tea.Msg {
		return submittedMsg{err: form.Submit(form.Context())}
	}
}

func (m *FormModel[T]) submitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	switch {
	case errors.Is(msg.err, record.ErrClosed):
		return m, tea.Quit
	case msg.err != nil:
		// The form keeps the server's message; it is shown below the fields.
		m.status = ""
		return m, nil
	}
	m.status = "Saved"
	m.reload()
	m.blurAll()
	return m, nil
}

// View implements tea.Model.
func (m *FormModel[T]) View() string {
	var b strings.Builder

	title := titleStyle.Render(strings.ToUpper(m.form.Schema().Entity()))
	b.WriteString(title + "  " + modeStyle.Render(m.form.Mode().String()) + "\n")

	errs := m.form.Errors()
	editable := m.form.Mode().Editable()
	for i, f := range m.fields {
		label := labelStyle
		if editable && i == m.focus {
			label = focusedLabelStyle
		}
		value := m.inputs[i].Value()
		if editable {
			value = m.inputs[i].View()
		}
		fmt.Fprintf(&b, "%s %s\n", label.Render(f.Label), value)
		if msg := errs[f.Name]; msg != "" {
			b.WriteString(fieldErrorStyle.Render(msg) + "\n")
		}
	}

	if m.footer != nil {
		b.WriteString(footerStyle.Render(m.footer(m.form.Working())) + "\n")
	}
	if msg := m.form.Error(); msg != "" {
		b.WriteString(formErrorStyle.Render(msg) + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

// Status returns the transient status line.
func (m *FormModel[T]) Status() string { return m.status }

// reload copies the form's working values into the inputs.
func (m *FormModel[T]) reload() {
	working := m.form.Working()
	for i, f := range m.fields {
		m.inputs[i].SetValue(f.Get(working))
		m.inputs[i].CursorEnd()
	}
}

func (m *FormModel[T]) focusField(i int) tea.Cmd {
	m.blurAll()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *FormModel[T]) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// Run runs an interactive program over form until the user quits.
func Run[T any](form *record.Form[T], opts ...Option[T]) error {
	defer form.Close()
	if _, err := tea.NewProgram(New(form, opts...)).Run(); err != nil {
		return fmt.Errorf("running form: %w", err)
	}
	return nil
}
