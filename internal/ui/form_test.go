package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/garage/internal/record"
)

type pet struct {
	ID   int64
	Name string
	Kind string
}

var petSchema = record.NewSchema("pet", nil, func(p pet) int64 { return p.ID },
	record.Field[pet]{
		Name:     "name",
		Label:    "Name",
		Required: true,
		Validate: func(v string) string {
			if v == "" {
				return "Name is required"
			}
			return ""
		},
		Get: func(p pet) string { return p.Name },
		Set: func(p *pet, v string) error { p.Name = v; return nil },
	},
	record.Field[pet]{
		Name:     "kind",
		Label:    "Kind",
		Validate: func(string) string { return "" },
		Get:      func(p pet) string { return p.Kind },
		Set:      func(p *pet, v string) error { p.Kind = v; return nil },
	},
)

type fakeSyncer struct {
	created []pet
	updated []pet
	err     error
}

func (s *fakeSyncer) Create(ctx context.Context, p pet) (pet, error) {
	if s.err != nil {
		return pet{}, s.err
	}
	s.created = append(s.created, p)
	p.ID = 7
	return p, nil
}

func (s *fakeSyncer) Update(ctx context.Context, id int64, p pet) (pet, error) {
	if s.err != nil {
		return pet{}, s.err
	}
	s.updated = append(s.updated, p)
	return p, nil
}

type rejection string

func (r rejection) Error() string     { return string(r) }
func (r rejection) Rejection() string { return string(r) }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs any resulting submit command synchronously.
func press(t *testing.T, m *FormModel[pet], msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	if res, ok := cmd().(submittedMsg); ok {
		_, cmd = m.Update(res)
	}
	return cmd
}

func TestEditTypeAndSave(t *testing.T) {
	syncer := &fakeSyncer{}
	form := record.New(petSchema, syncer, pet{ID: 3, Name: "Rex", Kind: "dog"})
	m := New(form)

	press(t, m, runes("e"))
	require.Equal(t, record.Editing, form.Mode())

	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	press(t, m, runes("!"))
	assert.Equal(t, "dog!", form.Working().Kind)

	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, syncer.updated, 1)
	assert.Equal(t, "dog!", syncer.updated[0].Kind)
	assert.Equal(t, record.Viewing, form.Mode())
	assert.Equal(t, "Saved", m.Status())
}

func TestQInEditModeIsTyped(t *testing.T) {
	form := record.NewRegistration(petSchema, &fakeSyncer{}, pet{})
	m := New(form)

	press(t, m, runes("q"))
	assert.Equal(t, "q", form.Working().Name)
	select {
	case <-form.Done():
		t.Fatal("form closed while typing")
	default:
	}
}

func TestSubmitBlockedWhenInvalid(t *testing.T) {
	syncer := &fakeSyncer{}
	form := record.NewRegistration(petSchema, syncer, pet{})
	m := New(form)

	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Empty(t, syncer.created)
	assert.Equal(t, record.Registering, form.Mode())
	assert.NotEmpty(t, m.Status())
}

func TestRegisterShowsServerRejection(t *testing.T) {
	syncer := &fakeSyncer{err: rejection("Name already taken")}
	form := record.NewRegistration(petSchema, syncer, pet{})
	m := New(form)

	press(t, m, runes("Tom"))
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, "Name already taken", form.Error())
	assert.Equal(t, record.Registering, form.Mode())
	assert.Contains(t, m.View(), "Name already taken")
}

func TestEscCancels(t *testing.T) {
	form := record.New(petSchema, &fakeSyncer{}, pet{ID: 3, Name: "Rex"})
	m := New(form)

	press(t, m, runes("e"))
	press(t, m, runes("y"))
	require.Equal(t, "Rexy", form.Working().Name)

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "Rex", form.Working().Name)
	assert.Equal(t, record.Viewing, form.Mode())
	assert.Equal(t, "Rex", m.inputs[0].Value())
}

func TestEscIgnoredWhileSaving(t *testing.T) {
	syncer := &fakeSyncer{}
	form := record.New(petSchema, syncer, pet{ID: 3, Name: "Rex"})
	m := New(form)

	press(t, m, runes("e"))
	press(t, m, runes("y"))

	_, save := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, save)

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "Rexy", form.Working().Name)
	assert.Equal(t, record.Editing, form.Mode())

	m.Update(save())
	require.Len(t, syncer.updated, 1)
	assert.Equal(t, "Rexy", form.Pristine().Name)
	assert.Equal(t, "Saved", m.Status())
}

func TestEscRestartsRegistration(t *testing.T) {
	syncer := &fakeSyncer{}
	form := record.NewRegistration(petSchema, syncer, pet{})
	m := New(form)

	press(t, m, runes("Tom"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, record.Registering, form.Mode())
	assert.Empty(t, form.Working().Name)
	assert.Empty(t, m.inputs[0].Value())

	press(t, m, runes("Kit"))
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, syncer.created, 1)
	assert.Empty(t, syncer.updated)
	assert.Equal(t, "Kit", syncer.created[0].Name)
}

func TestCustomCancel(t *testing.T) {
	form := record.New(petSchema, &fakeSyncer{}, pet{ID: 3, Name: "Rex"})
	called := false
	m := New(form, WithCancel[pet](func() {
		called = true
		form.Cancel()
	}))

	press(t, m, runes("e"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, called)
}

func TestQuitClosesForm(t *testing.T) {
	form := record.New(petSchema, &fakeSyncer{}, pet{ID: 3, Name: "Rex"})
	m := New(form)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)

	select {
	case <-form.Done():
	default:
		t.Fatal("expected form closed")
	}
}

func TestSubmitAfterCloseQuits(t *testing.T) {
	form := record.New(petSchema, &fakeSyncer{}, pet{ID: 3, Name: "Rex"})
	m := New(form)
	press(t, m, runes("e"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	form.Close()

	res := cmd().(submittedMsg)
	assert.True(t, errors.Is(res.err, record.ErrClosed))
	_, cmd = m.Update(res)
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestViewShowsFieldErrorsAndFooter(t *testing.T) {
	form := record.New(petSchema, &fakeSyncer{}, pet{ID: 3, Name: "Rex", Kind: "dog"})
	m := New(form, WithFooter(func(p pet) string { return "kind: " + strings.ToUpper(p.Kind) }))

	press(t, m, runes("e"))
	for range "Rex" {
		press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}

	view := m.View()
	assert.Contains(t, view, "Name is required")
	assert.Contains(t, view, "kind: DOG")
	assert.Contains(t, view, "editing")
}
