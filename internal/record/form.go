package record

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/logging"
)

// Syncer persists records of type T to the backend.
type Syncer[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id int64, entity T) (T, error)
}

// Option configures a Form.
type Option[T any] func(*Form[T])

// WithOwner supplies an owner id from outside the record, such as a customer
// registered a step earlier. It takes precedence over the record's own owner field.
func WithOwner[T any](id int64) Option[T] {
	return func(f *Form[T]) { f.owner = id }
}

// WithOnCreated registers a callback invoked with the server-confirmed record
// after a successful create.
func WithOnCreated[T any](fn func(T)) Option[T] {
	return func(f *Form[T]) { f.onCreated = fn }
}

// WithContext ties the form lifetime to parent. Canceling parent has the same
// effect as Close.
func WithContext[T any](parent context.Context) Option[T] {
	return func(f *Form[T]) { f.parent = parent }
}

// Form is an editable record: a state holder, its field error map, and the
// mode that gates input and submission. Form is safe for concurrent use.
type Form[T any] struct {
	mu sync.Mutex

	schema *Schema[T]
	syncer Syncer[T]
	state  *State[T]
	errs   Errors
	mode   Mode
	err    string

	owner     int64
	onCreated func(T)

	parent context.Context
	life   context.Context
	close  context.CancelFunc
}

// New returns a form over an existing record, starting in Viewing.
func New[T any](schema *Schema[T], syncer Syncer[T], initial T, opts ...Option[T]) *Form[T] {
	return newForm(schema, syncer, initial, Viewing, opts)
}

// NewRegistration returns a form for creating a record from seed, starting in Registering.
func NewRegistration[T any](schema *Schema[T], syncer Syncer[T], seed T, opts ...Option[T]) *Form[T] {
	return newForm(schema, syncer, seed, Registering, opts)
}

func newForm[T any](schema *Schema[T], syncer Syncer[T], initial T, mode Mode, opts []Option[T]) *Form[T] {
	f := &Form[T]{
		schema: schema,
		syncer: syncer,
		state:  NewState(schema, initial),
		errs:   schema.emptyErrors(),
		mode:   mode,
		parent: context.Background(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.life, f.close = context.WithCancel(f.parent)
	return f
}

// Schema returns the form's schema.
func (f *Form[T]) Schema() *Schema[T] { return f.schema }

// Mode returns the current mode.
func (f *Form[T]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Working returns a copy of the working copy.
func (f *Form[T]) Working() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Get()
}

// Pristine returns a copy of the last confirmed record.
func (f *Form[T]) Pristine() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Pristine()
}

// Dirty reports whether the working copy has unsaved changes.
func (f *Form[T]) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Dirty()
}

// Errors returns a copy of the field error map.
func (f *Form[T]) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs.clone()
}

// Error returns the form-level error message, "" when there is none.
func (f *Form[T]) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// SetError sets the form-level error message. Collaborators such as catalog
// loaders and currency lookups report their failures here.
func (f *Form[T]) SetError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = msg
}

// Edit moves the form from Viewing to Editing. A record the server has not
// confirmed yet cannot be edited.
func (f *Form[T]) Edit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != Viewing {
		return fmt.Errorf("%s: %w (%s)", f.schema.entity, ErrNotViewing, f.mode)
	}
	if f.schema.Identity(f.state.pristine) == 0 {
		return fmt.Errorf("%s: %w", f.schema.entity, ErrNotCreated)
	}
	f.mode = Editing
	return nil
}

// Input records user input for one field: the field is validated and the
// working copy updated. If the value cannot be stored in the field's type the
// validation message is kept and the working copy is left unchanged.
func (f *Form[T]) Input(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.mode.Editable() {
		return ErrReadOnly
	}
	field, err := f.schema.Field(name)
	if err != nil {
		return err
	}

	msg := field.Validate(value)
	f.errs[name] = msg
	if err := f.state.Set(name, value); err != nil {
		if msg == "" {
			f.errs[name] = err.Error()
		}
		logging.L().Debug("field not stored",
			zap.String("entity", f.schema.entity),
			zap.String("field", name),
			zap.Error(err),
		)
	}
	return nil
}

// Apply mutates the working copy directly. It is used by sub-editors that
// manage nested collections.
func (f *Form[T]) Apply(fn func(*T)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.mode.Editable() {
		return ErrReadOnly
	}
	f.state.Apply(fn)
	return nil
}

// Valid reports whether Submit would be allowed.
func (f *Form[T]) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validLocked()
}

func (f *Form[T]) validLocked() bool {
	if !f.errs.Valid() {
		return false
	}
	if f.mode != Registering {
		return true
	}

	working := f.state.working
	for _, field := range f.schema.fields {
		if field.Required && !Truthy(field.Get(working)) {
			return false
		}
	}
	if f.schema.ownerOf != nil && f.ownerLocked() == 0 {
		return false
	}
	return true
}

func (f *Form[T]) ownerLocked() int64 {
	if f.owner != 0 {
		return f.owner
	}
	if f.schema.ownerOf == nil {
		return 0
	}
	return f.schema.ownerOf(f.state.working)
}

// Cancel discards unsaved changes: the working copy is restored from the
// pristine copy and field and form errors are cleared. An edit returns to
// Viewing; a registration starts over from its seed and stays Registering.
func (f *Form[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Reset()
	f.errs = f.schema.emptyErrors()
	f.err = ""
	if f.mode != Registering {
		f.mode = Viewing
	}
}

// Submit persists the working copy: a create while Registering, an update
// while Editing. On success the server record becomes the pristine copy and
// the form returns to Viewing. On a server rejection Error returns the server
// message and nothing else changes.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.mode.Editable() {
		f.mu.Unlock()
		return ErrReadOnly
	}
	if f.life.Err() != nil {
		f.mu.Unlock()
		return ErrClosed
	}
	if !f.validLocked() {
		f.mu.Unlock()
		return ErrInvalid
	}
	f.err = ""
	mode := f.mode
	entity := f.state.Get()
	if mode == Registering && f.schema.setOwner != nil {
		f.schema.setOwner(&entity, f.ownerLocked())
	}
	f.mu.Unlock()

	log := logging.L().With(
		zap.String("entity", f.schema.entity),
		zap.Stringer("mode", mode),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(f.life, cancel)
	defer stop()

	var (
		saved T
		err   error
	)
	if mode == Registering {
		saved, err = f.syncer.Create(ctx, entity)
	} else {
		saved, err = f.syncer.Update(ctx, f.schema.Identity(entity), entity)
	}

	f.mu.Lock()
	if f.life.Err() != nil {
		f.mu.Unlock()
		log.Debug("discarding response for closed form")
		return ErrClosed
	}

	if err != nil {
		var rej Rejection
		if errors.As(err, &rej) {
			f.err = rej.Rejection()
		} else {
			f.err = GenericErrorMessage
		}
		f.mu.Unlock()
		log.Debug("submit failed", zap.Error(err))
		return err
	}

	// Servers that answer an update without echoing the record confirm what was sent.
	if f.schema.Identity(saved) == 0 && mode == Editing {
		saved = entity
	}
	f.state.Commit(saved)
	f.errs = f.schema.emptyErrors()
	f.mode = Viewing
	onCreated := f.onCreated
	f.mu.Unlock()

	log.Debug("submit succeeded", zap.Int64("id", f.schema.Identity(saved)))

	if mode == Registering && onCreated != nil {
		onCreated(f.schema.Clone(saved))
	}
	return nil
}

// Close ends the form's lifetime. In-flight requests are canceled and their
// responses discarded.
func (f *Form[T]) Close() {
	f.close()
}

// Done is closed when the form's lifetime ends.
func (f *Form[T]) Done() <-chan struct{} {
	return f.life.Done()
}

// Context returns the form's lifetime context for collaborators that issue
// their own requests on the form's behalf.
func (f *Form[T]) Context() context.Context {
	return f.life
}
