package visit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/evcraddock/garage/internal/record"
)

// ErrNotInCatalog is returned when selecting an item the catalog does not offer.
var ErrNotInCatalog = errors.New("not in catalog")

// lineKind binds the line editor to one of the visit's collections.
type lineKind[I any] struct {
	name   string
	id     func(I) int64
	qty    func(I) int
	setQty func(*I, int)
	lines  func(*Visit) *[]I
}

var serviceLines = lineKind[Service]{
	name:   "service",
	id:     func(s Service) int64 { return s.ServiceID },
	qty:    func(s Service) int { return s.ServiceQty },
	setQty: func(s *Service, n int) { s.ServiceQty = n },
	lines:  func(v *Visit) *[]Service { return &v.PerformedServices },
}

var partLines = lineKind[Part]{
	name:   "part",
	id:     func(p Part) int64 { return p.PartID },
	qty:    func(p Part) int { return p.PartQty },
	setQty: func(p *Part, n int) { p.PartQty = n },
	lines:  func(v *Visit) *[]Part { return &v.UsedParts },
}

// LineEditor adds catalog items to one of a visit's line collections and
// changes their quantities. A candidate is staged from the catalog first and
// then added with a quantity.
type LineEditor[I any] struct {
	mu      sync.Mutex
	form    *record.Form[Visit]
	kind    lineKind[I]
	catalog []I
	staged  I
	hasItem bool
}

func newLineEditor[I any](form *record.Form[Visit], kind lineKind[I]) *LineEditor[I] {
	return &LineEditor[I]{form: form, kind: kind}
}

// SetCatalog replaces the items offered for selection.
func (e *LineEditor[I]) SetCatalog(items []I) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = items
}

// Catalog returns the items offered for selection.
func (e *LineEditor[I]) Catalog() []I {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]I, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// SelectCandidate stages the catalog item id with quantity 0. Id 0 is the
// placeholder and clears the staged item.
func (e *LineEditor[I]) SelectCandidate(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == 0 {
		e.clearLocked()
		return nil
	}
	item, ok := lo.Find(e.catalog, func(it I) bool { return e.kind.id(it) == id })
	if !ok {
		return fmt.Errorf("%s %d: %w", e.kind.name, id, ErrNotInCatalog)
	}
	e.kind.setQty(&item, 0)
	e.staged = item
	e.hasItem = true
	return nil
}

// Staged returns the staged candidate, if any.
func (e *LineEditor[I]) Staged() (I, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.staged, e.hasItem
}

// AddToVisit puts the staged candidate with quantity qty at the front of the
// collection and clears the stage. Nothing changes when no candidate is staged,
// qty is not positive, or the form is read-only.
func (e *LineEditor[I]) AddToVisit(qty int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasItem || qty <= 0 {
		return false
	}
	item := e.staged
	e.kind.setQty(&item, qty)

	err := e.form.Apply(func(v *Visit) {
		lines := e.kind.lines(v)
		*lines = append([]I{item}, *lines...)
	})
	if err != nil {
		return false
	}
	e.clearLocked()
	return true
}

// UpdateQuantity sets the quantity of the line with the given id. Other lines
// and the order of the collection are unchanged. It reports whether a line matched.
func (e *LineEditor[I]) UpdateQuantity(id int64, qty int) bool {
	if qty < 0 {
		return false
	}
	matched := false
	err := e.form.Apply(func(v *Visit) {
		lines := *e.kind.lines(v)
		for i := range lines {
			if e.kind.id(lines[i]) == id {
				e.kind.setQty(&lines[i], qty)
				matched = true
			}
		}
	})
	return err == nil && matched
}

// Reset clears the staged candidate.
func (e *LineEditor[I]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

func (e *LineEditor[I]) clearLocked() {
	var zero I
	e.staged = zero
	e.hasItem = false
}
