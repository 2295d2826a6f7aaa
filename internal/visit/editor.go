package visit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/garage/internal/currency"
	"github.com/evcraddock/garage/internal/logging"
	"github.com/evcraddock/garage/internal/record"
	"github.com/evcraddock/garage/internal/vehicle"
)

// API is the subset of the backend client used to persist visits.
type API interface {
	CreateVisit(ctx context.Context, v Visit) (Visit, error)
	UpdateVisit(ctx context.Context, id int64, v Visit) (Visit, error)
}

// CatalogSource lists the services and parts offered for a car segment.
type CatalogSource interface {
	ListServices(ctx context.Context, carSegment string) ([]Service, error)
	ListParts(ctx context.Context, carSegment string) ([]Part, error)
}

type syncer struct {
	api API
}

// NewSyncer adapts api for use by a visit form.
func NewSyncer(api API) record.Syncer[Visit] {
	return syncer{api: api}
}

func (s syncer) Create(ctx context.Context, v Visit) (Visit, error) {
	return s.api.CreateVisit(ctx, v)
}

func (s syncer) Update(ctx context.Context, id int64, v Visit) (Visit, error) {
	return s.api.UpdateVisit(ctx, id, v)
}

// Editor is a visit form together with its line editors and the display
// currency.
type Editor struct {
	*record.Form[Visit]

	Services *LineEditor[Service]
	Parts    *LineEditor[Part]
	Currency *currency.Selector
}

// NewEditor returns an editor over an existing visit, starting in Viewing.
// A nil selector displays prices in the default base currency.
func NewEditor(api API, v Visit, sel *currency.Selector, opts ...record.Option[Visit]) *Editor {
	return newEditor(record.New(Schema(), NewSyncer(api), v, opts...), sel)
}

// NewRegistration returns an editor for creating a visit. When newVehicle is
// a vehicle registered a step earlier, the visit belongs to it and takes its
// car segment.
func NewRegistration(api API, newVehicle *vehicle.Vehicle, seed Visit, sel *currency.Selector, opts ...record.Option[Visit]) *Editor {
	if newVehicle != nil {
		seed.VehicleID = newVehicle.VehicleID
		seed.CarSegment = newVehicle.CarSegment
		opts = append([]record.Option[Visit]{record.WithOwner[Visit](newVehicle.VehicleID)}, opts...)
	}
	if seed.VisitStatus == "" {
		seed.VisitStatus = NotStarted
	}
	if seed.PerformedServices == nil {
		seed.PerformedServices = []Service{}
	}
	if seed.UsedParts == nil {
		seed.UsedParts = []Part{}
	}
	return newEditor(record.NewRegistration(Schema(), NewSyncer(api), seed, opts...), sel)
}

func newEditor(form *record.Form[Visit], sel *currency.Selector) *Editor {
	if sel == nil {
		sel = currency.NewSelector(currency.DefaultBase, nil)
	}
	return &Editor{
		Form:     form,
		Services: newLineEditor(form, serviceLines),
		Parts:    newLineEditor(form, partLines),
		Currency: sel,
	}
}

// LoadCatalogs fetches the service and part catalogs for the visit's car
// segment. On failure the form error is set and both catalogs are left empty.
func (e *Editor) LoadCatalogs(ctx context.Context, src CatalogSource) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.Context(), cancel)
	defer stop()

	segment := e.Working().CarSegment

	var (
		services []Service
		parts    []Part
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		services, err = src.ListServices(gctx, segment)
		if err != nil {
			return fmt.Errorf("loading services: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		parts, err = src.ListParts(gctx, segment)
		if err != nil {
			return fmt.Errorf("loading parts: %w", err)
		}
		return nil
	})
	err := g.Wait()

	if e.Context().Err() != nil {
		return record.ErrClosed
	}
	if err != nil {
		logging.L().Warn("catalog load failed", zap.String("carSegment", segment), zap.Error(err))
		e.Services.SetCatalog(nil)
		e.Parts.SetCatalog(nil)
		e.SetError(record.GenericErrorMessage)
		return err
	}

	e.Services.SetCatalog(services)
	e.Parts.SetCatalog(parts)
	return nil
}

// ChooseCurrency switches the display currency. On failure the form error is
// set and the previous currency stays selected.
func (e *Editor) ChooseCurrency(ctx context.Context, code string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.Context(), cancel)
	defer stop()

	if err := e.Currency.Choose(ctx, code); err != nil {
		if e.Context().Err() != nil {
			return record.ErrClosed
		}
		e.SetError(err.Error())
		return err
	}
	return nil
}

// Cancel discards unsaved changes, clears staged candidates, and returns the
// display currency to the base currency.
func (e *Editor) Cancel() {
	e.Form.Cancel()
	e.Services.Reset()
	e.Parts.Reset()
	e.Currency.Reset()
}

// ServiceLines prices the working copy's services in the selected currency.
func (e *Editor) ServiceLines() []Line {
	return ServiceLines(e.Working(), e.Currency.Current().Rate)
}

// PartLines prices the working copy's parts in the selected currency.
func (e *Editor) PartLines() []Line {
	return PartLines(e.Working(), e.Currency.Current().Rate)
}

// Total prices the working copy in the selected currency.
func (e *Editor) Total() decimal.Decimal {
	return Total(e.Working(), e.Currency.Current().Rate)
}
