package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/client"
	"github.com/evcraddock/garage/internal/currency"
	"github.com/evcraddock/garage/internal/record"
	"github.com/evcraddock/garage/internal/ui"
	"github.com/evcraddock/garage/internal/vehicle"
	"github.com/evcraddock/garage/internal/visit"
)

// visitFlags are the edit flags shared by visit edit, visit register, and
// vehicle register --then-visit.
type visitFlags struct {
	sets        []string
	addService  []string
	addPart     []string
	serviceQty  []string
	partQty     []string
	currency    string
	interactive bool
}

func addLineFlags(cmd *cobra.Command, vf *visitFlags) {
	cmd.Flags().StringArrayVar(&vf.addService, "add-service", nil, "add a catalog service (id:qty, repeatable)")
	cmd.Flags().StringArrayVar(&vf.addPart, "add-part", nil, "add a catalog part (id:qty, repeatable)")
	cmd.Flags().StringVar(&vf.currency, "currency", "", "show prices in this currency")
}

func newVisitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visit",
		Short: "Show, edit, and register service visits",
	}
	cmd.AddCommand(
		newVisitShowCmd(),
		newVisitEditCmd(),
		newVisitRegisterCmd(),
	)
	return cmd
}

func newVisitShowCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a visit with its priced services and parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, s, err := newAPIClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			v, err := api.GetVisit(ctx, id)
			if err != nil {
				return fmt.Errorf("getting visit: %w", err)
			}

			sel, err := newSelector(s, code)
			if err != nil {
				return err
			}
			ed := visit.NewEditor(api, v, sel, record.WithContext[visit.Visit](ctx))
			defer ed.Close()
			chooseCurrency(cmd, ed, code)

			return outputVisit(cmd, ed)
		},
	}

	cmd.Flags().StringVar(&code, "currency", "", "show prices in this currency")

	return cmd
}

func newVisitEditCmd() *cobra.Command {
	var vf visitFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a visit",
		Long: `Edits a visit. Fields are changed with repeated --set field=value flags
(notes, visitStatus, visitStart, visitEnd). Catalog services and parts are
added with --add-service/--add-part id:qty and existing lines are changed with
--service-qty/--part-qty id:qty. New lines are listed first.`,
		Example: "  garage visit edit 12 --set visitStatus='in progress' --add-part 3:4 --service-qty 7:2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !vf.hasEdits() && !vf.interactive {
				return fmt.Errorf("nothing to change (use --set, --add-service, --add-part, --service-qty, --part-qty, or -i)")
			}

			api, s, err := newAPIClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			v, err := api.GetVisit(ctx, id)
			if err != nil {
				return fmt.Errorf("getting visit: %w", err)
			}

			sel, err := newSelector(s, vf.currency)
			if err != nil {
				return err
			}
			ed := visit.NewEditor(api, v, sel, record.WithContext[visit.Visit](ctx))
			defer ed.Close()
			if err := ed.Edit(); err != nil {
				return err
			}
			return finishVisit(cmd, api, ed, vf)
		},
	}

	cmd.Flags().StringArrayVar(&vf.sets, "set", nil, "set a field (field=value, repeatable)")
	cmd.Flags().StringArrayVar(&vf.serviceQty, "service-qty", nil, "change the quantity of a service line (id:qty, repeatable)")
	cmd.Flags().StringArrayVar(&vf.partQty, "part-qty", nil, "change the quantity of a part line (id:qty, repeatable)")
	cmd.Flags().BoolVarP(&vf.interactive, "interactive", "i", false, "edit in an interactive form")
	addLineFlags(cmd, &vf)

	return cmd
}

func newVisitRegisterCmd() *cobra.Command {
	var (
		vehicleID int64
		vf        visitFlags
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a visit for a vehicle",
		Long: `Registers a new visit for --vehicle. Notes are required; the status
defaults to "not started" and the car segment is taken from the vehicle.`,
		Example: "  garage visit register --vehicle 42 --set notes='Brakes squeak' --add-service 7:1 --add-part 3:4",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vehicleID <= 0 {
				return fmt.Errorf("--vehicle is required")
			}
			api, s, err := newAPIClient()
			if err != nil {
				return err
			}
			owner, err := api.GetVehicle(cmd.Context(), vehicleID)
			if err != nil {
				return fmt.Errorf("getting vehicle: %w", err)
			}
			return runVisitRegister(cmd, api, s, &owner, vf)
		},
	}

	cmd.Flags().Int64Var(&vehicleID, "vehicle", 0, "ID of the vehicle being serviced")
	cmd.Flags().StringArrayVar(&vf.sets, "set", nil, "set a field (field=value, repeatable)")
	cmd.Flags().BoolVarP(&vf.interactive, "interactive", "i", false, "fill in an interactive form")
	addLineFlags(cmd, &vf)

	return cmd
}

// runVisitRegister registers a visit for owner, which may be a vehicle
// created a step earlier.
func runVisitRegister(cmd *cobra.Command, api *client.Client, s settings, owner *vehicle.Vehicle, vf visitFlags) error {
	sel, err := newSelector(s, vf.currency)
	if err != nil {
		return err
	}
	ed := visit.NewRegistration(api, owner, visit.Visit{}, sel, record.WithContext[visit.Visit](cmd.Context()))
	defer ed.Close()
	return finishVisit(cmd, api, ed, vf)
}

// finishVisit applies the flag edits to an editable visit and saves it, or
// hands it to the interactive form.
func finishVisit(cmd *cobra.Command, api *client.Client, ed *visit.Editor, vf visitFlags) error {
	ctx := cmd.Context()
	if err := applyVisitEdits(ctx, api, ed, vf); err != nil {
		return err
	}
	chooseCurrency(cmd, ed, vf.currency)

	if vf.interactive {
		return ui.Run(ed.Form,
			ui.WithFooter(func(visit.Visit) string { return linesSummary(ed) }),
			ui.WithCancel[visit.Visit](ed.Cancel),
		)
	}
	if err := submitForm(ctx, ed.Form); err != nil {
		return err
	}
	return outputVisit(cmd, ed)
}

func (vf visitFlags) hasEdits() bool {
	return len(vf.sets)+len(vf.addService)+len(vf.addPart)+len(vf.serviceQty)+len(vf.partQty) > 0
}

// applyVisitEdits feeds field inputs and line operations to the editor.
// Catalogs are loaded only when lines are added.
func applyVisitEdits(ctx context.Context, src visit.CatalogSource, ed *visit.Editor, vf visitFlags) error {
	inputs, err := parseAssignments(vf.sets)
	if err != nil {
		return err
	}
	addServices, err := parseLineOps("add-service", vf.addService)
	if err != nil {
		return err
	}
	addParts, err := parseLineOps("add-part", vf.addPart)
	if err != nil {
		return err
	}
	serviceQty, err := parseLineOps("service-qty", vf.serviceQty)
	if err != nil {
		return err
	}
	partQty, err := parseLineOps("part-qty", vf.partQty)
	if err != nil {
		return err
	}

	if err := applyInputs(ed.Form, inputs); err != nil {
		return err
	}

	if len(addServices)+len(addParts) > 0 {
		if err := ed.LoadCatalogs(ctx, src); err != nil {
			return fmt.Errorf("%s (%w)", ed.Error(), err)
		}
	}
	for _, op := range addServices {
		if err := addLine(ed.Services, op); err != nil {
			return fmt.Errorf("--add-service: %w", err)
		}
	}
	for _, op := range addParts {
		if err := addLine(ed.Parts, op); err != nil {
			return fmt.Errorf("--add-part: %w", err)
		}
	}
	for _, op := range serviceQty {
		if !ed.Services.UpdateQuantity(op.id, op.qty) {
			return fmt.Errorf("--service-qty: service %d is not on this visit", op.id)
		}
	}
	for _, op := range partQty {
		if !ed.Parts.UpdateQuantity(op.id, op.qty) {
			return fmt.Errorf("--part-qty: part %d is not on this visit", op.id)
		}
	}
	return nil
}

func addLine[I any](lines *visit.LineEditor[I], op lineOp) error {
	if err := lines.SelectCandidate(op.id); err != nil {
		return err
	}
	if !lines.AddToVisit(op.qty) {
		lines.Reset()
		return fmt.Errorf("item %d: quantity must be positive", op.id)
	}
	return nil
}

// newSelector builds the display currency holder. The rate service is only
// needed when a foreign currency is requested.
func newSelector(s settings, code string) (*currency.Selector, error) {
	code = strings.ToUpper(code)
	if code != "" && code != s.BaseCurrency && !slices.Contains(s.Currencies, code) {
		return nil, fmt.Errorf("unknown currency %q (available: %s)", code, strings.Join(s.Currencies, ", "))
	}

	var source currency.RateSource
	if c, err := currency.NewClient(s.CurrencyURL, s.CurrencyAPIKey); err == nil {
		source = c
	}
	return currency.NewSelector(s.BaseCurrency, source), nil
}

// chooseCurrency switches the display currency. A failed lookup is reported
// and prices stay in the previous currency.
func chooseCurrency(cmd *cobra.Command, ed *visit.Editor, code string) {
	if code == "" {
		return
	}
	if err := ed.ChooseCurrency(cmd.Context(), strings.ToUpper(code)); err != nil {
		if errors.Is(err, record.ErrClosed) {
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", ed.Error())
		ed.SetError("")
	}
}

type visitOutput struct {
	visit.Visit
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Total    decimal.Decimal `json:"total"`
}

func outputVisit(cmd *cobra.Command, ed *visit.Editor) error {
	if isJSON() {
		sel := ed.Currency.Current()
		return printJSON(cmd.OutOrStdout(), visitOutput{
			Visit:    ed.Working(),
			Currency: sel.Code,
			Rate:     sel.Rate,
			Total:    ed.Total(),
		})
	}
	return printVisit(cmd.OutOrStdout(), ed)
}
