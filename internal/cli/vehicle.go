package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/client"
	"github.com/evcraddock/garage/internal/record"
	"github.com/evcraddock/garage/internal/ui"
	"github.com/evcraddock/garage/internal/vehicle"
)

func newVehicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Show, edit, and register vehicles",
	}
	cmd.AddCommand(
		newVehicleShowCmd(),
		newVehicleEditCmd(),
		newVehicleRegisterCmd(),
	)
	return cmd
}

func newVehicleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, _, err := newAPIClient()
			if err != nil {
				return err
			}
			v, err := api.GetVehicle(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("getting vehicle: %w", err)
			}
			return outputVehicle(cmd, v)
		},
	}
}

func newVehicleEditCmd() *cobra.Command {
	var (
		sets        []string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a vehicle",
		Long: `Edits a vehicle. Fields are changed with repeated --set field=value flags,
or interactively with -i. Fields: vin, licensePlate, engineType, transmission,
manufacturedYear, manufacturer, modelName, carSegment.`,
		Example: "  garage vehicle edit 42 --set licensePlate='CA 1234 AB' --set transmission=Automatic",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inputs, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			if len(inputs) == 0 && !interactive {
				return fmt.Errorf("nothing to change (use --set field=value or -i)")
			}

			api, _, err := newAPIClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			v, err := api.GetVehicle(ctx, id)
			if err != nil {
				return fmt.Errorf("getting vehicle: %w", err)
			}

			form := vehicle.NewForm(api, v, record.WithContext[vehicle.Vehicle](ctx))
			defer form.Close()
			if err := form.Edit(); err != nil {
				return err
			}
			if err := applyInputs(form, inputs); err != nil {
				return err
			}

			if interactive {
				return ui.Run(form)
			}
			if err := submitForm(ctx, form); err != nil {
				return err
			}
			return outputVehicle(cmd, form.Pristine())
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field (field=value, repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "edit in an interactive form")

	return cmd
}

func newVehicleRegisterCmd() *cobra.Command {
	var (
		customer    int64
		sets        []string
		interactive bool
		thenVisit   bool
		vf          visitFlags
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a vehicle for a customer",
		Long: `Registers a new vehicle owned by --customer. Every field is required.
When the model is in the catalog and has a single car segment, the segment is
filled in automatically.

With --then-visit a visit for the new vehicle is registered next, using
--visit-set, --add-service, and --add-part.`,
		Example: `  garage vehicle register --customer 7 \
    --set vin=1HGCM82633A004352 --set licensePlate='CA 1234 AB' \
    --set engineType=Petrol --set transmission=Manual --set manufacturedYear=2015 \
    --set manufacturer=Honda --set modelName=Civic \
    --then-visit --visit-set notes='Annual service' --add-service 7:1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			api, s, err := newAPIClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var created *vehicle.Vehicle
			form := vehicle.NewRegistration(api, customer,
				record.WithContext[vehicle.Vehicle](ctx),
				record.WithOnCreated(func(v vehicle.Vehicle) { created = &v }),
			)
			defer form.Close()

			if err := applyInputs(form, inputs); err != nil {
				return err
			}
			if err := resolveModel(ctx, api, form); err != nil {
				return err
			}

			if interactive {
				if err := ui.Run(form); err != nil {
					return err
				}
			} else if err := submitForm(ctx, form); err != nil {
				return err
			}
			if created == nil {
				return nil
			}
			if err := outputVehicle(cmd, *created); err != nil {
				return err
			}

			if !thenVisit {
				return nil
			}
			vf.interactive = interactive
			return runVisitRegister(cmd, api, s, created, vf)
		},
	}

	cmd.Flags().Int64Var(&customer, "customer", 0, "ID of the owning customer")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field (field=value, repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "fill in an interactive form")
	cmd.Flags().BoolVar(&thenVisit, "then-visit", false, "register a visit for the new vehicle next")
	cmd.Flags().StringArrayVar(&vf.sets, "visit-set", nil, "set a field of the chained visit (field=value, repeatable)")
	addLineFlags(cmd, &vf)

	return cmd
}

// resolveModel fills the car segment from the model catalog when the user
// named a catalog model but no segment.
func resolveModel(ctx context.Context, api *client.Client, form *record.Form[vehicle.Vehicle]) error {
	v := form.Working()
	if v.CarSegment != "" || v.Manufacturer == "" || v.ModelName == "" {
		return nil
	}
	models, err := api.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}
	if !vehicle.NewCatalog(models).Resolve(&v) || v.CarSegment == "" {
		return nil
	}
	return form.Input(vehicle.FieldCarSegment, v.CarSegment)
}

func outputVehicle(cmd *cobra.Command, v vehicle.Vehicle) error {
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), v)
	}
	printVehicle(cmd.OutOrStdout(), v)
	return nil
}
