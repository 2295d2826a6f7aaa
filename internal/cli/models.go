package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/vehicle"
)

func newModelsCmd() *cobra.Command {
	var (
		manufacturer string
		model        string
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Browse the vehicle model catalog",
		Long: `Lists the model catalog. With --manufacturer the models offered by that
manufacturer are listed; adding --model lists the car segments of that model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := newAPIClient()
			if err != nil {
				return err
			}
			models, err := api.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing models: %w", err)
			}
			cat := vehicle.NewCatalog(models)
			out := cmd.OutOrStdout()

			var choices []string
			switch {
			case manufacturer == "" && model == "":
				if isJSON() {
					return printJSON(out, models)
				}
				return printModels(out, models)
			case model == "":
				choices = cat.Models(manufacturer)
			case manufacturer == "":
				choices = cat.Segments(model)
			default:
				if _, ok := cat.Lookup(manufacturer, model); !ok {
					return fmt.Errorf("no model %q from %q in the catalog", model, manufacturer)
				}
				choices = cat.Segments(model)
			}

			if isJSON() {
				return printJSON(out, choices)
			}
			if len(choices) == 0 {
				fmt.Fprintln(out, "No matches. Manufacturers: "+strings.Join(cat.Manufacturers(), ", "))
				return nil
			}
			for _, c := range choices {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manufacturer, "manufacturer", "", "list the models of this manufacturer")
	cmd.Flags().StringVar(&model, "model", "", "list the car segments of this model")

	return cmd
}
