package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/garage/internal/vehicle"
	"github.com/evcraddock/garage/internal/visit"
)

// printVehicle prints a single vehicle in text format.
func printVehicle(w io.Writer, v vehicle.Vehicle) {
	fmt.Fprintf(w, "Vehicle #%d\n", v.VehicleID)
	fmt.Fprintf(w, "  VIN:          %s\n", v.VIN)
	fmt.Fprintf(w, "  Plate:        %s\n", v.LicensePlate)
	fmt.Fprintf(w, "  Make/model:   %s %s (%d)\n", v.Manufacturer, v.ModelName, v.ManufacturedYear)
	fmt.Fprintf(w, "  Segment:      %s\n", v.CarSegment)
	fmt.Fprintf(w, "  Engine:       %s, %s\n", v.EngineType, v.Transmission)
	if v.FullName != "" {
		owner := v.FullName
		if v.CompanyName != "" {
			owner += ", " + v.CompanyName
		}
		fmt.Fprintf(w, "  Owner:        %s <%s> (#%d)\n", owner, v.Email, v.UserID)
	}
}

// printModels prints the model catalog as a table.
func printModels(w io.Writer, models []vehicle.Model) error {
	if len(models) == 0 {
		fmt.Fprintln(w, "No models found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tMANUFACTURER\tMODEL\tSEGMENT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, m := range models {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ModelID, m.Manufacturer, m.ModelName, m.CarSegment); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return tw.Flush()
}

// printVisit prints a visit with its priced lines in the editor's currency.
func printVisit(w io.Writer, ed *visit.Editor) error {
	v := ed.Working()
	code := ed.Currency.Current().Code

	fmt.Fprintf(w, "Visit #%d (vehicle #%d, segment %s)\n", v.VisitID, v.VehicleID, v.CarSegment)
	fmt.Fprintf(w, "  Status: %s\n", v.VisitStatus)
	if v.VisitStart != "" || v.VisitEnd != "" {
		fmt.Fprintf(w, "  Dates:  %s - %s\n", dash(v.VisitStart), dash(v.VisitEnd))
	}
	fmt.Fprintf(w, "  Notes:  %s\n", v.Notes)

	if err := printLines(w, "Services", ed.ServiceLines(), code); err != nil {
		return err
	}
	if err := printLines(w, "Parts", ed.PartLines(), code); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %s %s\n", ed.Total().StringFixed(2), code)
	return nil
}

// linesSummary renders priced lines for the interactive form footer.
func linesSummary(ed *visit.Editor) string {
	var b strings.Builder
	code := ed.Currency.Current().Code
	_ = printLines(&b, "Services", ed.ServiceLines(), code)
	_ = printLines(&b, "Parts", ed.PartLines(), code)
	fmt.Fprintf(&b, "\nTotal: %s %s", ed.Total().StringFixed(2), code)
	return b.String()
}

func printLines(w io.Writer, title string, lines []visit.Line, code string) error {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(lines) == 0 {
		fmt.Fprintln(w, "  none")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "  ID\tNAME\tQTY\tPRICE (%s)\tAMOUNT (%s)\n", code, code); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\t%s\n",
			l.ID, truncate(l.Name, 32), l.Qty, l.UnitPrice.StringFixed(2), l.Amount.StringFixed(2)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
