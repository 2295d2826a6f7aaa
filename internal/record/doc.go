// Package record implements the editable record form shared by every entity
// the garage client edits.
//
// A Form holds two copies of one entity: the working copy the user edits and
// the pristine copy last confirmed by the server. Field input runs through a
// closed set of per-field validators declared by a Schema. A single Mode value
// (Viewing, Editing, Registering) decides whether input is accepted and which
// remote call Submit issues.
//
// # Lifecycle
//
//	form := record.New(vehicle.Schema(), syncer, v)
//	defer form.Close()
//
//	if err := form.Edit(); err != nil { ... }
//	_ = form.Input("licensePlate", "CA 1234 AB")
//	if err := form.Submit(ctx); err != nil {
//	    fmt.Println(form.Error())
//	}
//
// Submit never issues a request for an invalid form. A server-side rejection
// leaves both copies and the mode untouched and surfaces the server message via
// Error. Close cancels the form's lifetime context; responses that arrive after
// Close are discarded.
package record
