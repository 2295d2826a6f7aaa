package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/logging"
	"github.com/evcraddock/garage/internal/record"
	"github.com/evcraddock/garage/internal/session"
)

// assignment is one --set field=value flag.
type assignment struct {
	field string
	value string
}

// lineOp is one id:qty flag.
type lineOp struct {
	id  int64
	qty int
}

// parseID parses a positive record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}

func parseAssignments(values []string) ([]assignment, error) {
	out := make([]assignment, 0, len(values))
	for _, v := range values {
		field, value, ok := strings.Cut(v, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --set %q (want field=value)", v)
		}
		out = append(out, assignment{field: strings.TrimSpace(field), value: value})
	}
	return out, nil
}

func parseLineOps(flag string, values []string) ([]lineOp, error) {
	out := make([]lineOp, 0, len(values))
	for _, v := range values {
		idStr, qtyStr, ok := strings.Cut(v, ":")
		if !ok {
			qtyStr = "1"
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q (want id:qty)", flag, v)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q (want id:qty)", flag, v)
		}
		out = append(out, lineOp{id: id, qty: qty})
	}
	return out, nil
}

// applyInputs feeds each assignment to the form as user input.
func applyInputs[T any](form *record.Form[T], inputs []assignment) error {
	for _, in := range inputs {
		if err := form.Input(in.field, in.value); err != nil {
			return fmt.Errorf("%w (fields: %s)", err, strings.Join(form.Schema().Names(), ", "))
		}
	}
	return nil
}

// submitForm submits the form and turns its outcome into a command error:
// field problems are listed, and a server rejection is reported verbatim.
func submitForm[T any](ctx context.Context, form *record.Form[T]) error {
	err := form.Submit(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, record.ErrInvalid):
		return invalidError(form)
	case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, session.ErrExpired):
		return err
	}

	logging.L().Debug("submit failed", zap.String("entity", form.Schema().Entity()), zap.Error(err))
	if msg := form.Error(); msg != "" {
		return errors.New(msg)
	}
	return err
}

func invalidError[T any](form *record.Form[T]) error {
	errs := form.Errors()
	working := form.Working()

	var lines []string
	for _, f := range form.Schema().Fields() {
		switch msg := errs[f.Name]; {
		case msg != "":
			lines = append(lines, fmt.Sprintf("  %s: %s", f.Label, msg))
		case form.Mode() == record.Registering && f.Required && !record.Truthy(f.Get(working)):
			lines = append(lines, fmt.Sprintf("  %s: required (--set %s=...)", f.Label, f.Name))
		}
	}
	if len(lines) == 0 {
		return fmt.Errorf("cannot save %s: owner is required", form.Schema().Entity())
	}
	return fmt.Errorf("cannot save %s:\n%s", form.Schema().Entity(), strings.Join(lines, "\n"))
}
