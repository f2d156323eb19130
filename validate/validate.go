// Package validate collects structural invariant violations of an entity so
// that a single error reports every failing field, not just the first.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FieldError describes one failing field of an entity.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Msg
}

// ValidationError is returned when an entity fails its structural invariant.
// Err holds one FieldError (or nested ValidationError) per failing field.
type ValidationError struct {
	Entity string
	ID     string
	Err    *multierror.Error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, e.Len())
	for _, err := range e.Errors() {
		msgs = append(msgs, err.Error())
	}

	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, "; "))
	}

	return fmt.Sprintf("invalid %s %q: %s", e.Entity, e.ID, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Errors returns the individual field errors.
func (e *ValidationError) Errors() []error {
	if e.Err == nil {
		return nil
	}
	return e.Err.Errors
}

// Len returns the number of failing fields.
func (e *ValidationError) Len() int {
	return len(e.Errors())
}

// Fields lists the names of the failing fields, including the fields of
// nested entities prefixed with the nested entity id.
func (e *ValidationError) Fields() []string {
	var fields []string
	for _, err := range e.Errors() {
		var fe *FieldError
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			for _, f := range ve.Fields() {
				fields = append(fields, ve.ID+"."+f)
			}
		case errors.As(err, &fe):
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// Checker accumulates failing fields of one entity.
type Checker struct {
	entity string
	id     string
	errs   *multierror.Error
}

// New creates a checker for the entity kind and id.
func New(entity, id string) *Checker {
	return &Checker{entity: entity, id: id}
}

// Check records a failing field when ok is false.
func (c *Checker) Check(ok bool, field, format string, args ...any) {
	if ok {
		return
	}
	c.errs = multierror.Append(c.errs, &FieldError{
		Field: field,
		Msg:   fmt.Sprintf(format, args...),
	})
}

// Nested records the validation error of a nested entity, if any.
func (c *Checker) Nested(err error) {
	if err == nil {
		return
	}
	c.errs = multierror.Append(c.errs, err)
}

// Err returns nil if every check passed and a *ValidationError otherwise.
func (c *Checker) Err() error {
	if c.errs.ErrorOrNil() == nil {
		return nil
	}
	return &ValidationError{Entity: c.entity, ID: c.id, Err: c.errs}
}
