package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/softmesh/graphql/ast"
)

// Kind classifies a validation failure.
type Kind int

const (
	// UnknownInterface flags an implements clause naming an interface the
	// document never defines.
	UnknownInterface Kind = iota
	// MissingInterfaceField flags an object that lacks a field required by
	// an interface it implements.
	MissingInterfaceField
)

var kindNames = [...]string{
	UnknownInterface:      "unknown-interface",
	MissingInterfaceField: "missing-interface-field",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Error is a single validation failure. Names are resolved to plain strings
// so the error stays readable without the document's interner. Interface and
// Field are empty when the Kind does not involve them.
type Error struct {
	Kind      Kind
	Object    string
	Interface string
	Field     string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownInterface:
		return fmt.Sprintf("object %q implements unknown interface %q", e.Object, e.Interface)
	case MissingInterfaceField:
		return fmt.Sprintf("object %q is missing field %q of interface %q", e.Object, e.Field, e.Interface)
	}
	return fmt.Sprintf("invalid object %q", e.Object)
}

// Errors is an ordered list of validation failures.
type Errors []*Error

func (errs Errors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns the list as an error, or nil when it is empty.
func (errs Errors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate applies rules to doc and collects every failure instead of
// stopping at the first. With no explicit rules the registered set runs.
// Rules visit definitions in Document.Definitions order, so the result is
// deterministic for a given document.
func Validate(doc *ast.Document, rules ...Rule) Errors {
	if len(rules) == 0 {
		rules = registered
	}
	var errs Errors
	for _, rule := range rules {
		errs = append(errs, rule.Check(doc)...)
	}
	return errs
}

func checkImplementsExist(doc *ast.Document) Errors {
	var errs Errors
	for _, def := range doc.Definitions() {
		obj, ok := def.(*ast.ObjectDefinition)
		if !ok {
			continue
		}
		for _, iface := range obj.Implements {
			if _, ok := doc.Interfaces[iface]; ok {
				continue
			}
			errs = append(errs, &Error{
				Kind:      UnknownInterface,
				Object:    doc.Resolve(obj.Name),
				Interface: doc.Resolve(iface),
			})
		}
	}
	return errs
}

func checkImplementedFields(doc *ast.Document) Errors {
	var errs Errors
	for _, def := range doc.Definitions() {
		obj, ok := def.(*ast.ObjectDefinition)
		if !ok {
			continue
		}
		for _, name := range obj.Implements {
			iface, ok := doc.Interfaces[name]
			if !ok {
				// ImplementsExist reports these.
				continue
			}
			for i := range iface.Fields {
				if _, ok := obj.Field(iface.Fields[i].Name); ok {
					continue
				}
				errs = append(errs, &Error{
					Kind:      MissingInterfaceField,
					Object:    doc.Resolve(obj.Name),
					Interface: doc.Resolve(name),
					Field:     doc.Resolve(iface.Fields[i].Name),
				})
			}
		}
	}
	return errs
}
