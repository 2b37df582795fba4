// SPDX-License-Identifier: MPL-2.0

package fmdoc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fmkit/fmkit/pkg/featuremodel"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDocument is the sentinel error wrapped by InvalidDocumentError.
var ErrInvalidDocument = errors.New("invalid feature model document")

type (
	// Document is the interchange form of a feature model.
	Document struct {
		Name          string            `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
		Features      []FeatureDoc      `json:"features" toml:"features" yaml:"features" validate:"required,min=1,dive"`
		Relationships []RelationshipDoc `json:"relationships,omitempty" toml:"relationships,omitempty" yaml:"relationships,omitempty" validate:"dive"`
		Constraints   []ConstraintDoc   `json:"constraints,omitempty" toml:"constraints,omitempty" yaml:"constraints,omitempty" validate:"dive"`
	}

	// FeatureDoc is one feature.
	FeatureDoc struct {
		Name string `json:"name" toml:"name" yaml:"name" validate:"required"`
		ID   string `json:"id" toml:"id" yaml:"id" validate:"required"`
	}

	// RelationshipDoc is one structural relationship. Left and Right hold
	// feature ids.
	RelationshipDoc struct {
		Type  string   `json:"type" toml:"type" yaml:"type" validate:"required,oneof=mandatory optional or alternative"`
		Left  string   `json:"left" toml:"left" yaml:"left" validate:"required"`
		Right []string `json:"right" toml:"right" yaml:"right,flow" validate:"required,min=1,dive,required"`
	}

	// ConstraintDoc is one cross-tree constraint. Requires and excludes use
	// Left and Right (feature ids); 3cnf uses Clauses.
	ConstraintDoc struct {
		Type    string   `json:"type" toml:"type" yaml:"type" validate:"required,oneof=requires excludes 3cnf"`
		Left    string   `json:"left,omitempty" toml:"left,omitempty" yaml:"left,omitempty" validate:"required_unless=Type 3cnf"`
		Right   []string `json:"right,omitempty" toml:"right,omitempty" yaml:"right,omitempty,flow" validate:"required_unless=Type 3cnf,dive,required"`
		Clauses []string `json:"clauses,omitempty" toml:"clauses,omitempty" yaml:"clauses,omitempty,flow" validate:"required_if=Type 3cnf,dive,required"`
	}

	// InvalidDocumentError is returned when a Document fails structural
	// validation. It collects one error per offending field.
	InvalidDocumentError struct {
		FieldErrors []error
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their serialized names: "features[0].id".
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Error implements the error interface.
func (e *InvalidDocumentError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid feature model document: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidDocument for errors.Is() compatibility.
func (e *InvalidDocumentError) Unwrap() error { return ErrInvalidDocument }

// Validate checks the document's structure: required fields and known
// relationship types. Reference and arity rules are enforced by Build.
func (d *Document) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fieldErrs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		fieldErrs = append(fieldErrs, fmt.Errorf("%s: %s", path, describe(fe)))
	}
	return &InvalidDocumentError{FieldErrors: fieldErrs}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless", "required_if":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entry"
	case "oneof":
		return fmt.Sprintf("%q is not one of [%s]", fe.Value(), fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// Build validates the document and constructs the feature model through the
// construction API, in document order.
func (d *Document) Build(opts featuremodel.Options) (*featuremodel.FeatureModel, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if opts.Name == "" {
		opts.Name = d.Name
	}

	fm := featuremodel.New(opts)
	for _, f := range d.Features {
		if err := fm.AddFeature(f.Name, f.ID); err != nil {
			return nil, err
		}
	}

	for i, r := range d.Relationships {
		left, right, err := resolve(fm, r.Left, r.Right)
		if err != nil {
			return nil, fmt.Errorf("relationships[%d]: %w", i, err)
		}
		if err := fm.AddRelationship(featuremodel.RelationshipType(r.Type), left, right); err != nil {
			return nil, fmt.Errorf("relationships[%d]: %w", i, err)
		}
	}

	for i, c := range d.Constraints {
		typ := featuremodel.RelationshipType(c.Type)
		if typ == featuremodel.ThreeCNF {
			if err := fm.AddThreeCNFConstraint(typ, strings.Join(c.Clauses, " | ")); err != nil {
				return nil, fmt.Errorf("constraints[%d]: %w", i, err)
			}
			continue
		}
		left, right, err := resolve(fm, c.Left, c.Right)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
		if err := fm.AddConstraint(typ, left, right); err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
	}

	return fm, nil
}

func resolve(fm *featuremodel.FeatureModel, leftID string, rightIDs []string) (featuremodel.Feature, []featuremodel.Feature, error) {
	left, err := fm.FeatureByID(leftID)
	if err != nil {
		return featuremodel.Feature{}, nil, err
	}
	right := make([]featuremodel.Feature, 0, len(rightIDs))
	for _, id := range rightIDs {
		f, err := fm.FeatureByID(id)
		if err != nil {
			return featuremodel.Feature{}, nil, err
		}
		right = append(right, f)
	}
	return left, right, nil
}

// FromModel converts a model to its document form. The document name is set
// only when it differs from the root feature's name.
func FromModel(fm *featuremodel.FeatureModel) Document {
	var d Document
	if root, ok := fm.Root(); !ok || root.Name() != fm.Name() {
		d.Name = fm.Name()
	}

	for _, f := range fm.Features() {
		d.Features = append(d.Features, FeatureDoc{Name: f.Name(), ID: f.ID()})
	}
	for _, r := range fm.Relationships() {
		if br, ok := r.(*featuremodel.BasicRelationship); ok {
			d.Relationships = append(d.Relationships, RelationshipDoc{
				Type:  br.Type().String(),
				Left:  br.Left().ID(),
				Right: ids(br.Right()),
			})
		}
	}
	for _, c := range fm.Constraints() {
		switch c := c.(type) {
		case *featuremodel.BasicRelationship:
			d.Constraints = append(d.Constraints, ConstraintDoc{
				Type:  c.Type().String(),
				Left:  c.Left().ID(),
				Right: ids(c.Right()),
			})
		case *featuremodel.ThreeCNFConstraint:
			clauses := c.Clauses()
			texts := make([]string, len(clauses))
			for i, cl := range clauses {
				texts[i] = cl.Text()
			}
			d.Constraints = append(d.Constraints, ConstraintDoc{Type: c.Type().String(), Clauses: texts})
		}
	}
	return d
}

func ids(fs []featuremodel.Feature) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID()
	}
	return out
}
