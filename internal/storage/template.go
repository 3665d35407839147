package storage

import "fmt"

type FieldType string

const (
	FieldText         FieldType = "text"
	FieldNumber       FieldType = "number"
	FieldPrice        FieldType = "price"
	FieldDate         FieldType = "date"
	FieldBoolean      FieldType = "boolean"
	FieldPhoto        FieldType = "photo"
	FieldSelect       FieldType = "select"
	FieldSelectSimple FieldType = "select_simple"
	FieldMultiselect  FieldType = "multiselect"
	FieldAIPlaca      FieldType = "ai_placa"
	FieldAIBrandModel FieldType = "ai_brand_model"
	FieldAIIMEI       FieldType = "ai_imei"
)

var fieldTypes = map[FieldType]struct{}{
	FieldText: {}, FieldNumber: {}, FieldPrice: {}, FieldDate: {}, FieldBoolean: {},
	FieldPhoto: {}, FieldSelect: {}, FieldSelectSimple: {}, FieldMultiselect: {},
	FieldAIPlaca: {}, FieldAIBrandModel: {}, FieldAIIMEI: {},
}

func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// HasOptions reports whether fields of this type carry a list of options.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldSelectSimple || t == FieldMultiselect
}

// Priced reports whether option prices of this type count towards the order total.
func (t FieldType) Priced() bool {
	return t == FieldSelect || t == FieldMultiselect
}

// AIAssisted reports whether the field is filled from an image analysis.
func (t FieldType) AIAssisted() bool {
	return t == FieldAIPlaca || t == FieldAIBrandModel || t == FieldAIIMEI
}

type FieldOption struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

type ChecklistField struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Type     FieldType     `json:"type"`
	Required bool          `json:"required"`
	Options  []FieldOption `json:"options,omitempty"`
}

type ChecklistTemplate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Fields      []ChecklistField `json:"fields"`
	IsFavorite  bool             `json:"isFavorite"`
}

// Clone returns a deep copy, options included.
func (t ChecklistTemplate) Clone() ChecklistTemplate {
	c := t
	c.Fields = CloneFields(t.Fields)
	return c
}

func CloneFields(fields []ChecklistField) []ChecklistField {
	if fields == nil {
		return nil
	}
	out := make([]ChecklistField, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

func (f ChecklistField) Clone() ChecklistField {
	c := f
	if f.Options != nil {
		c.Options = append([]FieldOption(nil), f.Options...)
	}
	return c
}

// Option looks up an option by id.
func (f ChecklistField) Option(id string) (FieldOption, bool) {
	for _, o := range f.Options {
		if o.ID == id {
			return o, true
		}
	}
	return FieldOption{}, false
}

// FieldIndex returns the position of the field with the given id or -1.
func (t ChecklistTemplate) FieldIndex(id string) int {
	for i, f := range t.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the template before it is persisted.
func (t ChecklistTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: template id is empty", ErrInvalid)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: template name is empty", ErrInvalid)
	}

	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if f.ID == "" {
			return fmt.Errorf("%w: field %q has empty id", ErrInvalid, f.Label)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate field id %q", ErrInvalid, f.ID)
		}
		seen[f.ID] = struct{}{}

		if !f.Type.Valid() {
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalid, f.ID, f.Type)
		}
	}

	return nil
}
