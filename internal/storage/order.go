package storage

import "time"

const StatusCompleted = "completed"

type Vehicle struct {
	Placa  string   `json:"placa"`
	Marca  string   `json:"marca"`
	Modelo string   `json:"modelo"`
	IMEI   []string `json:"imei"`
}

// OrderField is a template field frozen together with the value it was filled with.
type OrderField struct {
	ChecklistField
	Value any    `json:"value,omitempty"`
	Note  string `json:"note,omitempty"`
}

type ServiceOrder struct {
	ID           string       `json:"id"`
	TemplateID   string       `json:"templateId"`
	TemplateName string       `json:"templateName"`
	ClientName   string       `json:"clientName"`
	Vehicle      Vehicle      `json:"vehicle"`
	Fields       []OrderField `json:"fields"`
	TotalValue   float64      `json:"totalValue"`
	Status       string       `json:"status"`
	Date         time.Time    `json:"date"`
}

// TemplateFields returns the field definitions of the snapshot without values.
func (o ServiceOrder) TemplateFields() []ChecklistField {
	out := make([]ChecklistField, len(o.Fields))
	for i, f := range o.Fields {
		out[i] = f.ChecklistField.Clone()
	}
	return out
}

// Values returns the snapshot values keyed by field id.
func (o ServiceOrder) Values() map[string]any {
	out := make(map[string]any, len(o.Fields))
	for _, f := range o.Fields {
		if f.Value != nil {
			out[f.ID] = f.Value
		}
	}
	return out
}

func (o ServiceOrder) Notes() map[string]string {
	out := make(map[string]string)
	for _, f := range o.Fields {
		if f.Note != "" {
			out[f.ID] = f.Note
		}
	}
	return out
}
