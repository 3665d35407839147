package runner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"checkmaster/internal/storage"
)

var pricedFields = []storage.ChecklistField{
	{ID: "valor", Type: storage.FieldPrice},
	{ID: "plano", Type: storage.FieldSelect, Options: []storage.FieldOption{
		{ID: "basico", Label: "Básico", Price: 50},
		{ID: "premium", Label: "Premium", Price: 120},
	}},
	{ID: "extras", Type: storage.FieldMultiselect, Options: []storage.FieldOption{
		{ID: "bloqueio", Label: "Bloqueio", Price: 30},
		{ID: "sensor", Label: "Sensor de Porta", Price: 25.5},
		{ID: "botao", Label: "Botão de Pânico", Price: 15},
	}},
	{ID: "combustivel", Type: storage.FieldSelectSimple, Options: []storage.FieldOption{
		{ID: "cheio", Label: "Cheio", Price: 999},
	}},
	{ID: "km", Type: storage.FieldNumber},
}

func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   float64
	}{
		{"empty", map[string]any{}, 0},
		{"manual price as string", map[string]any{"valor": "150.5"}, 150.5},
		{"manual price as number", map[string]any{"valor": 80.0}, 80},
		{"non numeric price", map[string]any{"valor": "R$ 10"}, 0},
		{"select", map[string]any{"plano": "premium"}, 120},
		{"unknown option", map[string]any{"plano": "gold"}, 0},
		{"multiselect from json", map[string]any{"extras": []any{"bloqueio", "sensor"}}, 55.5},
		{"select_simple and number ignored", map[string]any{"combustivel": "cheio", "km": 12000.0}, 0},
		{"everything", map[string]any{
			"valor":  "100",
			"plano":  "basico",
			"extras": []string{"bloqueio", "botao", "missing"},
		}, 195},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateTotal(pricedFields, tt.values), 1e-9)
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 12.0, number(" 12 "))
	assert.Equal(t, 0.0, number("1,5"))
	assert.Equal(t, 3.0, number(json.Number("3")))
	assert.Equal(t, 1.0, number(true))
	assert.Equal(t, 0.0, number(nil))
	assert.Equal(t, 0.0, number([]any{"1"}))
}

func TestDisplayValue(t *testing.T) {
	boolField := storage.ChecklistField{ID: "b", Type: storage.FieldBoolean}
	photo := storage.ChecklistField{ID: "p", Type: storage.FieldPhoto}
	text := storage.ChecklistField{ID: "t", Type: storage.FieldText}

	assert.Equal(t, "SIM / OK", DisplayValue(boolField, true))
	assert.Equal(t, "NÃO / FALHA", DisplayValue(boolField, false))
	assert.Equal(t, "FOTO REGISTRADA", DisplayValue(photo, "data:image/jpeg;base64,AAAA"))
	assert.Equal(t, "Premium", DisplayValue(pricedFields[1], "premium"))
	assert.Equal(t, "Bloqueio, Botão de Pânico", DisplayValue(pricedFields[2], []any{"bloqueio", "botao"}))
	assert.Equal(t, "12000", DisplayValue(pricedFields[4], 12000.0))
	assert.Equal(t, "", DisplayValue(text, "  "))
	assert.Equal(t, "", DisplayValue(pricedFields[2], []any{}))
}

func TestScanValue(t *testing.T) {
	data := storage.Vehicle{Placa: "BRA2E19", Marca: "Volvo", Modelo: "FH 540", IMEI: []string{"356938035643809"}}

	v, _, _, ok := ScanValue(storage.ChecklistField{Type: storage.FieldAIPlaca}, data)
	assert.True(t, ok)
	assert.Equal(t, "BRA2E19", v)

	v, brand, model, ok := ScanValue(storage.ChecklistField{Type: storage.FieldAIBrandModel}, data)
	assert.True(t, ok)
	assert.Equal(t, "Volvo FH 540", v)
	assert.Equal(t, "Volvo", brand)
	assert.Equal(t, "FH 540", model)

	v, _, _, ok = ScanValue(storage.ChecklistField{Type: storage.FieldAIIMEI}, storage.Vehicle{})
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, _, _, ok = ScanValue(storage.ChecklistField{Type: storage.FieldText}, data)
	assert.False(t, ok)
}
