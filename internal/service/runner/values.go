package runner

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"checkmaster/internal/storage"
)

// number converts an entered value the way a numeric input would: numeric
// strings parse, anything else counts as zero.
func number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		f, _ = x.Float64()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			return 1
		}
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// stringSlice accepts the shapes a multiselect value takes after JSON decoding.
func stringSlice(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	}
	if list, ok := stringSlice(v); ok {
		return strings.Join(list, ",")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// IsEmpty reports whether a field has no answer. false is an answer.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	if list, ok := stringSlice(v); ok {
		return len(list) == 0
	}
	return false
}

// CalculateTotal sums manual prices and the prices of chosen options.
// select_simple options never carry a price.
func CalculateTotal(fields []storage.ChecklistField, values map[string]any) float64 {
	var total float64
	for _, f := range fields {
		v := values[f.ID]
		switch f.Type {
		case storage.FieldPrice:
			total += number(v)
		case storage.FieldSelect:
			id, _ := v.(string)
			if opt, ok := f.Option(id); ok {
				total += opt.Price
			}
		case storage.FieldMultiselect:
			ids, ok := stringSlice(v)
			if !ok {
				continue
			}
			selected := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				selected[id] = struct{}{}
			}
			for _, opt := range f.Options {
				if _, ok := selected[opt.ID]; ok {
					total += opt.Price
				}
			}
		}
	}
	return total
}

// OptionLabels resolves option ids to their labels; unknown ids are skipped.
func OptionLabels(f storage.ChecklistField, v any) string {
	if id, ok := v.(string); ok {
		opt, _ := f.Option(id)
		return opt.Label
	}
	ids, _ := stringSlice(v)
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if opt, ok := f.Option(id); ok {
			labels = append(labels, opt.Label)
		}
	}
	return strings.Join(labels, ", ")
}

// DisplayValue renders the feedback line shown under a filled field.
// Empty answers render as "".
func DisplayValue(f storage.ChecklistField, v any) string {
	if IsEmpty(v) {
		return ""
	}
	switch {
	case f.Type.HasOptions():
		return OptionLabels(f, v)
	case f.Type == storage.FieldBoolean:
		if b, _ := v.(bool); b {
			return "SIM / OK"
		}
		return "NÃO / FALHA"
	case f.Type == storage.FieldPhoto:
		return "FOTO REGISTRADA"
	}
	return stringValue(v)
}

// ScanValue maps an image analysis result onto the value of an AI-assisted
// field. For brand/model fields it also returns the brand and model chosen.
func ScanValue(f storage.ChecklistField, data storage.Vehicle) (value, brand, model string, ok bool) {
	switch f.Type {
	case storage.FieldAIPlaca:
		return data.Placa, "", "", true
	case storage.FieldAIBrandModel:
		return strings.TrimSpace(data.Marca + " " + data.Modelo), data.Marca, data.Modelo, true
	case storage.FieldAIIMEI:
		if len(data.IMEI) > 0 {
			return data.IMEI[0], "", "", true
		}
		return "", "", "", true
	}
	return "", "", "", false
}
