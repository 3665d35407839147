// Package report renders completed orders for sharing and download.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"checkmaster/internal/service/runner"
	"checkmaster/internal/storage"
)

const (
	ShareTitle = "CheckMaster Pro - Relatório de Vistoria"
	noPlate    = "Sem_Placa"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// CellValue is the exported text of one answer: SIM/NÃO for booleans,
// option labels for select fields and "-" when unanswered or numerically zero.
func CellValue(f storage.OrderField) string {
	switch v := f.Value.(type) {
	case bool:
		if v {
			return "SIM"
		}
		return "NÃO"
	case float64:
		if v == 0 {
			return "-"
		}
	case int:
		if v == 0 {
			return "-"
		}
	}
	if s := runner.DisplayValue(f.ChecklistField, f.Value); s != "" {
		return s
	}
	return "-"
}

// Money formats an amount as Brazilian reais, e.g. "R$ 1.234,50".
func Money(v float64) string {
	return printer.Sprintf("R$ %.2f", v)
}

// FileName builds the download name for an order export with the given
// extension.
func FileName(o storage.ServiceOrder, ext string) string {
	plate := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, o.Vehicle.Placa)
	if plate == "" {
		plate = noPlate
	}
	return fmt.Sprintf("Vistoria_%s.%s", plate, ext)
}

// CSV writes a two-column Campo/Valor sheet of the order answers.
func CSV(o storage.ServiceOrder) ([]byte, error) {
	const op = "service.report.CSV"

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Campo", "Valor"}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, f := range o.Fields {
		if err := w.Write([]string{f.Label, CellValue(f)}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// ShareText is the plain-text summary sent through the share sheet.
func ShareText(o storage.ServiceOrder) string {
	var b strings.Builder
	b.WriteString(ShareTitle)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Veículo: %s %s\n", o.Vehicle.Marca, o.Vehicle.Modelo)
	fmt.Fprintf(&b, "Placa: %s\n", o.Vehicle.Placa)
	fmt.Fprintf(&b, "Cliente: %s\n", o.ClientName)
	fmt.Fprintf(&b, "Valor: %s\n", Money(o.TotalValue))
	fmt.Fprintf(&b, "Data: %s", o.Date.Format("02/01/2006"))
	return b.String()
}
