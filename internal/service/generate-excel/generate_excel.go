package generate_excel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"checkmaster/internal/service/report"
	"checkmaster/internal/storage"
)

type GenerateExcelStorage interface {
	GetOrders(ctx context.Context) ([]storage.ServiceOrder, error)
	GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error)
}

// OrderFilter selects orders dated in [From, To). Empty TemplateID or Client
// match everything.
type OrderFilter struct {
	From       time.Time
	To         time.Time
	TemplateID string
	Client     string
}

// NewOrderFilter builds a filter from inclusive YYYY-MM-DD day bounds. An
// empty from means the first day of now's month, an empty to means now's day.
func NewOrderFilter(from, to, templateID, client string, now time.Time) (OrderFilter, error) {
	const op = "service.generate_excel.NewOrderFilter"

	fDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	tDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if from != "" {
		d, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return OrderFilter{}, fmt.Errorf("%s: %w: invalid from date %q", op, storage.ErrInvalid, from)
		}
		fDate = d
	}
	if to != "" {
		d, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return OrderFilter{}, fmt.Errorf("%s: %w: invalid to date %q", op, storage.ErrInvalid, to)
		}
		tDate = d
	}
	if tDate.Before(fDate) {
		return OrderFilter{}, fmt.Errorf("%s: %w: to is before from", op, storage.ErrInvalid)
	}

	return OrderFilter{
		From:       fDate,
		To:         tDate.AddDate(0, 0, 1),
		TemplateID: templateID,
		Client:     client,
	}, nil
}

func (f OrderFilter) match(o storage.ServiceOrder) bool {
	if !f.From.IsZero() && o.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.Date.Before(f.To) {
		return false
	}
	if f.TemplateID != "" && o.TemplateID != f.TemplateID {
		return false
	}
	if f.Client != "" && !strings.Contains(strings.ToLower(o.ClientName), strings.ToLower(f.Client)) {
		return false
	}
	return true
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

var ordersHeaders = []string{"Data", "Cliente", "Checklist", "Placa", "Marca", "Modelo", "IMEI", "Valor (R$)", "Status"}

// GenerateExcel builds a workbook with one row per order matching filter.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter OrderFilter) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	orders, err := g.storage.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch orders: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Vistorias"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := writeHeader(f, sheet, ordersHeaders); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row := 2
	var total float64
	for _, o := range orders {
		if !filter.match(o) {
			continue
		}
		values := []any{
			o.Date.Format("02/01/2006 15:04"),
			o.ClientName,
			o.TemplateName,
			o.Vehicle.Placa,
			o.Vehicle.Marca,
			o.Vehicle.Modelo,
			strings.Join(o.Vehicle.IMEI, ", "),
			o.TotalValue,
			o.Status,
		}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		total += o.TotalValue
		row++
	}

	// total row
	f.SetCellValue(sheet, cellName(7, row), "Total")
	f.SetCellValue(sheet, cellName(8, row), total)

	f.SetColWidth(sheet, "A", "I", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// GenerateOrderExcel exports the answers of a single order.
func (g *GenerateExcelService) GenerateOrderExcel(ctx context.Context, orderID string) ([]byte, *storage.ServiceOrder, error) {
	const op = "service.generate_excel.GenerateOrderExcel"

	order, err := g.storage.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Vistoria"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := writeHeader(f, sheet, []string{"Campo", "Valor"}); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, field := range order.Fields {
		row := i + 2
		f.SetCellValue(sheet, cellName(1, row), field.Label)
		f.SetCellValue(sheet, cellName(2, row), report.CellValue(field))
	}

	row := len(order.Fields) + 2
	f.SetCellValue(sheet, cellName(1, row), "Total")
	f.SetCellValue(sheet, cellName(2, row), order.TotalValue)

	f.SetColWidth(sheet, "A", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), order, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return err
	}

	for i, name := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), name); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle); err != nil {
		return err
	}

	// keep the header visible while scrolling
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
