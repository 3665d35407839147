package generate_excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"checkmaster/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetOrders(ctx context.Context) ([]storage.ServiceOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ServiceOrder), args.Error(1)
}

func (m *MockStorage) GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ServiceOrder), args.Error(1)
}

func day(d int) time.Time {
	return time.Date(2026, 4, d, 12, 0, 0, 0, time.UTC)
}

func testOrders() []storage.ServiceOrder {
	return []storage.ServiceOrder{
		{ID: "1", ClientName: "Frota Sul", TemplateID: "t1", TemplateName: "Instalação", TotalValue: 100, Date: day(1), Status: storage.StatusCompleted},
		{ID: "2", ClientName: "Transportes Lima", TemplateID: "t2", TemplateName: "Manutenção", TotalValue: 50, Date: day(10), Status: storage.StatusCompleted,
			Vehicle: storage.Vehicle{Placa: "ABC1D23", IMEI: []string{"111", "222"}}},
		{ID: "3", ClientName: "frota sul", TemplateID: "t1", TemplateName: "Instalação", TotalValue: 75, Date: day(20), Status: storage.StatusCompleted},
	}
}

func TestOrderFilter(t *testing.T) {
	orders := testOrders()

	f := OrderFilter{From: day(5), To: day(20)}
	assert.False(t, f.match(orders[0]))
	assert.True(t, f.match(orders[1]))
	assert.False(t, f.match(orders[2]), "upper bound is exclusive")

	f = OrderFilter{Client: "FROTA"}
	assert.True(t, f.match(orders[0]))
	assert.False(t, f.match(orders[1]))
	assert.True(t, f.match(orders[2]))

	f = OrderFilter{TemplateID: "t2"}
	assert.True(t, f.match(orders[1]))
	assert.False(t, f.match(orders[0]))
}

func TestGenerateExcel(t *testing.T) {
	st := new(MockStorage)
	st.On("GetOrders", mock.Anything).Return(testOrders(), nil)

	data, err := NewGenerateService(st).GenerateExcel(context.Background(), OrderFilter{From: day(2), To: day(30)})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Vistorias")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, ordersHeaders, rows[0])
	assert.Equal(t, "Transportes Lima", rows[1][1])
	assert.Equal(t, "ABC1D23", rows[1][3])
	assert.Equal(t, "111, 222", rows[1][6])
	assert.Equal(t, "frota sul", rows[2][1])
	assert.Equal(t, "Total", rows[3][6])
	assert.Equal(t, "125", rows[3][7])
}

func TestGenerateOrderExcel(t *testing.T) {
	order := &storage.ServiceOrder{
		ID:         "o1",
		TotalValue: 30,
		Fields: []storage.OrderField{
			{ChecklistField: storage.ChecklistField{ID: "a", Label: "Bloqueio", Type: storage.FieldBoolean}, Value: true},
			{ChecklistField: storage.ChecklistField{ID: "b", Label: "Valor", Type: storage.FieldPrice}, Value: "30"},
		},
	}

	st := new(MockStorage)
	st.On("GetOrder", mock.Anything, "o1").Return(order, nil)

	data, got, err := NewGenerateService(st).GenerateOrderExcel(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", got.ID)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Vistoria")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Campo", "Valor"},
		{"Bloqueio", "SIM"},
		{"Valor", "30"},
		{"Total", "30"},
	}, rows)
}

func TestGenerateOrderExcel_NotFound(t *testing.T) {
	st := new(MockStorage)
	st.On("GetOrder", mock.Anything, "x").Return(nil, storage.ErrNotFound)

	_, _, err := NewGenerateService(st).GenerateOrderExcel(context.Background(), "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewOrderFilter(t *testing.T) {
	now := time.Date(2026, 3, 17, 23, 10, 0, 0, time.UTC)

	f, err := NewOrderFilter("", "", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), f.From)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), f.To)

	f, err = NewOrderFilter("2026-01-05", "2026-01-31", "t1", "sul", now)
	require.NoError(t, err)
	assert.Equal(t, OrderFilter{
		From:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		TemplateID: "t1",
		Client:     "sul",
	}, f)

	lastDay := time.Date(2026, 1, 31, 22, 0, 0, 0, time.UTC)
	assert.True(t, f.match(storage.ServiceOrder{Date: lastDay, TemplateID: "t1", ClientName: "Frota Sul"}))
}

func TestNewOrderFilter_Invalid(t *testing.T) {
	now := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)

	for _, tc := range [][2]string{{"05/01/2026", ""}, {"", "ontem"}, {"2026-02-01", "2026-01-01"}} {
		_, err := NewOrderFilter(tc[0], tc[1], "", "", now)
		assert.ErrorIs(t, err, storage.ErrInvalid, tc)
	}
}
