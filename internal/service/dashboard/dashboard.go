package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"checkmaster/internal/storage"
)

const recentLimit = 5

type Storage interface {
	GetTemplates(ctx context.Context) ([]storage.ChecklistTemplate, error)
	GetOrders(ctx context.Context) ([]storage.ServiceOrder, error)
}

type Stats struct {
	Today   int     `json:"today"`
	Gains   float64 `json:"gains"`
	Clients int     `json:"clients"`
}

type Dashboard struct {
	Stats     Stats                       `json:"stats"`
	Favorites []storage.ChecklistTemplate `json:"favorites"`
	Recent    []storage.ServiceOrder      `json:"recentOrders"`
}

type Service struct {
	storage Storage
	now     func() time.Time
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage, now: time.Now}
}

func (s *Service) Get(ctx context.Context) (*Dashboard, error) {
	const op = "service.dashboard.Get"

	var (
		templates []storage.ChecklistTemplate
		orders    []storage.ServiceOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		templates, err = s.storage.GetTemplates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.storage.GetOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Dashboard{
		Stats:     ComputeStats(orders, s.now()),
		Favorites: Favorites(templates),
		Recent:    Recent(orders, recentLimit),
	}, nil
}

// ComputeStats counts orders dated on the UTC day of now, sums all order
// totals and counts distinct client names.
func ComputeStats(orders []storage.ServiceOrder, now time.Time) Stats {
	y, m, d := now.UTC().Date()

	var st Stats
	clients := make(map[string]struct{})
	for _, o := range orders {
		oy, om, od := o.Date.UTC().Date()
		if oy == y && om == m && od == d {
			st.Today++
		}
		st.Gains += o.TotalValue
		clients[o.ClientName] = struct{}{}
	}
	st.Clients = len(clients)
	return st
}

func Favorites(templates []storage.ChecklistTemplate) []storage.ChecklistTemplate {
	out := make([]storage.ChecklistTemplate, 0)
	for _, t := range templates {
		if t.IsFavorite {
			out = append(out, t)
		}
	}
	return out
}

// Recent returns up to limit orders, most recently stored first.
func Recent(orders []storage.ServiceOrder, limit int) []storage.ServiceOrder {
	out := make([]storage.ServiceOrder, 0, limit)
	for i := len(orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, orders[i])
	}
	return out
}
