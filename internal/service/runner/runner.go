package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"checkmaster/internal/storage"
)

var ErrMissingRequired = errors.New("required fields are empty")

type Store interface {
	GetTemplate(ctx context.Context, id string) (*storage.ChecklistTemplate, error)
	GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error)
	SaveOrder(ctx context.Context, o storage.ServiceOrder) error
	NewID() string
}

// Session is the state of an inspection being filled in. OrderID is set when
// an existing order is being edited.
type Session struct {
	OrderID       string                    `json:"orderId,omitempty"`
	Template      storage.ChecklistTemplate `json:"template"`
	Values        map[string]any            `json:"values"`
	Notes         map[string]string         `json:"notes"`
	ClientName    string                    `json:"clientName"`
	SelectedBrand string                    `json:"selectedBrand"`
	SelectedModel string                    `json:"selectedModel"`
}

type Service struct {
	store           Store
	enforceRequired bool
	now             func() time.Time
}

type Option func(*Service)

// WithRequiredCheck makes Finish reject sessions with unanswered required fields.
func WithRequiredCheck(on bool) Option {
	return func(s *Service) { s.enforceRequired = on }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a fresh session on a copy of the template. The client name is
// prefilled with the template name.
func (s *Service) Start(ctx context.Context, templateID string) (*Session, error) {
	const op = "service.runner.Start"

	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{
		Template:   tpl.Clone(),
		Values:     map[string]any{},
		Notes:      map[string]string{},
		ClientName: tpl.Name,
	}, nil
}

// Edit rebuilds the session a stored order was completed from.
func (s *Service) Edit(ctx context.Context, orderID string) (*Session, error) {
	const op = "service.runner.Edit"

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{
		OrderID: order.ID,
		Template: storage.ChecklistTemplate{
			ID:     order.TemplateID,
			Name:   order.TemplateName,
			Fields: order.TemplateFields(),
		},
		Values:        order.Values(),
		Notes:         order.Notes(),
		ClientName:    order.ClientName,
		SelectedBrand: order.Vehicle.Marca,
		SelectedModel: order.Vehicle.Modelo,
	}, nil
}

// Finish turns the session into a completed order and stores it. Editing an
// order keeps its id and original date.
func (s *Service) Finish(ctx context.Context, sess Session) (*storage.ServiceOrder, error) {
	const op = "service.runner.Finish"

	if strings.TrimSpace(sess.ClientName) == "" {
		return nil, fmt.Errorf("%s: %w: client name is empty", op, storage.ErrInvalid)
	}
	if sess.Template.ID == "" {
		return nil, fmt.Errorf("%s: %w: template id is empty", op, storage.ErrInvalid)
	}

	tpl, err := s.sessionTemplate(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sess.Template = tpl

	if s.enforceRequired {
		if missing := MissingRequired(sess.Template.Fields, sess.Values); len(missing) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrMissingRequired, strings.Join(missing, ", "))
		}
	}

	now := s.now().UTC()
	id := sess.OrderID
	date := now
	if id != "" {
		prev, err := s.store.GetOrder(ctx, id)
		switch {
		case err == nil:
			date = prev.Date
		case !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		id = s.store.NewID()
	}

	order := storage.ServiceOrder{
		ID:           id,
		TemplateID:   sess.Template.ID,
		TemplateName: sess.Template.Name,
		ClientName:   sess.ClientName,
		Vehicle:      vehicleFromSession(sess),
		Fields:       snapshot(sess),
		TotalValue:   CalculateTotal(sess.Template.Fields, sess.Values),
		Status:       storage.StatusCompleted,
		Date:         date,
	}

	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &order, nil
}

// Preview is the running total of a session together with the required
// fields still unanswered.
type Preview struct {
	Total   float64  `json:"total"`
	Missing []string `json:"missing"`
}

// Preview computes the total shown while a session is being filled. A session
// that carries only a template id is priced against the stored template.
func (s *Service) Preview(ctx context.Context, sess Session) (*Preview, error) {
	const op = "service.runner.Preview"

	tpl, err := s.sessionTemplate(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fields := tpl.Fields

	missing := MissingRequired(fields, sess.Values)
	if missing == nil {
		missing = []string{}
	}

	return &Preview{
		Total:   CalculateTotal(fields, sess.Values),
		Missing: missing,
	}, nil
}

// sessionTemplate returns the template a session is filled against. A session
// that carries only the template id gets a copy of the stored template.
func (s *Service) sessionTemplate(ctx context.Context, sess Session) (storage.ChecklistTemplate, error) {
	if len(sess.Template.Fields) > 0 || sess.Template.ID == "" {
		return sess.Template, nil
	}

	tpl, err := s.store.GetTemplate(ctx, sess.Template.ID)
	if err != nil {
		return storage.ChecklistTemplate{}, err
	}
	return tpl.Clone(), nil
}

// MissingRequired lists the labels of required fields without an answer.
func MissingRequired(fields []storage.ChecklistField, values map[string]any) []string {
	var missing []string
	for _, f := range fields {
		if f.Required && IsEmpty(values[f.ID]) {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

// ApplyScan stores an image analysis result into the session field it was
// taken for.
func (sess *Session) ApplyScan(fieldID string, data storage.Vehicle) error {
	idx := sess.Template.FieldIndex(fieldID)
	if idx < 0 {
		return fmt.Errorf("%w: field %q", storage.ErrNotFound, fieldID)
	}

	value, brand, model, ok := ScanValue(sess.Template.Fields[idx], data)
	if !ok {
		return fmt.Errorf("%w: field %q is not AI-assisted", storage.ErrInvalid, fieldID)
	}

	if sess.Values == nil {
		sess.Values = map[string]any{}
	}
	sess.Values[fieldID] = value
	if sess.Template.Fields[idx].Type == storage.FieldAIBrandModel {
		sess.SelectedBrand = brand
		sess.SelectedModel = model
	}
	return nil
}

func firstValueOfType(sess Session, t storage.FieldType) any {
	for _, f := range sess.Template.Fields {
		if f.Type == t {
			return sess.Values[f.ID]
		}
	}
	return nil
}

func vehicleFromSession(sess Session) storage.Vehicle {
	v := storage.Vehicle{
		Placa: stringValue(firstValueOfType(sess, storage.FieldAIPlaca)),
		Marca: sess.SelectedBrand,
	}

	v.Modelo = sess.SelectedModel
	if v.Modelo == "" {
		v.Modelo = stringValue(firstValueOfType(sess, storage.FieldAIBrandModel))
	}

	imei := firstValueOfType(sess, storage.FieldAIIMEI)
	if list, ok := stringSlice(imei); ok {
		v.IMEI = list
	} else {
		v.IMEI = []string{stringValue(imei)}
	}

	return v
}

func snapshot(sess Session) []storage.OrderField {
	fields := make([]storage.OrderField, len(sess.Template.Fields))
	for i, f := range sess.Template.Fields {
		fields[i] = storage.OrderField{
			ChecklistField: f.Clone(),
			Value:          sess.Values[f.ID],
			Note:           sess.Notes[f.ID],
		}
	}
	return fields
}
