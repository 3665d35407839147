// Package builder edits the field list of a checklist template.
package builder

import (
	"context"
	"fmt"

	"checkmaster/internal/constants"
	"checkmaster/internal/storage"
)

// OptionPresets are ready-made option lists for select fields.
var OptionPresets = map[string][]string{
	constants.PresetTypes:       constants.VehicleTypes,
	constants.PresetCars:        constants.CarBrands,
	constants.PresetTruckBrands: constants.TruckBrands,
	constants.PresetTruckModels: constants.TruckModels,
}

type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*storage.ChecklistTemplate, error)
	SaveTemplate(ctx context.Context, t storage.ChecklistTemplate) error
	NewID() string
}

type Service struct {
	store TemplateStore
}

func NewService(store TemplateStore) *Service {
	return &Service{store: store}
}

// edit loads the template, applies fn and saves the result.
func (s *Service) edit(ctx context.Context, op, templateID string, fn func(t *storage.ChecklistTemplate) error) (*storage.ChecklistTemplate, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := fn(tpl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SaveTemplate(ctx, *tpl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tpl, nil
}

// AddField appends a required field. Select-like fields start with one
// zero-priced option.
func (s *Service) AddField(ctx context.Context, templateID string, typ storage.FieldType, label string) (*storage.ChecklistTemplate, error) {
	return s.edit(ctx, "service.builder.AddField", templateID, func(t *storage.ChecklistTemplate) error {
		if !typ.Valid() {
			return fmt.Errorf("%w: unknown field type %q", storage.ErrInvalid, typ)
		}

		f := storage.ChecklistField{
			ID:       s.store.NewID(),
			Label:    label,
			Type:     typ,
			Required: true,
		}
		if typ.HasOptions() {
			f.Options = []storage.FieldOption{{ID: s.store.NewID(), Label: "Opção 1"}}
		}

		t.Fields = append(t.Fields, f)
		return nil
	})
}

func (s *Service) RemoveField(ctx context.Context, templateID, fieldID string) (*storage.ChecklistTemplate, error) {
	return s.edit(ctx, "service.builder.RemoveField", templateID, func(t *storage.ChecklistTemplate) error {
		idx := t.FieldIndex(fieldID)
		if idx < 0 {
			return fmt.Errorf("%w: field %q", storage.ErrNotFound, fieldID)
		}
		t.Fields = append(t.Fields[:idx], t.Fields[idx+1:]...)
		return nil
	})
}

// MoveField moves the field at position from to position to, shifting the
// fields in between.
func (s *Service) MoveField(ctx context.Context, templateID string, from, to int) (*storage.ChecklistTemplate, error) {
	return s.edit(ctx, "service.builder.MoveField", templateID, func(t *storage.ChecklistTemplate) error {
		n := len(t.Fields)
		if from < 0 || from >= n || to < 0 || to >= n {
			return fmt.Errorf("%w: move %d -> %d out of range for %d fields", storage.ErrInvalid, from, to, n)
		}
		t.Fields = move(t.Fields, from, to)
		return nil
	})
}

func move[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}

func optionField(t *storage.ChecklistTemplate, fieldID string) (*storage.ChecklistField, error) {
	idx := t.FieldIndex(fieldID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: field %q", storage.ErrNotFound, fieldID)
	}
	f := &t.Fields[idx]
	if !f.Type.HasOptions() {
		return nil, fmt.Errorf("%w: field %q of type %q has no options", storage.ErrInvalid, fieldID, f.Type)
	}
	return f, nil
}

// AddOption appends "Opção N" where N is the new option count.
func (s *Service) AddOption(ctx context.Context, templateID, fieldID string) (*storage.ChecklistTemplate, error) {
	return s.edit(ctx, "service.builder.AddOption", templateID, func(t *storage.ChecklistTemplate) error {
		f, err := optionField(t, fieldID)
		if err != nil {
			return err
		}
		f.Options = append(f.Options, storage.FieldOption{
			ID:    s.store.NewID(),
			Label: fmt.Sprintf("Opção %d", len(f.Options)+1),
		})
		return nil
	})
}

func (s *Service) RemoveOption(ctx context.Context, templateID, fieldID, optionID string) (*storage.ChecklistTemplate, error) {
	return s.edit(ctx, "service.builder.RemoveOption", templateID, func(t *storage.ChecklistTemplate) error {
		f, err := optionField(t, fieldID)
		if err != nil {
			return err
		}
		for i, o := range f.Options {
			if o.ID == optionID {
				f.Options = append(f.Options[:i], f.Options[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: option %q", storage.ErrNotFound, optionID)
	})
}

// LoadOptionPreset replaces the field options with a preset list.
func (s *Service) LoadOptionPreset(ctx context.Context, templateID, fieldID, preset string) (*storage.ChecklistTemplate, error) {
	return s.edit(ctx, "service.builder.LoadOptionPreset", templateID, func(t *storage.ChecklistTemplate) error {
		labels, ok := OptionPresets[preset]
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", storage.ErrInvalid, preset)
		}
		f, err := optionField(t, fieldID)
		if err != nil {
			return err
		}
		f.Options = make([]storage.FieldOption, len(labels))
		for i, l := range labels {
			f.Options[i] = storage.FieldOption{ID: s.store.NewID(), Label: l}
		}
		return nil
	})
}
