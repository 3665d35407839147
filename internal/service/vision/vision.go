// Package vision reads plate, brand/model and IMEI from vehicle photos
// through the Gemini API.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"google.golang.org/genai"

	"checkmaster/internal/config"
	"checkmaster/internal/storage"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("image analysis is not configured")

const prompt = `Analise a imagem de um veículo ou de um equipamento rastreador.
Extraia, se visíveis: a placa do veículo (padrão brasileiro ou Mercosul), a marca,
o modelo e os números IMEI (15 dígitos) presentes em etiquetas.
Use string vazia para campos não identificados e lista vazia para imei.`

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"placa":  {Type: genai.TypeString},
		"marca":  {Type: genai.TypeString},
		"modelo": {Type: genai.TypeString},
		"imei":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"placa", "marca", "modelo", "imei"},
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Analyzer struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// New returns ErrDisabled when cfg has no API key.
func New(ctx context.Context, cfg config.Vision) (*Analyzer, error) {
	const op = "service.vision.New"

	if cfg.APIKey == "" {
		return nil, ErrDisabled
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create GenAI client: %w", op, err)
	}

	return &Analyzer{models: client.Models, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// AnalyzeVehicleImage sends the image to the model and decodes the vehicle
// fields it recognised.
func (a *Analyzer) AnalyzeVehicleImage(ctx context.Context, image []byte, mimeType string) (*storage.Vehicle, error) {
	const op = "service.vision.AnalyzeVehicleImage"

	if len(image) == 0 {
		return nil, fmt.Errorf("%s: %w: empty image", op, storage.ErrInvalid)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s: %w: unsupported content type %q", op, storage.ErrInvalid, mimeType)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := a.models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := parse(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func parse(text string) (*storage.Vehicle, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	var raw struct {
		Placa  string   `json:"placa"`
		Marca  string   `json:"marca"`
		Modelo string   `json:"modelo"`
		IMEI   []string `json:"imei"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	v := &storage.Vehicle{
		Placa:  normalizePlate(raw.Placa),
		Marca:  strings.TrimSpace(raw.Marca),
		Modelo: strings.TrimSpace(raw.Modelo),
		IMEI:   []string{},
	}
	for _, imei := range raw.IMEI {
		if digits := onlyDigits(imei); digits != "" {
			v.IMEI = append(v.IMEI, digits)
		}
	}
	return v, nil
}

// normalizePlate uppercases and drops separators: "abc-1d23" -> "ABC1D23".
func normalizePlate(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, s)
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
