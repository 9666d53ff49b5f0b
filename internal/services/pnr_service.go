package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/storage"
	"backoffice/internal/utils"

	"github.com/go-playground/validator/v10"
)

const minPNRLength = 5

// Generator returns the model's JSON answer for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

const pnrPrompt = `
You are an expert travel agent assistant. Your task is to parse raw PNR (Passenger Name Record) text into a structured JSON format.
Identify the PNR number (Booking Reference), Passengers, and Flight Segments.

Validation Rules:
- PNR Number must be present.
- At least one passenger must be present.
- At least one flight segment must be present.
- Airport codes must be 3-letter IATA codes.

Structure:
{
  "pnr_number": "string",
  "passengers": ["string"],
  "segments": [
    {
      "flight_number": "string",
      "airline_code": "string",
      "departure_airport": "string (IATA code)",
      "arrival_airport": "string (IATA code)",
      "departure_time": "ISO 8601 string or raw string if unknown",
      "arrival_time": "ISO 8601 string or raw string if unknown",
      "class": "string (optional)"
    }
  ]
}

Raw PNR Text:
%s
`

var pnrValidate = newPNRValidator()

func newPNRValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// issuePath turns "ParsedPNR.segments[0].departure_airport" into "segments.0.departure_airport".
func issuePath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.NewReplacer("[", ".", "]", "").Replace(ns)
}

func issueMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "required" && fe.Field() == "pnr_number":
		return "PNR Number is required"
	case fe.Tag() == "min" && fe.Field() == "passengers":
		return "At least one passenger is required"
	case fe.Tag() == "min" && fe.Field() == "segments":
		return "At least one flight segment is required"
	case fe.Tag() == "len":
		return fmt.Sprintf("String must contain exactly %s character(s)", fe.Param())
	case fe.Tag() == "required":
		return "Required"
	}
	return fe.Error()
}

// ValidatePNR checks the parsed structure and joins every issue as "path: message".
func ValidatePNR(p models.ParsedPNR) error {
	err := pnrValidate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, issuePath(fe.Namespace())+": "+issueMessage(fe))
	}
	return errors.New("Validation Failed: " + strings.Join(issues, ", "))
}

// ParsePNR asks the model to structure raw PNR text and validates the answer.
func ParsePNR(ctx context.Context, gen Generator, text string) (models.ParsedPNR, error) {
	var out models.ParsedPNR
	if len(strings.TrimSpace(text)) < minPNRLength {
		return out, domain.ValidationError{Msg: "Invalid input: PNR text is too short or empty"}
	}
	if gen == nil {
		return out, domain.InternalError{Msg: "PNR parser is not configured"}
	}

	content, err := gen.GenerateJSON(ctx, fmt.Sprintf(pnrPrompt, text))
	if err != nil {
		log.Printf("[PNR] generate error: %v", err)
		return out, domain.UpstreamError{Service: "gemini", Msg: "Failed to parse PNR data: " + err.Error(), Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return out, domain.UpstreamError{Service: "gemini", Msg: "Failed to parse PNR data: Empty response from AI"}
	}

	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			msg := fmt.Sprintf("Validation Failed: %s: Expected %s, received %s", typeErr.Field, typeErr.Type.String(), typeErr.Value)
			return out, domain.UpstreamError{Service: "gemini", Msg: msg, Err: err}
		}
		log.Printf("[PNR] invalid JSON from model: %v", err)
		return out, domain.UpstreamError{Service: "gemini", Msg: "AI returned invalid JSON", Err: err}
	}
	if err := ValidatePNR(out); err != nil {
		log.Printf("[PNR] validation error: %v", err)
		return out, domain.UpstreamError{Service: "gemini", Msg: err.Error(), Err: err}
	}
	return out, nil
}

type PNRService struct {
	Gen       Generator
	Store     storage.Store
	RequestID string
	Now       func() time.Time
}

type PNRResult struct {
	Data       models.ParsedPNR `json:"data"`
	PreviewURL string           `json:"previewUrl"`
}

// Process parses the text, renders a ticket preview and uploads it.
func (s PNRService) Process(ctx context.Context, text string) (PNRResult, error) {
	var res PNRResult
	if strings.TrimSpace(text) == "" {
		return res, domain.ValidationError{Msg: "PNR text is required"}
	}
	parsed, err := ParsePNR(ctx, s.Gen, text)
	if err != nil {
		return res, err
	}
	res.Data = parsed

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	pdf, err := RenderTicketPreview(parsed, now)
	if err != nil {
		return res, domain.InternalError{Msg: "Failed to render preview: " + err.Error(), Err: err}
	}
	if s.Store == nil {
		return res, domain.InternalError{Msg: "storage is not configured"}
	}
	name := PreviewFileName(parsed.PNRNumber, now)
	if err := s.Store.Upload(ctx, models.PNRPreviewsBucket, name, bytes.NewReader(pdf)); err != nil {
		return res, domain.InternalError{Msg: "Failed to upload preview image: " + err.Error(), Err: err}
	}
	res.PreviewURL = s.Store.PublicURL(models.PNRPreviewsBucket, name)
	utils.LogEvent(s.RequestID, "pnr", "process", "pnr="+parsed.PNRNumber+" segments="+fmt.Sprint(len(parsed.Segments)))
	return res, nil
}
