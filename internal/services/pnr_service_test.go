package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePNR = `RLOC ABC123
 1.SMITH/JOHN MR
 2 QF 001 Y 10MAY SYDLHR HK1 1600 0530`

const validPNRJSON = `{
  "pnr_number": "ABC123",
  "passengers": ["SMITH/JOHN MR"],
  "segments": [{
    "flight_number": "QF1",
    "airline_code": "QF",
    "departure_airport": "SYD",
    "arrival_airport": "LHR",
    "departure_time": "2025-05-10T16:00:00",
    "arrival_time": "2025-05-11T05:30:00",
    "class": "Y"
  }]
}`

func TestParsePNRSuccess(t *testing.T) {
	gen := &fakeGenerator{out: validPNRJSON}
	out, err := ParsePNR(context.Background(), gen, samplePNR)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", out.PNRNumber)
	require.Len(t, out.Segments, 1)
	assert.Equal(t, "LHR", out.Segments[0].ArrivalAirport)
	assert.Contains(t, gen.prompt, "RLOC ABC123")
}

func TestParsePNRErrors(t *testing.T) {
	cases := []struct {
		name    string
		gen     Generator
		text    string
		check   func(error) bool
		message string
	}{
		{"too short", &fakeGenerator{}, " ab ", domain.IsValidation, "Invalid input: PNR text is too short or empty"},
		{"not configured", nil, samplePNR, domain.IsInternal, "PNR parser is not configured"},
		{"model failure", &fakeGenerator{err: errors.New("quota exceeded")}, samplePNR, domain.IsUpstream, "Failed to parse PNR data: quota exceeded"},
		{"empty answer", &fakeGenerator{out: "  "}, samplePNR, domain.IsUpstream, "Failed to parse PNR data: Empty response from AI"},
		{"not json", &fakeGenerator{out: "Sure! here it is"}, samplePNR, domain.IsUpstream, "AI returned invalid JSON"},
		{"wrong type", &fakeGenerator{out: `{"pnr_number": 42}`}, samplePNR, domain.IsUpstream, "Validation Failed: pnr_number: Expected string, received number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePNR(context.Background(), tc.gen, tc.text)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error kind %T", err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestParsePNRAcceptsOpenSegment(t *testing.T) {
	gen := &fakeGenerator{out: `{
  "pnr_number": "OPEN01",
  "passengers": [""],
  "segments": [{
    "flight_number": "",
    "airline_code": "QF",
    "departure_airport": "SYD",
    "arrival_airport": "MEL",
    "departure_time": "2025-05-10T16:00:00",
    "arrival_time": ""
  }]
}`}
	out, err := ParsePNR(context.Background(), gen, samplePNR)
	require.NoError(t, err)
	require.Len(t, out.Segments, 1)
	assert.Empty(t, out.Segments[0].ArrivalTime)
}

func TestValidatePNRMessages(t *testing.T) {
	err := ValidatePNR(models.ParsedPNR{})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Validation Failed: ")
	assert.Contains(t, msg, "pnr_number: PNR Number is required")
	assert.Contains(t, msg, "passengers: At least one passenger is required")
	assert.Contains(t, msg, "segments: At least one flight segment is required")

	err = ValidatePNR(models.ParsedPNR{
		PNRNumber:  "X1",
		Passengers: []string{"A"},
		Segments: []models.PNRSegment{{
			FlightNumber: "QF1", AirlineCode: "QF", DepartureAirport: "SYDN", ArrivalAirport: "LHR",
			DepartureTime: "t", ArrivalTime: "t",
		}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segments.0.departure_airport: String must contain exactly 3 character(s)")
}

func TestProcessPNRUploadsPreview(t *testing.T) {
	store := newMemStore()
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	svc := PNRService{Gen: &fakeGenerator{out: validPNRJSON}, Store: store, Now: func() time.Time { return at }}

	res, err := svc.Process(context.Background(), samplePNR)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/pnr-previews/ABC123-1741082400000.pdf", res.PreviewURL)
	assert.Equal(t, "ABC123", res.Data.PNRNumber)

	pdf := store.objects["pnr-previews/ABC123-1741082400000.pdf"]
	require.NotEmpty(t, pdf)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestProcessPNRFailures(t *testing.T) {
	_, err := PNRService{}.Process(context.Background(), "   ")
	assert.True(t, domain.IsValidation(err))
	assert.EqualError(t, err, "PNR text is required")

	store := newMemStore()
	store.failWrite = true
	_, err = PNRService{Gen: &fakeGenerator{out: validPNRJSON}, Store: store}.Process(context.Background(), samplePNR)
	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))
	assert.Contains(t, err.Error(), "Failed to upload preview image: disk full")
}
