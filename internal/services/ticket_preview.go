package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/domain/models"

	"github.com/phpdave11/gofpdf"
)

// RenderTicketPreview draws a one-page itinerary for a parsed PNR.
func RenderTicketPreview(p models.ParsedPNR, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ticket Preview "+p.PNRNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET PREVIEW")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Booking Reference : "+safe(p.PNRNumber, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated         : "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, name := range p.Passengers {
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s", i+1, safe(name, "-")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Flights")
	pdf.Ln(8)

	widths := []float64{28, 22, 22, 45, 45, 28}
	header := []string{"Flight", "From", "To", "Departure", "Arrival", "Class"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range p.Segments {
		cells := []string{
			safe(s.AirlineCode+" "+strings.TrimPrefix(s.FlightNumber, s.AirlineCode), "-"),
			safe(s.DepartureAirport, "-"),
			safe(s.ArrivalAirport, "-"),
			safe(s.DepartureTime, "-"),
			safe(s.ArrivalTime, "-"),
			safe(s.Class, "-"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, truncate(c, 26), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Preview generated from the booking record. Times are shown as provided by the airline system.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PreviewFileName is <pnr>-<unixmillis>.pdf.
func PreviewFileName(pnr string, at time.Time) string {
	return fmt.Sprintf("%s-%d.pdf", safeFilenamePart(pnr), at.UnixMilli())
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
