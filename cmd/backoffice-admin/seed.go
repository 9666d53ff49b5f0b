package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"backoffice/internal/repositories"

	"github.com/spf13/cobra"
)

const defaultSeedBatch = 100

// seedAirport is one entry of the airports dataset file.
type seedAirport struct {
	Name     string          `json:"name"`
	IATA     string          `json:"IATA"`
	ICAO     string          `json:"ICAO"`
	City     string          `json:"city"`
	Country  string          `json:"country"`
	Lat      json.RawMessage `json:"lat"`
	Lon      json.RawMessage `json:"lon"`
	Timezone string          `json:"timezone"`
}

// code maps the dataset's "-" placeholder (and blanks) to NULL.
func code(s string) *string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return nil
	}
	return &s
}

// coord accepts both numbers and numeric strings.
func coord(raw json.RawMessage) *float64 {
	v := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if v == "" || v == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseAirportSeed(r io.Reader) ([]repositories.SeedRow, error) {
	var items []seedAirport
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode airports: %w", err)
	}
	out := make([]repositories.SeedRow, 0, len(items))
	for _, a := range items {
		row := repositories.SeedRow{
			Type:         "airport",
			Name:         strings.TrimSpace(a.Name),
			Latitude:     coord(a.Lat),
			Longitude:    coord(a.Lon),
			IsoCountry:   strings.TrimSpace(a.Country),
			Municipality: strings.TrimSpace(a.City),
			IcaoCode:     code(a.ICAO),
			IataCode:     code(a.IATA),
		}
		switch {
		case row.IcaoCode != nil:
			row.Ident = *row.IcaoCode
		case row.IataCode != nil:
			row.Ident = *row.IataCode
		default:
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func batches(rows []repositories.SeedRow, size int) [][]repositories.SeedRow {
	if size <= 0 {
		size = defaultSeedBatch
	}
	var out [][]repositories.SeedRow
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}

func newSeedAirportsCmd() *cobra.Command {
	var file string
	var batch int
	cmd := &cobra.Command{
		Use:   "seed-airports",
		Short: "Load airports from a JSON dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := parseAirportSeed(f)
			if err != nil {
				return err
			}
			cmd.Printf("loaded %d airports\n", len(rows))

			repo := repositories.AirportRepository{}
			done := 0
			for i, b := range batches(rows, batch) {
				if _, err := repo.InsertBatch(cmd.Context(), b); err != nil {
					cmd.PrintErrf("batch %d failed: %v\n", i, err)
					continue
				}
				done += len(b)
				cmd.Printf("\rinserted %d / %d", done, len(rows))
			}
			cmd.Println()
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "airports.json", "path to the airports dataset")
	cmd.Flags().IntVar(&batch, "batch", defaultSeedBatch, "rows per INSERT")
	return cmd
}
