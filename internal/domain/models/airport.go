package models

// Airport is the API shape of an airports row.
type Airport struct {
	ID        int64    `json:"id"`
	IataCode  string   `json:"iata_code"`
	IcaoCode  string   `json:"icao_code,omitempty"`
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  string   `json:"timezone"`
	Active    bool     `json:"active"`
}

type AirportInput struct {
	IataCode  *string  `json:"iata_code"`
	IcaoCode  *string  `json:"icao_code"`
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	Country   *string  `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  *string  `json:"timezone"`
	Active    *bool    `json:"active"`
}

// AirportSearchResult is one location from the airport search provider.
type AirportSearchResult struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	IataCode  string   `json:"iata_code"`
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  string   `json:"timezone"`

	PublishedStatus bool `json:"published_status"`
}

type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPageMeta(page, limit, total int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return PageMeta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
