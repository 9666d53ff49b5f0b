package models

const (
	SectionThingsToNote   = "things-to-note"
	SectionSEO            = "seo"
	SectionTravelGuide    = "travel-guide"
	SectionContentSection = "content-section"
	SectionRouteInfo      = "route-info"
)

// RouteSections lists the accepted content sections.
var RouteSections = []string{SectionThingsToNote, SectionSEO, SectionTravelGuide, SectionContentSection, SectionRouteInfo}

// RouteRow is one transformed row ready to upsert into routes.
// Keys are column names; DepartureAirport and ArrivalAirport are always set.
type RouteRow struct {
	DepartureAirport string
	ArrivalAirport   string
	Columns          map[string]any
}

type RouteImportResult struct {
	Section  string `json:"section"`
	Received int    `json:"received"`
	Upserted int    `json:"upserted"`
	Skipped  int    `json:"skipped"`
}
