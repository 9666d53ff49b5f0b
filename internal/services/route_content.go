package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

// cleanString trims strings, maps nil to "" and prints anything else as is.
func cleanString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// cleanNumber returns nil when v is not a usable number.
func cleanNumber(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return nil
}

func cleanTags(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return utils.CleanList(ss)
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, cleanString(it))
	}
	return utils.CleanList(out)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

type sectionMapper func(row map[string]any, cols map[string]any)

var sectionMappers = map[string]sectionMapper{
	models.SectionThingsToNote: func(row map[string]any, cols map[string]any) {
		cols["things_to_note_origin_airport"] = cleanString(row["origin_airport_note"])
		cols["things_to_note_time_diff"] = cleanString(row["time_difference_note"])
		cols["things_to_note_currency"] = cleanString(row["currency_note"])
		cols["things_to_note_power_plugs"] = cleanString(row["power_plugs_note"])
	},
	models.SectionSEO: func(row map[string]any, cols map[string]any) {
		cols["seo_title"] = cleanString(row["seo_title"])
		cols["meta_description"] = cleanString(row["meta_description"])
		cols["slug"] = cleanString(row["slug"])
		cols["canonical_url"] = cleanString(row["canonical_url"])
		cols["schema_markup"] = cleanString(row["schema_markup"])
		cols["robots_meta"] = mustJSON(map[string]bool{
			"no_index":       truthy(row["robots_meta_no_index"]),
			"no_follow":      truthy(row["robots_meta_no_follow"]),
			"no_archive":     truthy(row["robots_meta_no_archive"]),
			"no_image_index": truthy(row["robots_meta_no_image_index"]),
			"no_snippet":     truthy(row["robots_meta_no_snippet"]),
		})
	},
	models.SectionTravelGuide: func(row map[string]any, cols map[string]any) {
		cols["travel_guide_heading"] = cleanString(row["heading"])
		cols["travel_guide_description"] = cleanString(row["description"])
		cols["travel_guide_image"] = cleanString(row["image_url"])
		cols["travel_guide_tags"] = mustJSON(cleanTags(row["tags"]))
		cols["travel_guide_places"] = cleanString(row["places_of_interest"])
		cols["travel_guide_getting_around"] = cleanString(row["getting_around"])
	},
	models.SectionContentSection: func(row map[string]any, cols map[string]any) {
		cols["content_section_title"] = cleanString(row["section_title"])
		cols["content_section_description"] = cleanString(row["main_description"])
		cols["content_section_best_time"] = cleanString(row["best_time_to_visit"])
		cols["content_section_duration_stopovers"] = cleanString(row["flight_duration_and_stopovers"])
	},
	models.SectionRouteInfo: func(row map[string]any, cols map[string]any) {
		cols["average_flight_time"] = cleanString(row["average_flight_time"])
		cols["distance"] = cleanString(row["distance"])
		cols["cheapest_month"] = cleanString(row["cheapest_months"])
		if n := cleanNumber(row["daily_flights"]); n != nil {
			cols["daily_flights"] = n
		}
	},
}

// TransformRouteRows maps raw section rows onto routes columns.
// Rows without both airport codes are skipped and logged.
func TransformRouteRows(section string, rows []map[string]any) ([]models.RouteRow, error) {
	mapper, ok := sectionMappers[section]
	if !ok {
		return nil, domain.ValidationError{Field: "section", Msg: "must be one of " + strings.Join(models.RouteSections, ", ")}
	}
	out := make([]models.RouteRow, 0, len(rows))
	if len(rows) == 0 {
		log.Printf("[ROUTES] section=%s no rows to transform", section)
		return out, nil
	}
	for i, row := range rows {
		dep := utils.UpperCode(cleanString(row["departure_airport_code"]))
		arr := utils.UpperCode(cleanString(row["arrival_airport_code"]))
		if dep == "" || arr == "" {
			log.Printf("[ROUTES] section=%s row=%d missing airport codes, skipped", section, i+1)
			continue
		}
		cols := map[string]any{}
		mapper(row, cols)
		out = append(out, models.RouteRow{DepartureAirport: dep, ArrivalAirport: arr, Columns: cols})
	}
	return out, nil
}

type RouteContentService struct {
	Repo      repositories.RouteRepository
	Events    realtime.Publisher
	RequestID string
}

func (s RouteContentService) Import(ctx context.Context, section string, rows []map[string]any) (models.RouteImportResult, error) {
	res := models.RouteImportResult{Section: section, Received: len(rows)}
	transformed, err := TransformRouteRows(section, rows)
	if err != nil {
		return res, err
	}
	res.Skipped = len(rows) - len(transformed)
	if len(transformed) == 0 {
		return res, nil
	}
	n, err := s.Repo.UpsertContent(ctx, transformed)
	if err != nil {
		return res, domain.InternalError{Msg: "failed to save route content", Err: err}
	}
	res.Upserted = n
	utils.LogEvent(s.RequestID, "routes", "import", fmt.Sprintf("section=%s received=%d upserted=%d skipped=%d", section, res.Received, res.Upserted, res.Skipped))
	realtime.Notify(s.Events, "routes", realtime.ActionUpdate, section)
	return res, nil
}
