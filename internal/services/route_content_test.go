package services

import (
	"context"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRouteRowsSkipsMissingCodes(t *testing.T) {
	rows := []map[string]any{
		{"departure_airport_code": " syd ", "arrival_airport_code": "dps", "origin_airport_note": " Arrive early "},
		{"departure_airport_code": "", "arrival_airport_code": "DPS"},
		{"arrival_airport_code": "MEL"},
	}
	out, err := TransformRouteRows(models.SectionThingsToNote, rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SYD", out[0].DepartureAirport)
	assert.Equal(t, "DPS", out[0].ArrivalAirport)
	assert.Equal(t, "Arrive early", out[0].Columns["things_to_note_origin_airport"])
	assert.Equal(t, "", out[0].Columns["things_to_note_currency"])
}

func TestTransformRouteRowsSections(t *testing.T) {
	base := func(extra map[string]any) []map[string]any {
		row := map[string]any{"departure_airport_code": "SYD", "arrival_airport_code": "LHR"}
		for k, v := range extra {
			row[k] = v
		}
		return []map[string]any{row}
	}

	out, err := TransformRouteRows(models.SectionSEO, base(map[string]any{
		"seo_title": "Cheap flights", "robots_meta_no_index": true, "robots_meta_no_follow": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Cheap flights", out[0].Columns["seo_title"])
	assert.JSONEq(t, `{"no_index":true,"no_follow":false,"no_archive":false,"no_image_index":false,"no_snippet":false}`,
		out[0].Columns["robots_meta"].(string))

	out, err = TransformRouteRows(models.SectionTravelGuide, base(map[string]any{
		"heading": "London", "tags": []any{" city", "city", "", "history"},
	}))
	require.NoError(t, err)
	assert.Equal(t, `["city","history"]`, out[0].Columns["travel_guide_tags"])

	out, err = TransformRouteRows(models.SectionContentSection, base(map[string]any{"section_title": "About"}))
	require.NoError(t, err)
	assert.Equal(t, "About", out[0].Columns["content_section_title"])

	out, err = TransformRouteRows(models.SectionRouteInfo, base(map[string]any{
		"cheapest_months": "May", "daily_flights": "abc", "distance": 17000.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, "May", out[0].Columns["cheapest_month"])
	assert.Equal(t, "17000.5", out[0].Columns["distance"])
	assert.NotContains(t, out[0].Columns, "daily_flights")

	out, err = TransformRouteRows(models.SectionRouteInfo, base(map[string]any{"daily_flights": " 12 "}))
	require.NoError(t, err)
	assert.Equal(t, 12.0, out[0].Columns["daily_flights"])
}

func TestTransformRouteRowsUnknownSection(t *testing.T) {
	_, err := TransformRouteRows("faq", nil)
	assert.True(t, domain.IsValidation(err))

	out, err := TransformRouteRows(models.SectionSEO, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestImportRouteContentDropsMissingColumns(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	cols := []string{"content_section_best_time", "content_section_description", "content_section_duration_stopovers", "content_section_title"}
	for _, c := range cols {
		rows := sqlmock.NewRows([]string{"column_name"})
		if c != "content_section_duration_stopovers" {
			rows.AddRow(c)
		}
		mock.ExpectQuery("information_schema.columns").WithArgs("routes", c).WillReturnRows(rows)
	}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO routes").
		WithArgs("SYD", "LHR", "", "", "About").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := RouteContentService{Repo: repositories.RouteRepository{DB: conn}}
	res, err := svc.Import(context.Background(), models.SectionContentSection, []map[string]any{
		{"departure_airport_code": "SYD", "arrival_airport_code": "LHR", "section_title": "About"},
		{"departure_airport_code": "SYD"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RouteImportResult{Section: models.SectionContentSection, Received: 2, Upserted: 1, Skipped: 1}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}
