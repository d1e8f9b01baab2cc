package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/course-catalog/internal/model"
)

const validCSV = `course_id,course_name,department,level,delivery_mode,credits,duration_weeks,rating,tuition_fee_inr,year_offered
CS101,Intro to Programming,Computer Science,UG,online,4,12,4.5,30000,2024
ME201, Thermodynamics ,Mechanical,UG,offline,3,12,3.9,25000,2023
`

func TestDecodeCourses(t *testing.T) {
	courses, err := DecodeCourses(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, model.Course{
		CourseID:      "CS101",
		CourseName:    "Intro to Programming",
		Department:    "Computer Science",
		Level:         model.LevelUG,
		DeliveryMode:  model.DeliveryOnline,
		Credits:       4,
		DurationWeeks: 12,
		Rating:        4.5,
		TuitionFeeINR: 30000,
		YearOffered:   2024,
	}, courses[0])
	assert.Equal(t, "Thermodynamics", courses[1].CourseName, "values are trimmed")
}

func TestDecodeCourses_HeaderOrderBOMAndBlankLines(t *testing.T) {
	in := "\ufeffyear_offered, rating ,course_id,course_name,department,level,delivery_mode,credits,duration_weeks,tuition_fee_inr,notes\n" +
		"\n" +
		"2025,4.2,PH101,Mechanics,Physics,UG,hybrid,3,10,15000,extra column\n" +
		",,,,,,,,,,\n"

	courses, err := DecodeCourses(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "PH101", courses[0].CourseID)
	assert.Equal(t, 2025, courses[0].YearOffered)
	assert.Equal(t, 4.2, courses[0].Rating)
}

func TestDecodeCourses_MissingColumn(t *testing.T) {
	in := "course_id,course_name,department,level,delivery_mode,credits,duration_weeks,tuition_fee_inr,year_offered\n"

	_, err := DecodeCourses(strings.NewReader(in))

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "rating", missing.Column)
	assert.Equal(t, "Missing column rating", err.Error())
}

func TestDecodeCourses_HeaderOnly(t *testing.T) {
	courses, err := DecodeCourses(strings.NewReader(strings.SplitN(validCSV, "\n", 2)[0] + "\n"))
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestDecodeCourses_Empty(t *testing.T) {
	_, err := DecodeCourses(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCSV)
}

func TestDecodeCourses_BadInteger(t *testing.T) {
	in := validCSV + "XX1,Broken,Physics,UG,online,four,12,4.0,1000,2024\n"

	_, err := DecodeCourses(strings.NewReader(in))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Line)
	assert.Contains(t, rowErr.Reason, "credits")
	assert.Equal(t, "XX1", rowErr.Row["course_id"])
	assert.Equal(t, "four", rowErr.Row["credits"])
}

func TestDecodeCourses_IntOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		field string
	}{
		{"tuition fee", "XX2,Pricey,Physics,UG,online,4,12,4.0,3000000000,2024", "tuition_fee_inr"},
		{"credits", "XX2,Heavy,Physics,UG,online,2147483648,12,4.0,1000,2024", "credits"},
		{"year", "XX2,Future,Physics,UG,online,4,12,4.0,1000,9999999999", "year_offered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCourses(strings.NewReader(validCSV + tt.row + "\n"))

			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, 4, rowErr.Line)
			assert.Contains(t, rowErr.Fields, tt.field)
		})
	}
}

func TestDecodeCourses_BadRating(t *testing.T) {
	in := validCSV + "XX1,Broken,Physics,UG,online,4,12,high,1000,2024\n"

	_, err := DecodeCourses(strings.NewReader(in))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Contains(t, rowErr.Reason, "rating")
}

func TestDecodeCourses_InvalidEnum(t *testing.T) {
	in := validCSV + "XX1,Broken,Physics,PhD,online,4,12,4.0,1000,2024\n"

	_, err := DecodeCourses(strings.NewReader(in))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Contains(t, rowErr.Fields, "level")
}

func TestDecodeCourses_ShortRow(t *testing.T) {
	in := validCSV + "XX1,Broken\n"

	_, err := DecodeCourses(strings.NewReader(in))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "", rowErr.Row["rating"])
}

func TestIngestService_Ingest(t *testing.T) {
	store := newMemoryStore()
	svc := NewIngestService(store, nil, zerolog.Nop())

	n, err := svc.Ingest(context.Background(), strings.NewReader(validCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.courses, 2)
}

func TestIngestService_Ingest_Idempotent(t *testing.T) {
	store := newMemoryStore()
	svc := NewIngestService(store, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Ingest(ctx, strings.NewReader(validCSV))
	require.NoError(t, err)
	once := make(map[string]model.Course, len(store.courses))
	for k, v := range store.courses {
		once[k] = v
	}

	_, err = svc.Ingest(ctx, strings.NewReader(validCSV))
	require.NoError(t, err)

	assert.Equal(t, once, store.courses)
}

func TestIngestService_Ingest_OverwritesExisting(t *testing.T) {
	existing := sampleCourses()[0]
	existing.CourseName = "Old Name"
	existing.Rating = 1.0
	store := newMemoryStore(existing)
	svc := NewIngestService(store, nil, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), strings.NewReader(validCSV))
	require.NoError(t, err)

	got := store.courses["CS101"]
	assert.Equal(t, "Intro to Programming", got.CourseName)
	assert.Equal(t, 4.5, got.Rating)
}

func TestIngestService_Ingest_BadRowWritesNothing(t *testing.T) {
	store := newMemoryStore()
	svc := NewIngestService(store, nil, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), strings.NewReader(validCSV+"XX1,Broken,Physics,UG,online,4,12,4.0,lots,2024\n"))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Empty(t, store.courses)
	assert.Zero(t, store.upsertRows)
}

func TestIngestService_Ingest_StoreError(t *testing.T) {
	store := newMemoryStore()
	store.upsertErr = errors.New("deadlock detected")
	svc := NewIngestService(store, nil, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), strings.NewReader(validCSV))
	assert.ErrorIs(t, err, store.upsertErr)
}
