package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/course-catalog/internal/model"
	"github.com/stemsi/course-catalog/internal/validator"
)

// Sentinel errors for CSV ingest.
var (
	ErrEmptyCSV     = errors.New("csv file is empty")
	ErrMalformedCSV = errors.New("csv header could not be parsed")
)

// MissingColumnError reports the first required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "Missing column " + e.Column
}

// RowError aborts an ingest batch. Line is the 1-based line in the file; Row
// echoes the offending record keyed by header name.
type RowError struct {
	Line   int
	Row    map[string]string
	Reason string
	Fields map[string]string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("invalid row at line %d: %s", e.Line, e.Reason)
}

// courseRow carries one decoded CSV record through validation.
type courseRow struct {
	CourseID      string  `json:"course_id" binding:"required,max=50"`
	CourseName    string  `json:"course_name" binding:"required,max=255"`
	Department    string  `json:"department" binding:"required,max=100"`
	Level         string  `json:"level" binding:"required,oneof=UG PG"`
	DeliveryMode  string  `json:"delivery_mode" binding:"required,oneof=online offline hybrid"`
	Credits       int     `json:"credits" binding:"min=0,max=2147483647"`
	DurationWeeks int     `json:"duration_weeks" binding:"min=1,max=2147483647"`
	Rating        float64 `json:"rating" binding:"min=0,max=5"`
	TuitionFeeINR int     `json:"tuition_fee_inr" binding:"min=0,max=2147483647"`
	YearOffered   int     `json:"year_offered" binding:"min=-2147483648,max=2147483647"`
}

// IngestService loads course CSV files into the catalog.
type IngestService struct {
	store CourseStore
	cache *CourseCache
	log   zerolog.Logger
}

// NewIngestService creates a new IngestService. cache may be nil.
func NewIngestService(store CourseStore, cache *CourseCache, log zerolog.Logger) *IngestService {
	return &IngestService{
		store: store,
		cache: cache,
		log:   log.With().Str("component", "ingest_service").Logger(),
	}
}

// Ingest decodes every row of r and upserts them as one batch. Nothing is
// written unless the whole file decodes.
func (s *IngestService) Ingest(ctx context.Context, r io.Reader) (int, error) {
	courses, err := DecodeCourses(r)
	if err != nil {
		return 0, err
	}

	n, err := s.store.UpsertBatch(ctx, courses)
	if err != nil {
		s.log.Error().Err(err).Int("rows", len(courses)).Msg("failed to upsert courses")
		return 0, fmt.Errorf("upsert courses: %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate query cache")
	}

	s.log.Info().Int("rows", n).Msg("Catalog ingest committed")
	return n, nil
}

// DecodeCourses reads a CSV whose header names every course column, in any
// order. Values are trimmed and blank lines skipped. The first bad row aborts
// decoding with a *RowError.
func DecodeCourses(r io.Reader) ([]model.Course, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range model.CourseColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	courses := []model.Course{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErr := &RowError{Reason: err.Error()}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rowErr.Line = pe.Line
			}
			return nil, rowErr
		}
		if isBlankRecord(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		values := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				values[name] = strings.TrimSpace(record[i])
			} else {
				values[name] = ""
			}
		}

		course, rowErr := parseCourseRow(values)
		if rowErr != nil {
			rowErr.Line = line
			rowErr.Row = values
			return nil, rowErr
		}
		courses = append(courses, course)
	}

	return courses, nil
}

func parseCourseRow(values map[string]string) (model.Course, *RowError) {
	row := courseRow{
		CourseID:     values["course_id"],
		CourseName:   values["course_name"],
		Department:   values["department"],
		Level:        values["level"],
		DeliveryMode: values["delivery_mode"],
	}

	ints := []struct {
		col string
		dst *int
	}{
		{"credits", &row.Credits},
		{"duration_weeks", &row.DurationWeeks},
		{"tuition_fee_inr", &row.TuitionFeeINR},
		{"year_offered", &row.YearOffered},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(values[f.col])
		if err != nil {
			return model.Course{}, &RowError{Reason: fmt.Sprintf("%s: invalid integer %q", f.col, values[f.col])}
		}
		*f.dst = n
	}

	rating, err := strconv.ParseFloat(values["rating"], 64)
	if err != nil {
		return model.Course{}, &RowError{Reason: fmt.Sprintf("rating: invalid number %q", values["rating"])}
	}
	row.Rating = rating

	if fields := validator.Struct(&row); fields != nil {
		return model.Course{}, &RowError{Reason: "row failed validation", Fields: fields}
	}

	return model.Course{
		CourseID:      row.CourseID,
		CourseName:    row.CourseName,
		Department:    row.Department,
		Level:         model.Level(row.Level),
		DeliveryMode:  model.DeliveryMode(row.DeliveryMode),
		Credits:       row.Credits,
		DurationWeeks: row.DurationWeeks,
		Rating:        row.Rating,
		TuitionFeeINR: row.TuitionFeeINR,
		YearOffered:   row.YearOffered,
	}, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
