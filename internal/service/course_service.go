package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stemsi/course-catalog/internal/config"
	"github.com/stemsi/course-catalog/internal/model"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// AskResultLimit caps the ask endpoint, which returns no pagination metadata.
	AskResultLimit = 20
	// MinQuestionLength is measured in characters after trimming whitespace.
	MinQuestionLength = 3
)

// NoMatchesMessage is returned by Ask when nothing matches.
const NoMatchesMessage = "No matching courses found"

// Sentinel errors for course queries.
var (
	ErrInvalidQuestion = errors.New("question must be at least 3 characters")
	ErrIDsRequired     = errors.New("ids query param required e.g. ids=CS101,CS102")
)

// CourseStore is the persistence the course and ingest services depend on.
// It is satisfied by *repository.CourseRepository.
type CourseStore interface {
	ListPaginated(ctx context.Context, f model.FilterSet, p model.Pagination) ([]model.Course, int, error)
	ListTop(ctx context.Context, f model.FilterSet, limit int) ([]model.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	UpsertBatch(ctx context.Context, courses []model.Course) (int, error)
}

// CourseService handles catalog queries.
type CourseService struct {
	store CourseStore
	cache *CourseCache
	log   zerolog.Logger
}

// NewCourseService creates a new CourseService. cache may be nil.
func NewCourseService(store CourseStore, cache *CourseCache, log zerolog.Logger) *CourseService {
	return &CourseService{
		store: store,
		cache: cache,
		log:   log.With().Str("component", "course_service").Logger(),
	}
}

// NormalizePagination floors page at 1 and clamps pageSize to [1, MaxPageSize].
// Page is capped so the offset fits in an int32; such pages are empty anyway.
// Callers substitute DefaultPage/DefaultPageSize for absent values first.
func NormalizePagination(page, pageSize int) model.Pagination {
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32 / pageSize; page > maxPage {
		page = maxPage
	}
	return model.Pagination{Page: page, PageSize: pageSize}
}

// List returns one page of courses matching f, sorted by name.
func (s *CourseService) List(ctx context.Context, f model.FilterSet, p model.Pagination) (*model.CourseListResponse, error) {
	keyFn := func(v int64) string {
		return config.CacheKey.CourseListKey(v, digest(struct {
			F model.FilterSet
			P model.Pagination
		}{f, p}))
	}

	return Fetch(ctx, s.cache, keyFn, func() (*model.CourseListResponse, error) {
		items, total, err := s.store.ListPaginated(ctx, f, p)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to list courses")
			return nil, err
		}
		if items == nil {
			items = []model.Course{}
		}
		return &model.CourseListResponse{
			Items:    items,
			Total:    total,
			Page:     p.Page,
			PageSize: p.PageSize,
		}, nil
	})
}

// ParseIDs splits a comma-separated id list, trimming blanks and dropping
// duplicates while keeping first-seen order.
func ParseIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Compare returns the courses named in rawIDs, in request order. Unknown ids
// are skipped; an all-unknown list yields an empty result, not an error.
func (s *CourseService) Compare(ctx context.Context, rawIDs string) (*model.CompareResponse, error) {
	ids := ParseIDs(rawIDs)
	if len(ids) == 0 {
		return nil, ErrIDsRequired
	}

	keyFn := func(v int64) string { return config.CacheKey.CourseCompareKey(v, digest(ids)) }

	return Fetch(ctx, s.cache, keyFn, func() (*model.CompareResponse, error) {
		items, err := s.store.GetByIDs(ctx, ids)
		if err != nil {
			s.log.Error().Err(err).Strs("ids", ids).Msg("failed to compare courses")
			return nil, err
		}
		if items == nil {
			items = []model.Course{}
		}
		return &model.CompareResponse{Items: items}, nil
	})
}

// Ask extracts filters from a free-text question and returns up to
// AskResultLimit matches together with the filters that were applied.
func (s *CourseService) Ask(ctx context.Context, question string) (*model.AskResponse, error) {
	if utf8.RuneCountInString(strings.TrimSpace(question)) < MinQuestionLength {
		return nil, ErrInvalidQuestion
	}

	f := ExtractFilters(question)
	s.log.Debug().Interface("filters", f).Bool("unfiltered", f.IsEmpty()).Msg("question parsed")

	keyFn := func(v int64) string { return config.CacheKey.CourseAskKey(v, digest(f)) }

	items, err := Fetch(ctx, s.cache, keyFn, func() ([]model.Course, error) {
		items, err := s.store.ListTop(ctx, f, AskResultLimit)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to answer question")
			return nil, err
		}
		if items == nil {
			items = []model.Course{}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	resp := &model.AskResponse{Filters: f, Items: items}
	if len(items) == 0 {
		msg := NoMatchesMessage
		resp.Message = &msg
	}
	return resp, nil
}
