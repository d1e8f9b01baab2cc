package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/course-catalog/internal/model"
)

const upsertCourseSQL = `INSERT INTO courses (` + courseSelectColumns + `)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	 ON CONFLICT (course_id) DO UPDATE SET
		course_name = EXCLUDED.course_name,
		department = EXCLUDED.department,
		level = EXCLUDED.level,
		delivery_mode = EXCLUDED.delivery_mode,
		credits = EXCLUDED.credits,
		duration_weeks = EXCLUDED.duration_weeks,
		rating = EXCLUDED.rating,
		tuition_fee_inr = EXCLUDED.tuition_fee_inr,
		year_offered = EXCLUDED.year_offered,
		updated_at = NOW()`

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// ListPaginated returns one page of matching courses and the total match count.
func (r *CourseRepository) ListPaginated(ctx context.Context, f model.FilterSet, p model.Pagination) ([]model.Course, int, error) {
	// 1. Get total count
	countSQL, countArgs := buildCountQuery(f)
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	// 2. Get paginated data
	pageSQL, pageArgs := buildPageQuery(f, p)
	courses, err := r.query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListTop returns at most limit matching courses in catalog order.
func (r *CourseRepository) ListTop(ctx context.Context, f model.FilterSet, limit int) ([]model.Course, error) {
	sql, args := buildTopQuery(f, limit)
	return r.query(ctx, sql, args...)
}

// GetByIDs returns the courses whose id is in ids, ordered by the first
// position of each id in the request. Unknown ids are skipped.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	return r.query(ctx,
		`SELECT `+courseSelectColumns+` FROM courses
		 WHERE course_id = ANY($1::text[])
		 ORDER BY array_position($1::text[], course_id::text)`, ids)
}

// UpsertBatch inserts or fully overwrites every course inside one transaction.
// Either all rows commit or none do.
func (r *CourseRepository) UpsertBatch(ctx context.Context, courses []model.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, c := range courses {
		batch.Queue(upsertCourseSQL,
			c.CourseID, c.CourseName, c.Department, string(c.Level), string(c.DeliveryMode),
			c.Credits, c.DurationWeeks, c.Rating, c.TuitionFeeINR, c.YearOffered,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for _, c := range courses {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("upsert course %q: %w", c.CourseID, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(courses), nil
}

func (r *CourseRepository) query(ctx context.Context, sql string, args ...interface{}) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var (
			c           model.Course
			level, mode string
		)
		if err := rows.Scan(&c.CourseID, &c.CourseName, &c.Department, &level, &mode,
			&c.Credits, &c.DurationWeeks, &c.Rating, &c.TuitionFeeINR, &c.YearOffered); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		c.Level = model.Level(level)
		c.DeliveryMode = model.DeliveryMode(mode)
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
