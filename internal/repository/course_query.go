package repository

import (
	"strconv"
	"strings"

	"github.com/stemsi/course-catalog/internal/model"
)

const courseSelectColumns = `course_id, course_name, department, level, delivery_mode, credits,
		duration_weeks, rating, tuition_fee_inr, year_offered`

// courseOrder sorts by name and breaks ties on the primary key so that
// LIMIT/OFFSET pages never overlap or skip rows.
const courseOrder = ` ORDER BY course_name ASC, course_id ASC`

// courseQuery accumulates AND-ed predicates and their positional arguments.
type courseQuery struct {
	conds []string
	args  []interface{}
}

// arg appends v and returns its placeholder ($1, $2, ...).
func (q *courseQuery) arg(v interface{}) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *courseQuery) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// newCourseQuery composes the predicate for every present filter key.
// Level and delivery mode values outside their enums are dropped, not rejected.
// Integer bounds are bound as bigint so values past the int4 columns still compare.
func newCourseQuery(f model.FilterSet) *courseQuery {
	q := &courseQuery{}

	if f.Search != nil && *f.Search != "" {
		p := q.arg(containsPattern(*f.Search))
		q.conds = append(q.conds, "(course_name ILIKE "+p+" OR department ILIKE "+p+")")
	}
	if f.Department != nil && *f.Department != "" {
		q.conds = append(q.conds, "department ILIKE "+q.arg(containsPattern(*f.Department)))
	}
	if f.Level != nil && f.Level.Valid() {
		q.conds = append(q.conds, "level = "+q.arg(string(*f.Level)))
	}
	if f.DeliveryMode != nil && f.DeliveryMode.Valid() {
		q.conds = append(q.conds, "delivery_mode = "+q.arg(string(*f.DeliveryMode)))
	}
	if f.MinCredits != nil {
		q.conds = append(q.conds, "credits >= "+q.arg(*f.MinCredits)+"::bigint")
	}
	if f.MaxCredits != nil {
		q.conds = append(q.conds, "credits <= "+q.arg(*f.MaxCredits)+"::bigint")
	}
	if f.MaxFee != nil {
		q.conds = append(q.conds, "tuition_fee_inr <= "+q.arg(*f.MaxFee)+"::bigint")
	}
	if f.MinRating != nil {
		q.conds = append(q.conds, "rating >= "+q.arg(*f.MinRating))
	}
	if f.YearOffered != nil {
		q.conds = append(q.conds, "year_offered = "+q.arg(*f.YearOffered)+"::bigint")
	}

	return q
}

// buildCountQuery counts every match, ignoring pagination.
func buildCountQuery(f model.FilterSet) (string, []interface{}) {
	q := newCourseQuery(f)
	return `SELECT COUNT(*) FROM courses` + q.where(), q.args
}

// buildPageQuery selects one sorted page of matches.
func buildPageQuery(f model.FilterSet, p model.Pagination) (string, []interface{}) {
	q := newCourseQuery(f)
	sql := `SELECT ` + courseSelectColumns + ` FROM courses` + q.where() + courseOrder
	sql += ` LIMIT ` + q.arg(p.PageSize) + ` OFFSET ` + q.arg(p.Offset())
	return sql, q.args
}

// buildTopQuery selects the first limit sorted matches.
func buildTopQuery(f model.FilterSet, limit int) (string, []interface{}) {
	q := newCourseQuery(f)
	sql := `SELECT ` + courseSelectColumns + ` FROM courses` + q.where() + courseOrder
	sql += ` LIMIT ` + q.arg(limit)
	return sql, q.args
}

// containsPattern wraps s for a substring ILIKE, escaping LIKE metacharacters
// so that user input is matched literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
