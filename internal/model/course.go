package model

// Level is the course tier.
type Level string

const (
	LevelUG Level = "UG"
	LevelPG Level = "PG"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	return l == LevelUG || l == LevelPG
}

// ParseLevel returns the level for s and whether it is a known value. Matching is exact.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	return l, l.Valid()
}

// DeliveryMode is the instruction format of a course.
type DeliveryMode string

const (
	DeliveryOnline  DeliveryMode = "online"
	DeliveryOffline DeliveryMode = "offline"
	DeliveryHybrid  DeliveryMode = "hybrid"
)

// Valid reports whether m is one of the known delivery modes.
func (m DeliveryMode) Valid() bool {
	switch m {
	case DeliveryOnline, DeliveryOffline, DeliveryHybrid:
		return true
	}
	return false
}

// ParseDeliveryMode returns the mode for s and whether it is a known value. Matching is exact.
func ParseDeliveryMode(s string) (DeliveryMode, bool) {
	m := DeliveryMode(s)
	return m, m.Valid()
}

// Course is one offered course. CourseID is the primary key.
type Course struct {
	CourseID      string       `json:"course_id"`
	CourseName    string       `json:"course_name"`
	Department    string       `json:"department"`
	Level         Level        `json:"level"`
	DeliveryMode  DeliveryMode `json:"delivery_mode"`
	Credits       int          `json:"credits"`
	DurationWeeks int          `json:"duration_weeks"`
	Rating        float64      `json:"rating"`
	TuitionFeeINR int          `json:"tuition_fee_inr"`
	YearOffered   int          `json:"year_offered"`
}

// CourseColumns lists the table columns in schema order. It doubles as the
// required CSV header set for ingest.
var CourseColumns = []string{
	"course_id",
	"course_name",
	"department",
	"level",
	"delivery_mode",
	"credits",
	"duration_weeks",
	"rating",
	"tuition_fee_inr",
	"year_offered",
}

// AskRequest is the payload for the free-text course query.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// CourseListResponse is returned by the list endpoint.
type CourseListResponse struct {
	Items    []Course `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// CompareResponse is returned by the compare endpoint.
type CompareResponse struct {
	Items []Course `json:"items"`
}

// AskResponse echoes the extracted filters alongside the matches.
// Message is null unless Items is empty.
type AskResponse struct {
	Filters FilterSet `json:"filters"`
	Items   []Course  `json:"items"`
	Message *string   `json:"message"`
}

// IngestResponse reports how many rows were upserted.
type IngestResponse struct {
	Inserted int `json:"inserted"`
}
