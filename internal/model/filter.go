package model

// FilterSet is the optional-key predicate bundle shared by list, ask and
// (indirectly) compare. A nil field imposes no constraint and is omitted from JSON.
type FilterSet struct {
	Level        *Level        `json:"level,omitempty"`
	DeliveryMode *DeliveryMode `json:"delivery_mode,omitempty"`
	Department   *string       `json:"department,omitempty"`
	MaxFee       *int          `json:"max_fee,omitempty"`
	MinRating    *float64      `json:"min_rating,omitempty"`
	Search       *string       `json:"search,omitempty"`
	MinCredits   *int          `json:"min_credits,omitempty"`
	MaxCredits   *int          `json:"max_credits,omitempty"`
	YearOffered  *int          `json:"year_offered,omitempty"`
}

// IsEmpty reports whether no key is present.
func (f FilterSet) IsEmpty() bool {
	return f == FilterSet{}
}

// Pagination is a normalised page request.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
