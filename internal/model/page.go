package model

// Pagination is the envelope describing one window of a paginated listing.
// TotalPages is total/pageSize floored at 1 and is not rounded up, so it can
// be fractional (25 rows at 10 per page gives 2.5).
type Pagination struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	Total      int64   `json:"total"`
	TotalPages float64 `json:"totalPages"`
}

// Page is the result of a paginated query.
type Page struct {
	Data       []any      `json:"data"`
	Pagination Pagination `json:"pagination"`
}
