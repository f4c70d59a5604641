package params

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMissing = errors.New("missing query parameter")
	ErrInvalid = errors.New("invalid query parameter")
)

// URL: /v1/venues/{id}/reviews?page=2&limit=20
// → ParsePagination() → Pagination{Limit:20, Page:2, Offset:20}
// → SQL: ... LIMIT 20 OFFSET 20
// → ComputeMeta(total) → fills TotalPages, HasNext, etc.
type Pagination struct {
	Limit      int  `json:"limit"`       // items per page
	Offset     int  `json:"offset"`      // SQL OFFSET value
	Page       int  `json:"page"`        // Current Page number
	Total      int  `json:"total"`       // Total items in database
	TotalPages int  `json:"total_pages"` // Total pages available
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination parses ?limit=...&page=... safely. Keys are case sensitive.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: 15, // default
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = 15
			case limit > 30:
				p.Limit = 30
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// Float parses a finite float. ok is false when the key is absent or blank.
func Float(q url.Values, key string) (v float64, ok bool, err error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("%w: %s must be a number", ErrInvalid, key)
	}
	return v, true, nil
}

// RequiredFloat is Float that fails with ErrMissing when absent.
func RequiredFloat(q url.Values, key string) (float64, error) {
	v, ok, err := Float(q, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrMissing, key)
	}
	return v, nil
}

// Location reads the required lat and lng parameters.
func Location(q url.Values) (lat, lng float64, err error) {
	if lat, err = RequiredFloat(q, "lat"); err != nil {
		return 0, 0, err
	}
	if lng, err = RequiredFloat(q, "lng"); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

// Radius reads ?radius= in meters. Absent yields 0 so the caller's default
// applies; a present value must be positive.
func Radius(q url.Values) (float64, error) {
	v, ok, err := Float(q, "radius")
	if err != nil || !ok {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: radius must be positive", ErrInvalid)
	}
	return v, nil
}

// UUIDList parses a comma separated id list. Blank entries are skipped, so
// "?teamIds=" yields an empty, non-nil slice.
func UUIDList(q url.Values, key string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, part := range strings.Split(q.Get(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %s contains %q", ErrInvalid, key, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// OptionalUUID returns nil when the key is absent or blank.
func OptionalUUID(q url.Values, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid id", ErrInvalid, key)
	}
	return &id, nil
}
