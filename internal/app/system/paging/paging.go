// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// PageSize is the default number of rows per listing page.
	PageSize = 50
	// MaxPageSize caps the ?limit= a client may ask for.
	MaxPageSize = 200
)

// Params is the paging part of a list request: ?limit=&after=&before=.
type Params struct {
	Limit  int
	Before string
	After  string
}

// ParseParams reads paging parameters from the query string. A missing or
// invalid limit falls back to PageSize; a large one is capped.
func ParseParams(r *http.Request) Params {
	p := Params{
		Limit:  PageSize,
		Before: query.Get(r, "before"),
		After:  query.Get(r, "after"),
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Params) size() int {
	if p.Limit <= 0 {
		return PageSize
	}
	return p.Limit
}

// LimitPlusOne is the look-ahead fetch size used to detect another page.
func (p Params) LimitPlusOne() int64 { return int64(p.size() + 1) }

// Result holds the output of TrimPage for keyset pagination.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage trims a fetched slice of up to Limit+1 rows in place.
//
// When going backwards (Before != ""):
//   - If len > Limit, trim the first element (older page exists)
//   - HasNext is always true (we came from somewhere)
//
// When going forwards or on first page:
//   - If len > Limit, trim to Limit (next page exists)
//   - HasPrev is true only if After != ""
func TrimPage[T any](rows *[]T, p Params) Result {
	size := p.size()
	var res Result

	if p.Before != "" {
		if len(*rows) > size {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
	} else {
		if len(*rows) > size {
			*rows = (*rows)[:size]
			res.HasNext = true
		}
		res.HasPrev = p.After != ""
	}
	return res
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // sort ascending, "gt" cursor
	Backward                  // sort descending, "lt" cursor
)

// KeysetConfig is the query shape for one page.
type KeysetConfig struct {
	Direction Direction
	SortOrder int
	Cursor    *wafflemongo.Cursor
	Limit     int64
}

// Keyset determines direction and decodes the cursor. Before wins over
// After. An undecodable cursor is ignored and the first page is served.
func (p Params) Keyset() KeysetConfig {
	cfg := KeysetConfig{Direction: Forward, SortOrder: 1, Limit: p.LimitPlusOne()}

	switch {
	case p.Before != "":
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(p.Before); ok {
			cfg.Cursor = &c
		}
	case p.After != "":
		if c, ok := wafflemongo.DecodeCursor(p.After); ok {
			cfg.Cursor = &c
		}
	}
	return cfg
}

// ApplyToFind sets sort (sortField then _id) and the look-ahead limit.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(cfg.Limit)
}

// KeysetWindow returns the cursor condition for the filter, or nil.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Reverse reverses a slice in place.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last rows.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}

// Page is the JSON envelope for a paged listing. Prev and Next are set
// only when that page exists.
type Page[T any] struct {
	Items []T    `json:"items"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// Finish turns the raw rows of a keyset query into a Page: it restores
// ascending order after a backward fetch, trims the look-ahead row and
// builds the cursors.
func Finish[T any](rows []T, p Params, keyFn func(T) string, idFn func(T) primitive.ObjectID) Page[T] {
	if p.Before != "" {
		Reverse(rows)
	}
	res := TrimPage(&rows, p)
	if rows == nil {
		rows = []T{}
	}
	page := Page[T]{Items: rows}
	prev, next := BuildCursors(rows, keyFn, idFn)
	if res.HasPrev {
		page.Prev = prev
	}
	if res.HasNext {
		page.Next = next
	}
	return page
}
