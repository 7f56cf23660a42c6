// Package query shapes untrusted list-request parameters into bounded GORM
// queries: filtering, sorting, field projection and pagination.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
)

const (
	// DefaultSort orders newest first when the descriptor has no sort key.
	DefaultSort = "-createdAt"
	// DefaultLimit is the page size when the descriptor has no limit key.
	// Mirrors the reference behavior: no upper bound is enforced.
	DefaultLimit = 20
)

// reserved keys are pipeline directives, never filter fields.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// range operators accepted inside bracketed keys, e.g. price[gte]=10.
var rangeOperators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// Features applies a query descriptor to a collection query. Field names are
// resolved through an explicit field-to-column map; anything outside it is
// rejected, which keeps descriptor content out of the generated SQL.
type Features struct {
	values  url.Values
	columns map[string]string
	always  []string
}

// New builds Features over the raw query values. columns maps exposed field
// names to their storage columns and doubles as the allow-list. always names
// fields that stay projected regardless of the fields directive, e.g. the id
// and role columns authorization depends on.
func New(values url.Values, columns map[string]string, always ...string) *Features {
	return &Features{values: values, columns: columns, always: always}
}

// Apply runs the full pipeline: filter, sort, projection, pagination.
// excluded names descriptor keys the caller wants stripped in addition to
// the reserved directives.
func (f *Features) Apply(db *gorm.DB, excluded ...string) (*gorm.DB, error) {
	db, err := f.Filter(db, excluded...)
	if err != nil {
		return nil, err
	}
	db, err = f.Sort(db)
	if err != nil {
		return nil, err
	}
	db, err = f.SelectFields(db)
	if err != nil {
		return nil, err
	}
	return f.Paginate(db), nil
}

// Filter turns the remaining descriptor keys into constraints. Plain keys
// become equality matches; bracketed keys carry one of gt/gte/lt/lte. An
// unknown field or operator is rejected with a validation error.
func (f *Features) Filter(db *gorm.DB, excluded ...string) (*gorm.DB, error) {
	skip := make(map[string]bool, len(excluded))
	for _, key := range excluded {
		skip[key] = true
	}

	for key, vals := range f.values {
		if reserved[key] || skip[key] || len(vals) == 0 {
			continue
		}

		field, op := splitOperator(key)
		column, ok := f.columns[field]
		if !ok {
			return nil, apperrors.Validation("unknown filter field: %s", field)
		}

		if op == "" {
			db = db.Where(column+" = ?", vals[0])
			continue
		}

		sqlOp, ok := rangeOperators[op]
		if !ok {
			return nil, apperrors.Validation("unknown filter operator: %s", op)
		}
		db = db.Where(column+" "+sqlOp+" ?", vals[0])
	}
	return db, nil
}

// Sort applies the comma-separated sort directive, each entry optionally
// prefixed with - for descending. Defaults to newest first.
func (f *Features) Sort(db *gorm.DB) (*gorm.DB, error) {
	sortBy := f.values.Get("sort")
	if sortBy == "" {
		sortBy = DefaultSort
	}

	for _, entry := range strings.Split(sortBy, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		field, desc := entry, false
		if strings.HasPrefix(entry, "-") {
			field, desc = entry[1:], true
		}
		column, ok := f.columns[field]
		if !ok {
			return nil, apperrors.Validation("unknown sort field: %s", field)
		}
		if desc {
			column += " DESC"
		}
		db = db.Order(column)
	}
	return db, nil
}

// SelectFields applies the comma-separated inclusion list. Without a fields
// directive every mapped column is selected, which leaves only internal meta
// columns out. Fields listed in always are selected regardless.
func (f *Features) SelectFields(db *gorm.DB) (*gorm.DB, error) {
	requested := f.values.Get("fields")

	var fields []string
	if requested == "" {
		for field := range f.columns {
			fields = append(fields, field)
		}
	} else {
		for _, field := range strings.Split(requested, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if _, ok := f.columns[field]; !ok {
				return nil, apperrors.Validation("unknown field: %s", field)
			}
			fields = append(fields, field)
		}
		fields = append(fields, f.always...)
	}

	columns := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		column := f.columns[field]
		if seen[column] {
			continue
		}
		seen[column] = true
		columns = append(columns, column)
	}
	// stable order keeps generated SQL deterministic
	sort.Strings(columns)
	return db.Select(columns), nil
}

// Paginate applies page and limit with skip = (page-1)*limit. Missing or
// malformed values fall back to page 1 and the default limit.
func (f *Features) Paginate(db *gorm.DB) *gorm.DB {
	page := positiveInt(f.values.Get("page"), 1)
	limit := positiveInt(f.values.Get("limit"), DefaultLimit)
	return db.Offset((page - 1) * limit).Limit(limit)
}

// splitOperator splits "price[gte]" into ("price", "gte"). A key without
// brackets returns an empty operator.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
