// Package apifeatures turns list query-string parameters into a filtered,
// searched, sorted and paginated GORM query.
//
// Stages can be enabled in any order; they are always applied as
// filter -> search -> sort -> paginate when the query runs.
package apifeatures

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Reserved query keys; every other key is a filter.
const (
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
	ParamSearch   = "search"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var operators = map[string]string{
	"":     "=",
	"eq":   "=",
	"ne":   "<>",
	"gt":   ">",
	"gte":  ">=",
	"lt":   "<",
	"lte":  "<=",
	"like": "LIKE",
}

// Meta is the pagination block of a page.
type Meta struct {
	Total           int64   `json:"total"`
	PerPage         int     `json:"per_page"`
	CurrentPage     int     `json:"current_page"`
	LastPage        int     `json:"last_page"`
	FirstPage       int     `json:"first_page"`
	FirstPageURL    string  `json:"first_page_url"`
	LastPageURL     string  `json:"last_page_url"`
	NextPageURL     *string `json:"next_page_url"`
	PreviousPageURL *string `json:"previous_page_url"`
}

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// Composer collects the stages to apply to a base query.
var schemas sync.Map

type Composer struct {
	base   *gorm.DB
	params map[string]string

	filterable map[string]bool
	sortable   map[string]bool

	filter   bool
	search   []string
	sortDef  string
	sort     bool
	paginate bool
	pageSize int
}

// New starts a composer over base (already scoped to the rows the caller may
// see) using the raw query parameters.
func New(base *gorm.DB, params map[string]string) *Composer {
	if params == nil {
		params = map[string]string{}
	}
	return &Composer{base: base, params: params, pageSize: DefaultPageSize}
}

// Filtering enables equality/operator filters on the given columns.
// Keys look like "city=Noida" or "base_price[gte]=100".
func (c *Composer) Filtering(columns ...string) *Composer {
	c.filter = true
	c.filterable = toSet(columns)
	return c
}

// Searching enables a LIKE search of the "search" parameter over columns.
func (c *Composer) Searching(columns ...string) *Composer {
	c.search = columns
	return c
}

// Sorting enables "sort=col" / "sort=-col" over the given columns. Without a
// sort parameter rows are ordered by defaultColumn descending.
func (c *Composer) Sorting(defaultColumn string, columns ...string) *Composer {
	c.sort = true
	c.sortDef = defaultColumn
	c.sortable = toSet(append(columns, defaultColumn))
	return c
}

// Pagination enables page/pageSize with the endpoint's default page size.
func (c *Composer) Pagination(defaultPageSize int) *Composer {
	c.paginate = true
	if defaultPageSize > 0 {
		c.pageSize = defaultPageSize
	}
	return c
}

// Find runs the composed query for model T. scopes (preloads, column
// selection) only apply to the data query, never to the count.
func Find[T any](ctx context.Context, c *Composer, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	q := c.base.WithContext(ctx).Model(new(T))

	if c.filter {
		sch, err := schema.Parse(new(T), &schemas, c.base.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}
		if q, err = c.applyFilters(q, sch); err != nil {
			return nil, err
		}
	}
	if term := strings.TrimSpace(c.params[ParamSearch]); term != "" && len(c.search) > 0 {
		q = applySearch(q, c.search, term)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	data := q
	if c.sort {
		var err error
		if data, err = c.applySort(data); err != nil {
			return nil, err
		}
	}

	page, perPage := 1, int(total)
	if c.paginate {
		page, perPage = c.pageParams()
		data = data.Offset((page - 1) * perPage).Limit(perPage)
	}
	for _, s := range scopes {
		data = s(data)
	}

	rows := make([]T, 0)
	if err := data.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return &Page[T]{Meta: buildMeta(c.params, total, page, perPage), Data: rows}, nil
}

func (c *Composer) applyFilters(q *gorm.DB, sch *schema.Schema) (*gorm.DB, error) {
	for key, value := range c.params {
		switch key {
		case ParamSort, ParamPage, ParamPageSize, ParamSearch:
			continue
		}
		col, op, err := parseFilterKey(key)
		if err != nil {
			return nil, err
		}
		if !c.filterable[col] {
			return nil, apperr.Field(key, "is not a filterable field")
		}
		var v interface{} = "%" + value + "%"
		if op != "LIKE" {
			if v, err = convert(sch.LookUpField(col), value); err != nil {
				return nil, apperr.Field(key, err.Error())
			}
		}
		q = q.Where(clause.Expr{
			SQL:  "? " + op + " ?",
			Vars: []interface{}{clause.Column{Table: clause.CurrentTable, Name: col}, v},
		})
	}
	return q, nil
}

// convert parses a raw query value into the column's Go type. Columns the
// model does not declare keep the raw string.
func convert(f *schema.Field, raw string) (interface{}, error) {
	if f == nil {
		return raw, nil
	}
	switch f.DataType {
	case schema.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("must be true or false")
		}
		return b, nil
	case schema.Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("must be an integer")
		}
		return n, nil
	case schema.Uint:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.New("must be a non-negative integer")
		}
		return n, nil
	case schema.Float:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return n, nil
	}
	return raw, nil
}

// parseFilterKey splits "col[op]" into column and SQL operator.
func parseFilterKey(key string) (string, string, error) {
	col, opName := key, ""
	if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
		col, opName = key[:i], key[i+1:len(key)-1]
	}
	op, ok := operators[strings.ToLower(opName)]
	if !ok {
		return "", "", apperr.Field(key, "unsupported operator "+opName)
	}
	return col, op, nil
}

func applySearch(q *gorm.DB, columns []string, term string) *gorm.DB {
	like := "%" + term + "%"
	exprs := make([]clause.Expression, 0, len(columns))
	for _, col := range columns {
		exprs = append(exprs, clause.Like{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Value: like})
	}
	if len(exprs) == 1 {
		// a single-expression OR would be joined to earlier conditions with OR
		return q.Where(exprs[0])
	}
	return q.Where(clause.Or(exprs...))
}

func (c *Composer) applySort(q *gorm.DB) (*gorm.DB, error) {
	col, desc := c.sortDef, true
	if s := strings.TrimSpace(c.params[ParamSort]); s != "" {
		desc = strings.HasPrefix(s, "-")
		col = strings.TrimPrefix(s, "-")
		if !c.sortable[col] {
			return nil, apperr.Field(ParamSort, "is not a sortable field")
		}
	}
	if col == "" {
		return q, nil
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Desc: desc})
	if col != "id" {
		// tie-breaker keeps pages disjoint when the sort column repeats
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: desc})
	}
	return q, nil
}

func (c *Composer) pageParams() (int, int) {
	page, err := strconv.Atoi(c.params[ParamPage])
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.params[ParamPageSize])
	if err != nil || size < 1 {
		size = c.pageSize
	}
	limit := MaxPageSize
	if c.pageSize > limit {
		limit = c.pageSize
	}
	if size > limit {
		size = limit
	}
	return page, size
}

func buildMeta(params map[string]string, total int64, page, perPage int) Meta {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int(math.Ceil(float64(total) / float64(perPage)))
	}
	m := Meta{
		Total:        total,
		PerPage:      perPage,
		CurrentPage:  page,
		LastPage:     lastPage,
		FirstPage:    1,
		FirstPageURL: pageURL(params, 1),
		LastPageURL:  pageURL(params, lastPage),
	}
	if page < lastPage {
		u := pageURL(params, page+1)
		m.NextPageURL = &u
	}
	if page > 1 {
		u := pageURL(params, page-1)
		m.PreviousPageURL = &u
	}
	return m
}

// pageURL is a query-only reference, so it resolves against the path of the
// request that produced the page and keeps its filters, search and sort.
func pageURL(params map[string]string, page int) string {
	q := make(url.Values, len(params)+1)
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set(ParamPage, strconv.Itoa(page))
	return "?" + q.Encode()
}

func toSet(cols []string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c != "" {
			m[c] = true
		}
	}
	return m
}
