package dao

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

const (
	DefaultSort  = "_id"
	DefaultLimit = 20
	DefaultPage  = 1
)

// Collection is the store surface every resource is built on. Implementations
// exist for MongoDB (MongoCollection) and for SQL through gorm (orm.Collection).
type Collection[T any] interface {
	Name() string
	PagedFind(ctx context.Context, q PageQuery) (*Page[T], error)
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) error
	// FindByIDAndUpdate applies set (keyed by document field name) and returns
	// the updated document.
	FindByIDAndUpdate(ctx context.Context, id string, set map[string]any) (*T, error)
	FindByIDAndDelete(ctx context.Context, id string) (*T, error)
}

// PageQuery selects one sorted page of a collection.
// Sort and Fields are lists of field names separated by spaces or commas;
// a "-" prefix on a sort field means descending.
type PageQuery struct {
	Sort   string
	Fields string
	Limit  int
	Page   int
}

// Normalize fills in defaults for zero or negative values.
func (q PageQuery) Normalize() PageQuery {
	if strings.TrimSpace(q.Sort) == "" {
		q.Sort = DefaultSort
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	return q
}

// Skip is the number of documents before the requested page.
func (q PageQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

type SortField struct {
	Name string
	Desc bool
}

func ParseSort(s string) []SortField {
	var out []SortField
	for _, f := range splitFields(s) {
		desc := strings.HasPrefix(f, "-")
		f = strings.TrimLeft(f, "+-")
		if f == "" {
			continue
		}
		out = append(out, SortField{Name: f, Desc: desc})
	}
	if len(out) == 0 {
		out = []SortField{{Name: DefaultSort}}
	}
	return out
}

func ParseFields(s string) []string {
	return splitFields(s)
}

func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

type Page[T any] struct {
	Data  []T      `json:"data"`
	Pages PageInfo `json:"pages"`
	Items ItemInfo `json:"items"`
}

type PageInfo struct {
	Current int  `json:"current"`
	Prev    int  `json:"prev"`
	HasPrev bool `json:"hasPrev"`
	Next    int  `json:"next"`
	HasNext bool `json:"hasNext"`
	Total   int  `json:"total"`
}

type ItemInfo struct {
	Limit int `json:"limit"`
	Begin int `json:"begin"`
	End   int `json:"end"`
	Total int `json:"total"`
}

// NewPage builds the paging envelope for data, the q page out of total documents.
func NewPage[T any](data []T, q PageQuery, total int64) *Page[T] {
	q = q.Normalize()
	if data == nil {
		data = []T{}
	}
	count := int(total)
	p := &Page[T]{Data: data}

	p.Pages.Current = q.Page
	p.Pages.Total = (count + q.Limit - 1) / q.Limit
	p.Pages.Next = q.Page + 1
	p.Pages.HasNext = p.Pages.Next <= p.Pages.Total
	p.Pages.Prev = q.Page - 1
	p.Pages.HasPrev = p.Pages.Prev != 0

	p.Items.Limit = q.Limit
	p.Items.Total = count
	p.Items.Begin = q.Skip() + 1
	p.Items.End = q.Page * q.Limit
	if p.Items.Begin > count {
		p.Items.Begin = count
	}
	if p.Items.End > count {
		p.Items.End = count
	}
	return p
}
