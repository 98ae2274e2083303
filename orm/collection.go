package orm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bioserver/dao"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var schemaCache sync.Map

// Collection stores T as rows of one table. Field names used by callers are
// the document names (camelCase, "_id"); they are mapped to columns here.
type Collection[T any] struct {
	db     *gorm.DB
	name   string
	schema *schema.Schema
}

func NewCollection[T any](db *gorm.DB, name string) (*Collection[T], error) {
	s, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema for %s: %w", name, err)
	}
	return &Collection[T]{db: db, name: name, schema: s}, nil
}

// Migrate creates or alters the table to match T.
func (c *Collection[T]) Migrate() error {
	return c.db.Table(c.name).AutoMigrate(new(T))
}

func (c *Collection[T]) Name() string {
	return c.name
}

// column maps a document field name to a known column, or "" when T has none.
func (c *Collection[T]) column(field string) string {
	if field == "_id" {
		return "id"
	}
	col := c.db.NamingStrategy.ColumnName("", field)
	if _, ok := c.schema.FieldsByDBName[col]; !ok {
		return ""
	}
	return col
}

func (c *Collection[T]) table(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Table(c.name)
}

func (c *Collection[T]) PagedFind(ctx context.Context, q dao.PageQuery) (*dao.Page[T], error) {
	q = q.Normalize()

	var total int64
	if err := c.table(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", c.name, err)
	}

	tx := c.table(ctx)
	for _, f := range dao.ParseSort(q.Sort) {
		if col := c.column(f.Name); col != "" {
			tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.Desc})
		}
	}
	if fields := dao.ParseFields(q.Fields); len(fields) > 0 {
		cols := []string{"id"}
		for _, f := range fields {
			if col := c.column(f); col != "" && col != "id" {
				cols = append(cols, col)
			}
		}
		tx = tx.Select(cols)
	}

	var docs []T
	if err := tx.Offset(q.Skip()).Limit(q.Limit).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	return dao.NewPage(docs, q, total), nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.table(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, c.wrap("find", err)
	}
	return &doc, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if err := c.table(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("insert %s: %w", c.name, err)
	}
	return nil
}

func (c *Collection[T]) FindByIDAndUpdate(ctx context.Context, id string, set map[string]any) (*T, error) {
	cols := make(map[string]any, len(set))
	for k, v := range set {
		col := c.column(k)
		if col == "" || col == "id" {
			continue
		}
		cols[col] = v
	}

	var doc T
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(c.name).Where("id = ?", id).First(&doc).Error; err != nil {
			return err
		}
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Table(c.name).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		doc = *new(T)
		return tx.Table(c.name).Where("id = ?", id).First(&doc).Error
	})
	if err != nil {
		return nil, c.wrap("update", err)
	}
	return &doc, nil
}

func (c *Collection[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	var doc T
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(c.name).Where("id = ?", id).First(&doc).Error; err != nil {
			return err
		}
		return tx.Table(c.name).Where("id = ?", id).Delete(new(T)).Error
	})
	if err != nil {
		return nil, c.wrap("delete", err)
	}
	return &doc, nil
}

func (c *Collection[T]) wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dao.ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, c.name, err)
}
