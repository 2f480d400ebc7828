// Package sqldoc implements docstore.Client on a relational database through
// GORM. Every document lives in a single "documents" table keyed by
// (collection, id) with its fields in a JSON column.
package sqldoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// timeLayout is fixed width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// record is the row layout of the documents table.
type record struct {
	Collection string         `gorm:"primaryKey;size:64"`
	ID         string         `gorm:"primaryKey;size:64"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (record) TableName() string { return "documents" }

// Store is a docstore.Client backed by a *gorm.DB.
type Store struct {
	db      *gorm.DB
	dialect dialect
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps db and creates the documents table when it is missing.
func New(db *gorm.DB, opts ...Option) (*Store, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	s := &Store{db: db, dialect: dialectFor(db.Dialector.Name()), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var _ docstore.Client = (*Store)(nil)

// Get returns docstore.ErrNotFound when the document does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var r record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDocument(r)
}

// Run executes q and returns the matching documents in order.
func (s *Store) Run(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx).Model(&record{}).Where("collection = ?", q.Collection)
	for _, f := range q.Filters {
		db = s.dialect.where(db, f.Field, storeValue(f.Value, s.now))
	}

	if q.OrderField != "" {
		expr := s.dialect.field(q.OrderField)
		dir := q.OrderDir.String()
		db = db.Where(expr + " IS NOT NULL")
		if q.AfterID != "" {
			var v any
			if len(q.AfterVals) > 0 {
				v = storeValue(q.AfterVals[0], s.now)
			}
			db = s.dialect.after(db, q.OrderField, q.OrderDir, v, q.AfterID)
		}
		db = db.Order(expr + " " + dir).Order("id " + dir)
	} else {
		db = db.Order("id asc")
	}
	if q.Max > 0 {
		db = db.Limit(q.Max)
	}

	var rows []record
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		d, err := toDocument(r)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, nil
}

// Add stores data under a new random id.
func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Create inserts the document. A taken (collection, id) key is left as it
// was and reported as docstore.ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := encode(data, s.now)
	if err != nil {
		return err
	}
	r := record{Collection: collection, ID: id, Data: raw}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&r)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return docstore.ErrAlreadyExists
	}
	return nil
}

// Update merges the top-level fields of data into the stored document.
func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) error {
	return pkg.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var r record
		err := tx.Where("collection = ? AND id = ?", collection, id).Take(&r).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return docstore.ErrNotFound
		}
		if err != nil {
			return err
		}

		current := map[string]any{}
		if err := json.Unmarshal(r.Data, &current); err != nil {
			return fmt.Errorf("decode document %s/%s: %w", collection, id, err)
		}
		for k, v := range data {
			current[k] = v
		}
		raw, err := encode(current, s.now)
		if err != nil {
			return err
		}
		return tx.Model(&record{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": raw, "updated_at": s.now()}).Error
	})
}

// Delete removes the document if present.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&record{}).Error
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toDocument(r record) (*docstore.Document, error) {
	data := map[string]any{}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", r.Collection, r.ID, err)
		}
	}
	return &docstore.Document{ID: r.ID, Data: data}, nil
}

// encode resolves sentinels and times and renders data as JSON.
func encode(data map[string]any, now func() time.Time) (datatypes.JSON, error) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = storeValue(v, now)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return datatypes.JSON(b), nil
}

// storeValue converts v to the representation kept in the JSON column.
func storeValue(v any, now func() time.Time) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(timeLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(timeLayout)
	}
	if docstore.IsServerTimestamp(v) {
		return now().UTC().Format(timeLayout)
	}
	return v
}

// dialect renders JSON field access for one SQL engine.
type dialect interface {
	field(name string) string
	where(db *gorm.DB, name string, v any) *gorm.DB
	after(db *gorm.DB, name string, dir docstore.Direction, v any, id string) *gorm.DB
}

func dialectFor(name string) dialect {
	if name == "postgres" {
		return postgresDialect{}
	}
	return sqliteDialect{}
}

func comparator(dir docstore.Direction) string {
	if dir == docstore.Desc {
		return "<"
	}
	return ">"
}

type sqliteDialect struct{}

func (sqliteDialect) field(name string) string {
	return `json_extract(data, '$."` + name + `"')`
}

func (d sqliteDialect) where(db *gorm.DB, name string, v any) *gorm.DB {
	expr := d.field(name)
	if v == nil {
		return db.Where(expr + " IS NULL")
	}
	return db.Where(expr+" = ?", v)
}

func (d sqliteDialect) after(db *gorm.DB, name string, dir docstore.Direction, v any, id string) *gorm.DB {
	expr := d.field(name)
	op := comparator(dir)
	return db.Where(fmt.Sprintf("(%s %s ? OR (%s = ? AND id %s ?))", expr, op, expr, op), v, v, id)
}

type postgresDialect struct{}

func (postgresDialect) field(name string) string {
	return "data->'" + strings.ReplaceAll(name, "'", "") + "'"
}

func (d postgresDialect) where(db *gorm.DB, name string, v any) *gorm.DB {
	b, _ := json.Marshal(v)
	return db.Where(d.field(name)+" = ?::jsonb", string(b))
}

func (d postgresDialect) after(db *gorm.DB, name string, dir docstore.Direction, v any, id string) *gorm.DB {
	expr := d.field(name)
	op := comparator(dir)
	b, _ := json.Marshal(v)
	return db.Where(fmt.Sprintf("(%s %s ?::jsonb OR (%s = ?::jsonb AND id %s ?))", expr, op, expr, op), string(b), string(b), id)
}
