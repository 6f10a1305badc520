package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sqlEventRow is the AutoMigrate-managed table backing SQLBackend. The whole
// event is stored as one JSON text column; name, category, severity and
// timestamp are duplicated as indexed columns. Filters are not pushed down
// to SQL: they are evaluated in Go over the decoded rows.
type sqlEventRow struct {
	ID         string `gorm:"primaryKey;size:32"`
	Name       string `gorm:"index"`
	Category   string `gorm:"index"`
	Severity   string `gorm:"index"`
	TimestampMS int64 `gorm:"index"`
	Document   string // full event JSON, source of truth on read
}

func (sqlEventRow) TableName() string { return "agentcore_events" }

// SQLBackend is an enrichment StorageBackend over a pure-Go SQLite database
// (no cgo), a durable local alternative to the append-log file backend that,
// unlike it, supports deletes. Filtered queries still scan every row.
type SQLBackend struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSQLBackend opens (and auto-migrates) a SQLite database at dsn, e.g.
// "file:events.db?cache=shared".
func NewSQLBackend(dsn string, logger *zap.Logger) (*SQLBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("event: open sql backend: %w", err)
	}
	if err := db.AutoMigrate(&sqlEventRow{}); err != nil {
		return nil, fmt.Errorf("event: automigrate sql backend: %w", err)
	}
	return &SQLBackend{db: db, logger: logger.With(zap.String("component", "event_backend_sql"))}, nil
}

func toRow(e Event) (sqlEventRow, error) {
	doc, err := json.Marshal(e)
	if err != nil {
		return sqlEventRow{}, err
	}
	return sqlEventRow{
		ID:          e.ID(),
		Name:        e.Name(),
		Category:    string(e.Category()),
		Severity:    e.Severity().String(),
		TimestampMS: e.Metadata().TimestampMS,
		Document:    string(doc),
	}, nil
}

func (b *SQLBackend) Store(ctx context.Context, e Event) error {
	row, err := toRow(e)
	if err != nil {
		return fmt.Errorf("event: marshal for sql backend: %w", err)
	}
	return b.db.WithContext(ctx).Create(&row).Error
}

// loadCandidates pulls every row ordered by timestamp_ms, then id, and
// decodes each document; callers apply the filter in Go, since filter trees
// are not translated to SQL. Rows whose document fails to decode are skipped.
func (b *SQLBackend) loadCandidates(ctx context.Context) ([]Event, error) {
	var rows []sqlEventRow
	if err := b.db.WithContext(ctx).Order("timestamp_ms asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(rows))
	for _, r := range rows {
		var e Event
		if err := json.Unmarshal([]byte(r.Document), &e); err != nil {
			b.logger.Warn("skipping row with corrupt document", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *SQLBackend) Retrieve(ctx context.Context, filter Expr, limit int) ([]Event, error) {
	candidates, err := b.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0)
	for _, e := range candidates {
		if !matchesFilter(e, filter) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (b *SQLBackend) RetrieveByIDs(ctx context.Context, ids []string) ([]Event, error) {
	var rows []sqlEventRow
	if err := b.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(rows))
	for _, r := range rows {
		var e Event
		if err := json.Unmarshal([]byte(r.Document), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *SQLBackend) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	res := b.db.WithContext(ctx).Where("id IN ?", ids).Delete(&sqlEventRow{})
	return int(res.RowsAffected), res.Error
}

func (b *SQLBackend) DeleteByFilter(ctx context.Context, filter Expr) (int, error) {
	candidates, err := b.loadCandidates(ctx)
	if err != nil {
		return 0, err
	}
	var ids []string
	for _, e := range candidates {
		if matchesFilter(e, filter) {
			ids = append(ids, e.ID())
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return b.DeleteByIDs(ctx, ids)
}

func (b *SQLBackend) Count(ctx context.Context, filter Expr) (int, error) {
	if filter == nil {
		var n int64
		err := b.db.WithContext(ctx).Model(&sqlEventRow{}).Count(&n).Error
		return int(n), err
	}
	candidates, err := b.loadCandidates(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range candidates {
		if matchesFilter(e, filter) {
			n++
		}
	}
	return n, nil
}

func (b *SQLBackend) Clear(ctx context.Context) error {
	return b.db.WithContext(ctx).Where("1 = 1").Delete(&sqlEventRow{}).Error
}

func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

