package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/legalfeed"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ legalfeed.Archive = (*Archive)(nil)

// Archive implements legalfeed.Archive using SQLite.
type Archive struct {
	db    *DB
	clock legalfeed.Clock
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*Archive)

// WithClock sets the clock used for archived_at timestamps.
func WithClock(c legalfeed.Clock) ArchiveOption {
	return func(a *Archive) {
		a.clock = c
	}
}

// NewArchive creates a new Archive.
func NewArchive(db *DB, opts ...ArchiveOption) *Archive {
	a := &Archive{db: db, clock: legalfeed.SystemClock}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// hashContent computes the xxHash of payload as a hex string.
func hashContent(payload []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(payload))
}

// row is one record ready to be written.
type row struct {
	source    legalfeed.Source
	kind      legalfeed.RecordKind
	key       string
	payload   []byte
	hash      string
	scrapedAt time.Time
}

// newRow encodes rec. The content hash ignores the scrape time so a record
// re-scraped without changes keeps its hash.
func newRow[T any](source legalfeed.Source, kind legalfeed.RecordKind, key string, scrapedAt time.Time, rec T, unstamped T) (row, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return row{}, legalfeed.Errorf(legalfeed.EINTERNAL, "encode %s: %v", kind, err)
	}
	content, err := json.Marshal(unstamped)
	if err != nil {
		return row{}, legalfeed.Errorf(legalfeed.EINTERNAL, "encode %s: %v", kind, err)
	}
	return row{
		source:    source,
		kind:      kind,
		key:       key,
		payload:   payload,
		hash:      hashContent(content),
		scrapedAt: scrapedAt,
	}, nil
}

// ArchiveDecisions upserts decisions by URL or chamber and number.
func (a *Archive) ArchiveDecisions(ctx context.Context, decisions []*legalfeed.ScrapedDecision) (int, error) {
	rows := make([]row, 0, len(decisions))
	for _, d := range decisions {
		if d == nil {
			continue
		}
		unstamped := *d
		unstamped.ScrapedAt = time.Time{}
		r, err := newRow(legalfeed.SourceTSJ, legalfeed.KindDecision, d.Key(), d.ScrapedAt, d, &unstamped)
		if err != nil {
			return 0, err
		}
		rows = append(rows, r)
	}
	return a.upsert(ctx, rows)
}

// ArchiveNorms upserts norms by URL or name and gazette number.
func (a *Archive) ArchiveNorms(ctx context.Context, norms []*legalfeed.ScrapedNorm) (int, error) {
	rows := make([]row, 0, len(norms))
	for _, n := range norms {
		if n == nil {
			continue
		}
		unstamped := *n
		unstamped.ScrapedAt = time.Time{}
		r, err := newRow(legalfeed.SourceGaceta, legalfeed.KindNorm, n.Key(), n.ScrapedAt, n, &unstamped)
		if err != nil {
			return 0, err
		}
		rows = append(rows, r)
	}
	return a.upsert(ctx, rows)
}

// ArchiveGacetas upserts gazette issues by number and type.
func (a *Archive) ArchiveGacetas(ctx context.Context, gacetas []*legalfeed.GacetaEntry) (int, error) {
	rows := make([]row, 0, len(gacetas))
	for _, g := range gacetas {
		if g == nil {
			continue
		}
		unstamped := *g
		unstamped.ScrapedAt = time.Time{}
		r, err := newRow(legalfeed.SourceGaceta, legalfeed.KindGaceta, g.Key(), g.ScrapedAt, g, &unstamped)
		if err != nil {
			return 0, err
		}
		rows = append(rows, r)
	}
	return a.upsert(ctx, rows)
}

// upsert writes rows whose content changed and returns how many were
// written. Rows with an empty key cannot be identified and are skipped.
func (a *Archive) upsert(ctx context.Context, rows []row) (int, error) {
	written := 0
	now := formatTime(a.clock.Now())

	for _, r := range rows {
		if r.key == "" {
			continue
		}

		var id, hash string
		err := a.db.QueryRowContext(ctx, `
			SELECT id, content_hash FROM records WHERE kind = ? AND natural_key = ?
		`, string(r.kind), r.key).Scan(&id, &hash)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = a.db.ExecContext(ctx, `
				INSERT INTO records (id, source, kind, natural_key, content_hash, payload, scraped_at, archived_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, uuid.New().String(), string(r.source), string(r.kind), r.key, r.hash, string(r.payload),
				formatTime(r.scrapedAt), now)
		case err != nil:
			return written, err
		case hash == r.hash:
			continue
		default:
			_, err = a.db.ExecContext(ctx, `
				UPDATE records SET content_hash = ?, payload = ?, scraped_at = ?, archived_at = ?
				WHERE id = ?
			`, r.hash, string(r.payload), formatTime(r.scrapedAt), now, id)
		}
		if err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// FindArchived retrieves archived records matching the filter, most
// recently archived first.
func (a *Archive) FindArchived(ctx context.Context, filter legalfeed.ArchiveFilter) ([]*legalfeed.ArchivedRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, kind, natural_key, content_hash, payload, scraped_at, archived_at FROM records WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, string(*filter.Source))
	}
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query.WriteString(" ORDER BY archived_at DESC, natural_key ASC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := a.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*legalfeed.ArchivedRecord{}
	for rows.Next() {
		var rec legalfeed.ArchivedRecord
		var source, kind, payload, scrapedAt, archivedAt string
		if err := rows.Scan(&rec.ID, &source, &kind, &rec.Key, &rec.ContentHash, &payload, &scrapedAt, &archivedAt); err != nil {
			return nil, err
		}
		rec.Source = legalfeed.Source(source)
		rec.Kind = legalfeed.RecordKind(kind)
		rec.Payload = json.RawMessage(payload)
		if rec.ScrapedAt, err = parseTime(scrapedAt, "scraped_at"); err != nil {
			return nil, err
		}
		if rec.ArchivedAt, err = parseTime(archivedAt, "archived_at"); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
