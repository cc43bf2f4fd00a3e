package legalfeed

import (
	"context"
	"encoding/json"
	"time"
)

// RecordKind identifies the type of an archived record.
type RecordKind string

// Record kinds.
const (
	KindDecision RecordKind = "decision"
	KindNorm     RecordKind = "norm"
	KindGaceta   RecordKind = "gaceta"
)

// ArchivedRecord is a scraped record kept in the archive.
type ArchivedRecord struct {
	ID          string          `json:"id"`
	Source      Source          `json:"source"`
	Kind        RecordKind      `json:"kind"`
	Key         string          `json:"key"`
	ContentHash string          `json:"contentHash"`
	Payload     json.RawMessage `json:"payload"`
	ScrapedAt   time.Time       `json:"scrapedAt"`
	ArchivedAt  time.Time       `json:"archivedAt"`
}

// ArchiveFilter represents a filter for FindArchived.
type ArchiveFilter struct {
	Source *Source
	Kind   *RecordKind

	Offset int
	Limit  int
}

// Archive keeps the history of scraped records across runs.
type Archive interface {
	// ArchiveDecisions upserts decisions by natural key. Records whose
	// content is unchanged are skipped. Returns the number written.
	ArchiveDecisions(ctx context.Context, decisions []*ScrapedDecision) (int, error)
	ArchiveNorms(ctx context.Context, norms []*ScrapedNorm) (int, error)
	ArchiveGacetas(ctx context.Context, gacetas []*GacetaEntry) (int, error)

	// FindArchived returns archived records, most recently archived first.
	FindArchived(ctx context.Context, filter ArchiveFilter) ([]*ArchivedRecord, error)
}
