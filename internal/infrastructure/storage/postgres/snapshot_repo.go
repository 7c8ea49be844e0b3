package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/domain/budget"
)

const snapshotTable = "budget_snapshots"

const (
	compressionNone = "none"
	compressionZstd = "zstd"
)

// snapshots below this size are stored uncompressed
const compressThreshold = 1024

var _ budget.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo stores budget audit snapshots, zstd-compressing larger
// bodies at rest.
type SnapshotRepo struct {
	tx      *TxManager
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewSnapshotRepo creates a new snapshot repository.
func NewSnapshotRepo(tx *TxManager) (*SnapshotRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &SnapshotRepo{tx: tx, encoder: encoder, decoder: decoder}, nil
}

func (r *SnapshotRepo) Save(ctx context.Context, snap *budget.AuditSnapshot) error {
	body := []byte(snap.Snapshot)
	algo := compressionNone
	if len(body) > compressThreshold {
		body = r.encoder.EncodeAll(body, nil)
		algo = compressionZstd
	}

	q := psql.Insert(snapshotTable).
		Columns("id", "budget_id", "snapshot", "compression", "reason", "created_at").
		Values(snap.ID, snap.BudgetID, body, algo, snap.Reason, snap.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert snapshot: %w", err))
	}
	return nil
}

func (r *SnapshotRepo) ListByBudget(ctx context.Context, budgetID id.ID) ([]*budget.AuditSnapshot, error) {
	q := psql.Select("id", "budget_id", "snapshot", "compression", "reason", "created_at").
		From(snapshotTable).
		Where(squirrel.Eq{"budget_id": budgetID}).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.tx.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list snapshots: %w", err))
	}
	defer rows.Close()

	snapshots := make([]*budget.AuditSnapshot, 0)
	for rows.Next() {
		var (
			snap budget.AuditSnapshot
			body []byte
			algo string
		)
		if err := rows.Scan(&snap.ID, &snap.BudgetID, &body, &algo, &snap.Reason, &snap.CreatedAt); err != nil {
			return nil, apperror.NewDatabase(fmt.Errorf("scan snapshot: %w", err))
		}

		if algo == compressionZstd {
			body, err = r.decoder.DecodeAll(body, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot %s: %w", snap.ID, err)
			}
		}
		snap.Snapshot = body
		snapshots = append(snapshots, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list snapshots: %w", err))
	}

	return snapshots, nil
}
