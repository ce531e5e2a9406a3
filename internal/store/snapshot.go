package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo on an ent connection, either the
// driver itself or an open transaction.
type snapshotRepo struct {
	conn    dialect.ExecQuerier
	dialect string
}

func (r *snapshotRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := r.builder().
		Insert(snapshotsTable).
		Columns("learner", "sequence", "timestamp", "data").
		Values(snap.Learner, snap.Sequence, ts.UTC().UnixMilli(), string(data)).
		Query()

	var res sql.Result
	if err := r.conn.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = int(id)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, learner string) (*Snapshot, error) {
	query, args := r.builder().
		Select("id", "learner", "sequence", "timestamp", "data").
		From(entsql.Table(snapshotsTable)).
		Where(entsql.EQ("learner", learner)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		snap   Snapshot
		millis int64
		data   string
	)
	if err := rows.Scan(&snap.ID, &snap.Learner, &snap.Sequence, &millis, &data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	snap.Timestamp = time.UnixMilli(millis).UTC()
	return &snap, nil
}

func (r *snapshotRepo) Delete(ctx context.Context, learner string) error {
	query, args := r.builder().
		Delete(snapshotsTable).
		Where(entsql.EQ("learner", learner)).
		Query()

	var res sql.Result
	if err := r.conn.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Prune(ctx context.Context, learner string, keep int) error {
	// Find the newest snapshot that falls outside the keep window.
	query, args := r.builder().
		Select("id").
		From(entsql.Table(snapshotsTable)).
		Where(entsql.EQ("learner", learner)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args = r.builder().
		Delete(snapshotsTable).
		Where(entsql.And(
			entsql.EQ("learner", learner),
			entsql.LTE("id", threshold),
		)).
		Query()

	var res sql.Result
	if err := r.conn.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
