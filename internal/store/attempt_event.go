package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) (int64, error) {
	seq, err := r.insert(ctx, attemptsTable,
		[]string{"learner", "session_id", "exercise_id", "checkpoint", "success", "accuracy", "newly_mastered"},
		[]any{data.Learner, data.SessionID, data.ExerciseID, data.Checkpoint, data.Success, data.Accuracy, data.NewlyMastered},
	)
	if err != nil {
		return 0, fmt.Errorf("save attempt event: %w", err)
	}
	return seq, nil
}

func (r *eventRepo) RecentAttempts(ctx context.Context, learner string, limit int) ([]AttemptEvent, error) {
	sel := entsql.Dialect(r.dialect).
		Select("sequence", "timestamp", "learner", "session_id", "exercise_id", "checkpoint", "success", "accuracy", "newly_mastered").
		From(entsql.Table(attemptsTable)).
		Where(entsql.EQ("learner", learner)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var (
			ev     AttemptEvent
			millis int64
		)
		err := rows.Scan(&ev.Sequence, &millis, &ev.Learner, &ev.SessionID, &ev.ExerciseID,
			&ev.Checkpoint, &ev.Success, &ev.Accuracy, &ev.NewlyMastered)
		if err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(millis).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	return out, nil
}
