package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var progressEventColumns = []string{
	"id", "sequence", "timestamp", "user_id", "kind", "ref_id",
	"week_no", "mastery_before", "mastery_after", "detail",
}

func (r *eventRepo) AppendProgressEvent(ctx context.Context, data ProgressEventData) error {
	if data.UserID == "" || data.Kind == "" {
		return fmt.Errorf("progress event requires user id and kind")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var weekNo any
	if data.WeekNo != nil {
		weekNo = *data.WeekNo
	}

	query, args := sqlite.Insert(ProgressEventsTable.Name).
		Columns(progressEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.UserID, data.Kind, data.RefID,
			weekNo, data.MasteryBefore, data.MasteryAfter, data.Detail,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEventRecord, error) {
	sel := sqlite.Select(progressEventColumns...).From(entsql.Table(ProgressEventsTable.Name))
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	defer rows.Close()

	var out []ProgressEventRecord
	for rows.Next() {
		var (
			e      ProgressEventRecord
			weekNo sql.NullInt64
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.UserID, &e.Kind, &e.RefID,
			&weekNo, &e.MasteryBefore, &e.MasteryAfter, &e.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan progress event: %w", err)
		}
		if weekNo.Valid {
			n := int(weekNo.Int64)
			e.WeekNo = &n
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
