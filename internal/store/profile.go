package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var profileColumns = []string{
	"user_id", "data", "domain", "mastery_score", "created_at", "updated_at",
}

// profileRepo implements ProfileRepo.
type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Load(ctx context.Context, userID string) (*ProfileRecord, error) {
	query, args := sqlite.Select(profileColumns...).
		From(entsql.Table(ProfilesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	rec, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", userID, err)
	}
	return rec, nil
}

// Save upserts the record. CreatedAt is kept from the first save.
func (r *profileRepo) Save(ctx context.Context, rec *ProfileRecord) error {
	if rec == nil || rec.UserID == "" {
		return fmt.Errorf("save profile: missing user id")
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query, args := sqlite.Insert(ProfilesTable.Name).
		Columns(profileColumns...).
		Values(rec.UserID, string(rec.Data), rec.Domain, rec.MasteryScore, rec.CreatedAt, rec.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("data")
				u.SetExcluded("domain")
				u.SetExcluded("mastery_score")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save profile %q: %w", rec.UserID, err)
	}
	return nil
}

func (r *profileRepo) List(ctx context.Context, limit int) ([]ProfileRecord, error) {
	sel := sqlite.Select(profileColumns...).
		From(entsql.Table(ProfilesTable.Name)).
		OrderBy(entsql.Desc("updated_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileRecord
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanProfile(row rowScanner) (*ProfileRecord, error) {
	var (
		rec  ProfileRecord
		data []byte
	)
	if err := row.Scan(&rec.UserID, &data, &rec.Domain, &rec.MasteryScore, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Data = data
	return &rec, nil
}
