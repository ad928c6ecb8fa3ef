package weightlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/weighttrend/internal/telemetry/tracing"
	"github.com/2beens/weighttrend/internal/weighttrend"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo reads weight logs and goal profiles from postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListEntries(ctx context.Context, userID string) (_ []weighttrend.WeightLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weightlog.listEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id::text, logged_at, weight_kg, COALESCE(notes, '')
			FROM weight_log
			WHERE user_id = $1
			ORDER BY logged_at, id;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query weight log: %w", err)
	}
	defer rows.Close()

	var entries []weighttrend.WeightLogEntry
	for rows.Next() {
		var e weighttrend.WeightLogEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.WeightKg, &e.Notes); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

func (r *Repo) GetProfile(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weightlog.getProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	profile := &Profile{UserID: userID}
	err = r.db.QueryRow(
		ctx,
		`SELECT target_weight_kg, current_weight_kg FROM weight_profile WHERE user_id = $1;`,
		userID,
	).Scan(&profile.TargetWeightKg, &profile.CurrentWeightKg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query weight profile: %w", err)
	}

	return profile, nil
}
