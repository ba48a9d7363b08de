package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Cheertaboi/deal-service/internal/models"
)

type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

const selectRecordSQL = `
	SELECT id, deal_id, user_id, redeemed_days::text[], points, disabled, updated_at
	FROM user_deals`

func (r *RecordRepo) FetchRedemptionRecord(ctx context.Context, token uuid.UUID) (*models.RedemptionRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, selectRecordSQL+` WHERE id = $1`, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "fetch record")
	}
	return rec, nil
}

// CommitRedemption appends day and adds a point in one conditional UPDATE, so two
// scans racing on the same day cannot both succeed. Row locks are taken by the
// UPDATE itself; a loser re-evaluates the WHERE clause after the winner commits.
func (r *RecordRepo) CommitRedemption(ctx context.Context, token uuid.UUID, day models.Date) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_deals
		SET redeemed_days = array_append(redeemed_days, $2::date),
		    points = points + 1,
		    updated_at = NOW()
		WHERE id = $1 AND NOT ($2::date = ANY(redeemed_days))`,
		token, day.String(),
	)
	if err != nil {
		return errors.Wrap(err, "commit redemption")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "commit redemption")
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_deals WHERE id = $1)`, token).Scan(&exists); err != nil {
		return errors.Wrap(err, "check record")
	}
	if !exists {
		return models.ErrRecordNotFound
	}
	return models.ErrConflict
}

func (r *RecordRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RedemptionRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectRecordSQL+` WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	var recs []*models.RedemptionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan record")
		}
		recs = append(recs, rec)
	}
	return recs, errors.Wrap(rows.Err(), "list records")
}

func scanRecord(row rowScanner) (*models.RedemptionRecord, error) {
	var (
		rec  models.RedemptionRecord
		days pq.StringArray
	)
	if err := row.Scan(&rec.ID, &rec.PromotionID, &rec.UserID, &days,
		&rec.PointsAccumulated, &rec.Disabled, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.RedeemedDates = make([]models.Date, 0, len(days))
	for _, s := range days {
		d, err := models.ParseDate(s)
		if err != nil {
			return nil, err
		}
		rec.RedeemedDates = append(rec.RedeemedDates, d)
	}
	return &rec, nil
}
