package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// slotColumns are the deal_times columns in Monday..Sunday order, start then end.
var slotColumns = func() []string {
	cols := make([]string, 0, 2*models.DaysInWeek)
	for d := models.Monday; d <= models.Sunday; d++ {
		cols = append(cols, d.Key()+"_start", d.Key()+"_end")
	}
	return cols
}()

var (
	selectDealSQL = func() string {
		slots := make([]string, len(slotColumns))
		for i, c := range slotColumns {
			slots[i] = "dt." + c + "::text"
		}
		return `
		SELECT d.id, d.shop_user_id, d.type, d.max_pts, d.percentage, d.end_date,
		       d.disabled, d.description, d.created_at, d.updated_at, ` + strings.Join(slots, ", ") + `
		FROM deals d
		JOIN deal_times dt ON dt.id = d.deal_times_id`
	}()

	insertDealTimesSQL = func() string {
		ph := make([]string, len(slotColumns))
		for i := range slotColumns {
			ph[i] = fmt.Sprintf("$%d", i+2)
		}
		return "INSERT INTO deal_times (id, " + strings.Join(slotColumns, ", ") +
			") VALUES ($1, " + strings.Join(ph, ", ") + ")"
	}()

	updateDealTimesSQL = func() string {
		set := make([]string, len(slotColumns))
		for i, c := range slotColumns {
			set[i] = fmt.Sprintf("%s = $%d", c, i+2)
		}
		return "UPDATE deal_times SET " + strings.Join(set, ", ") + " WHERE id = $1"
	}()
)

type DealRepo struct {
	db *sql.DB
}

func NewDealRepo(db *sql.DB) *DealRepo {
	return &DealRepo{db: db}
}

func (r *DealRepo) FetchPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	p, err := scanPromotion(r.db.QueryRowContext(ctx, selectDealSQL+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPromotionNotFound
		}
		return nil, errors.Wrap(err, "fetch deal")
	}
	return p, nil
}

func (r *DealRepo) FetchSchedule(ctx context.Context, promotionID uuid.UUID) (models.WeeklySchedule, error) {
	p, err := r.FetchPromotion(ctx, promotionID)
	if err != nil {
		return models.WeeklySchedule{}, err
	}
	return p.Schedule, nil
}

func (r *DealRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Promotion, error) {
	rows, err := r.db.QueryContext(ctx, selectDealSQL+` WHERE d.shop_user_id = $1 ORDER BY d.created_at`, shopID)
	if err != nil {
		return nil, errors.Wrap(err, "list deals")
	}
	defer rows.Close()

	var deals []*models.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan deal")
		}
		deals = append(deals, p)
	}
	return deals, errors.Wrap(rows.Err(), "list deals")
}

// CreatePromotion writes the schedule, the deal and one record per registered
// end user in a single transaction.
func (r *DealRepo) CreatePromotion(ctx context.Context, p *models.Promotion) (uuid.UUID, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	timesID := uuid.New()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		args := append([]any{timesID}, scheduleArgs(p.Schedule)...)
		if _, err := tx.ExecContext(ctx, insertDealTimesSQL, args...); err != nil {
			return errors.Wrap(err, "insert deal times")
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO deals
			(id, shop_user_id, deal_times_id, type, max_pts, percentage, end_date, disabled, description, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())`,
			id, p.ShopID, timesID, string(p.Discount.Kind), maxPointsArg(p.Discount),
			p.PercentageOff, expiryArg(p.ExpiryDate), p.Disabled, p.Description,
		)
		if err != nil {
			if pqCode(err) == pqForeignKeyViolation {
				return models.ErrShopNotFound
			}
			return errors.Wrap(err, "insert deal")
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_deals (id, user_id, deal_id, disabled)
			SELECT gen_random_uuid(), pr.id, $1, $2 FROM profiles pr
			ON CONFLICT (user_id, deal_id) DO NOTHING`,
			id, p.Disabled,
		)
		return errors.Wrap(err, "fan out records")
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// UpdatePromotion replaces the authored fields and the whole schedule. The owning
// shop never changes.
func (r *DealRepo) UpdatePromotion(ctx context.Context, p *models.Promotion) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var timesID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			UPDATE deals
			SET type = $2, max_pts = $3, percentage = $4, end_date = $5,
			    disabled = $6, description = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING deal_times_id`,
			p.ID, string(p.Discount.Kind), maxPointsArg(p.Discount), p.PercentageOff,
			expiryArg(p.ExpiryDate), p.Disabled, p.Description,
		).Scan(&timesID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrPromotionNotFound
			}
			return errors.Wrap(err, "update deal")
		}

		args := append([]any{timesID}, scheduleArgs(p.Schedule)...)
		if _, err := tx.ExecContext(ctx, updateDealTimesSQL, args...); err != nil {
			return errors.Wrap(err, "update deal times")
		}
		return syncRecordsDisabled(ctx, tx, p.ID, p.Disabled)
	})
}

func (r *DealRepo) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE deals SET disabled = $2, updated_at = NOW() WHERE id = $1`, id, disabled)
		if err != nil {
			return errors.Wrap(err, "set deal disabled")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrPromotionNotFound
		}
		return syncRecordsDisabled(ctx, tx, id, disabled)
	})
}

// DeletePromotion removes the deal and its schedule. Records go with the deal
// through ON DELETE CASCADE.
func (r *DealRepo) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var timesID uuid.UUID
		err := tx.QueryRowContext(ctx,
			`DELETE FROM deals WHERE id = $1 RETURNING deal_times_id`, id).Scan(&timesID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrPromotionNotFound
			}
			return errors.Wrap(err, "delete deal")
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM deal_times WHERE id = $1`, timesID)
		return errors.Wrap(err, "delete deal times")
	})
}

func syncRecordsDisabled(ctx context.Context, tx *sql.Tx, dealID uuid.UUID, disabled bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE user_deals SET disabled = $2, updated_at = NOW() WHERE deal_id = $1`, dealID, disabled)
	return errors.Wrap(err, "sync record disabled flag")
}

func scanPromotion(row rowScanner) (*models.Promotion, error) {
	var (
		p       models.Promotion
		kind    string
		maxPts  sql.NullInt64
		endDate sql.NullTime
		slots   = make([]sql.NullString, len(slotColumns))
	)
	dest := []any{
		&p.ID, &p.ShopID, &kind, &maxPts, &p.PercentageOff, &endDate,
		&p.Disabled, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	}
	for i := range slots {
		dest = append(dest, &slots[i])
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	k, err := models.ParseDiscountKind(kind)
	if err != nil {
		return nil, err
	}
	p.Discount = models.Discount{Kind: k}
	if k == models.PointBased {
		p.Discount.MaxPoints = int(maxPts.Int64)
	}
	if endDate.Valid {
		d := models.DateOf(endDate.Time)
		p.ExpiryDate = &d
	}

	for d := models.Monday; d <= models.Sunday; d++ {
		start, end := slots[2*int(d)], slots[2*int(d)+1]
		if !start.Valid || !end.Valid {
			continue
		}
		s, err := models.ParseTimeOfDay(start.String)
		if err != nil {
			return nil, err
		}
		e, err := models.ParseTimeOfDay(end.String)
		if err != nil {
			return nil, err
		}
		if err := p.Schedule.SetSlot(d, s, e); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func scheduleArgs(w models.WeeklySchedule) []any {
	args := make([]any, 0, len(slotColumns))
	for d := models.Monday; d <= models.Sunday; d++ {
		if s, ok := w.SlotFor(d); ok {
			args = append(args, s.Start.String(), s.End.String())
		} else {
			args = append(args, nil, nil)
		}
	}
	return args
}

func maxPointsArg(d models.Discount) any {
	if d.Kind != models.PointBased {
		return nil
	}
	return d.MaxPoints
}

func expiryArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
