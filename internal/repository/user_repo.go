package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Cheertaboi/deal-service/internal/models"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists)
	return exists, errors.Wrap(err, "check user")
}

// CreateUser registers u and backfills a record for every existing deal.
func (r *UserRepo) CreateUser(ctx context.Context, u *models.EndUser) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO profiles (id, created_at) VALUES ($1, NOW())`, u.ID)
		if err != nil {
			if pqCode(err) == pqUniqueViolation {
				return models.ErrUserExists
			}
			return errors.Wrap(err, "insert user")
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_deals (id, user_id, deal_id, disabled)
			SELECT gen_random_uuid(), $1, d.id, d.disabled FROM deals d
			ON CONFLICT (user_id, deal_id) DO NOTHING`, u.ID)
		return errors.Wrap(err, "backfill records")
	})
}
