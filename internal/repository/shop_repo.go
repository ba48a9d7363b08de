package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Cheertaboi/deal-service/internal/models"
)

type ShopRepo struct {
	db *sql.DB
}

func NewShopRepo(db *sql.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

func (r *ShopRepo) GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var s models.Shop
	var theme string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, location, description, mobile_number, logo_path, theme, updated_at
		FROM shop_profiles WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Location, &s.Description, &s.MobileNumber, &s.LogoPath, &theme, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrShopNotFound
		}
		return nil, errors.Wrap(err, "fetch shop")
	}
	s.Theme = models.Theme(theme)
	return &s, nil
}

func (r *ShopRepo) CreateShop(ctx context.Context, s *models.Shop) error {
	theme := s.Theme
	if theme == "" {
		theme = models.ThemeLight
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shop_profiles (id, name, location, description, mobile_number, logo_path, theme, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`,
		s.ID, s.Name, s.Location, s.Description, s.MobileNumber, s.LogoPath, string(theme),
	)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return models.ErrShopNameTaken
		}
		return errors.Wrap(err, "insert shop")
	}
	return nil
}

// UpdateShop replaces the profile fields. The theme has its own setter.
func (r *ShopRepo) UpdateShop(ctx context.Context, s *models.Shop) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shop_profiles
		SET name = $2, location = $3, description = $4, mobile_number = $5, logo_path = $6, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Location, s.Description, s.MobileNumber, s.LogoPath,
	)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return models.ErrShopNameTaken
		}
		return errors.Wrap(err, "update shop")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrShopNotFound
	}
	return nil
}

func (r *ShopRepo) ShopNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM shop_profiles WHERE lower(btrim(name)) = lower(btrim($1)))`, name,
	).Scan(&exists)
	return exists, errors.Wrap(err, "check shop name")
}

func (r *ShopRepo) SetTheme(ctx context.Context, id uuid.UUID, theme models.Theme) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shop_profiles SET theme = $2, updated_at = NOW() WHERE id = $1`, id, string(theme))
	if err != nil {
		return errors.Wrap(err, "set theme")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrShopNotFound
	}
	return nil
}
