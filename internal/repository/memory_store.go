package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// MemoryStore keeps everything in process. It backs tests and STORE=memory runs
// and gives the same guarantees as the Postgres store, including the
// at-most-once-per-day commit.
type MemoryStore struct {
	mu      sync.RWMutex
	deals   map[uuid.UUID]*models.Promotion
	records map[uuid.UUID]*models.RedemptionRecord
	users   map[uuid.UUID]*models.EndUser
	shops   map[uuid.UUID]*models.Shop
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deals:   make(map[uuid.UUID]*models.Promotion),
		records: make(map[uuid.UUID]*models.RedemptionRecord),
		users:   make(map[uuid.UUID]*models.EndUser),
		shops:   make(map[uuid.UUID]*models.Shop),
		now:     time.Now,
	}
}

// --- deals ---

func (m *MemoryStore) FetchPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.deals[id]
	if !ok {
		return nil, models.ErrPromotionNotFound
	}
	return clonePromotion(p), nil
}

func (m *MemoryStore) FetchSchedule(ctx context.Context, promotionID uuid.UUID) (models.WeeklySchedule, error) {
	p, err := m.FetchPromotion(ctx, promotionID)
	if err != nil {
		return models.WeeklySchedule{}, err
	}
	return p.Schedule, nil
}

func (m *MemoryStore) CreatePromotion(ctx context.Context, p *models.Promotion) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shops[p.ShopID]; !ok {
		return uuid.Nil, models.ErrShopNotFound
	}
	stored := clonePromotion(p)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := m.now()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.deals[stored.ID] = stored

	for userID := range m.users {
		m.addRecordLocked(stored.ID, userID, stored.Disabled)
	}
	return stored.ID, nil
}

func (m *MemoryStore) UpdatePromotion(ctx context.Context, p *models.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.deals[p.ID]
	if !ok {
		return models.ErrPromotionNotFound
	}
	stored := clonePromotion(p)
	stored.ShopID = cur.ShopID
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = m.now()
	m.deals[p.ID] = stored
	m.syncDisabledLocked(p.ID, stored.Disabled)
	return nil
}

func (m *MemoryStore) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.deals[id]
	if !ok {
		return models.ErrPromotionNotFound
	}
	p.Disabled = disabled
	p.UpdatedAt = m.now()
	m.syncDisabledLocked(id, disabled)
	return nil
}

func (m *MemoryStore) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deals[id]; !ok {
		return models.ErrPromotionNotFound
	}
	delete(m.deals, id)
	for rid, r := range m.records {
		if r.PromotionID == id {
			delete(m.records, rid)
		}
	}
	return nil
}

func (m *MemoryStore) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Promotion
	for _, p := range m.deals {
		if p.ShopID == shopID {
			out = append(out, clonePromotion(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- records ---

func (m *MemoryStore) FetchRedemptionRecord(ctx context.Context, token uuid.UUID) (*models.RedemptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[token]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return cloneRecord(r), nil
}

func (m *MemoryStore) CommitRedemption(ctx context.Context, token uuid.UUID, day models.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[token]
	if !ok {
		return models.ErrRecordNotFound
	}
	if r.RedeemedOn(day) {
		return models.ErrConflict
	}
	r.RedeemedDates = append(r.RedeemedDates, day)
	r.PointsAccumulated++
	r.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RedemptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.RedemptionRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// --- users ---

func (m *MemoryStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *models.EndUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return models.ErrUserExists
	}
	stored := *u
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}
	m.users[u.ID] = &stored
	for _, p := range m.deals {
		m.addRecordLocked(p.ID, u.ID, p.Disabled)
	}
	return nil
}

// DeleteUser removes a user without touching their records, the way an account
// removal upstream leaves rows behind until cleanup runs.
func (m *MemoryStore) DeleteUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// --- shops ---

func (m *MemoryStore) GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shops[id]
	if !ok {
		return nil, models.ErrShopNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) CreateShop(ctx context.Context, s *models.Shop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTakenLocked(s.Name, s.ID) {
		return models.ErrShopNameTaken
	}
	cp := *s
	cp.UpdatedAt = m.now()
	m.shops[s.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateShop(ctx context.Context, s *models.Shop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.shops[s.ID]
	if !ok {
		return models.ErrShopNotFound
	}
	if m.nameTakenLocked(s.Name, s.ID) {
		return models.ErrShopNameTaken
	}
	cp := *s
	cp.Theme = cur.Theme
	cp.UpdatedAt = m.now()
	m.shops[s.ID] = &cp
	return nil
}

func (m *MemoryStore) ShopNameExists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nameTakenLocked(name, uuid.Nil), nil
}

func (m *MemoryStore) SetTheme(ctx context.Context, id uuid.UUID, theme models.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shops[id]
	if !ok {
		return models.ErrShopNotFound
	}
	s.Theme = theme
	s.UpdatedAt = m.now()
	return nil
}

// --- helpers (caller holds mu) ---

func (m *MemoryStore) addRecordLocked(dealID, userID uuid.UUID, disabled bool) {
	for _, r := range m.records {
		if r.PromotionID == dealID && r.UserID == userID {
			return
		}
	}
	id := uuid.New()
	m.records[id] = &models.RedemptionRecord{
		ID:            id,
		PromotionID:   dealID,
		UserID:        userID,
		RedeemedDates: []models.Date{},
		Disabled:      disabled,
		UpdatedAt:     m.now(),
	}
}

func (m *MemoryStore) syncDisabledLocked(dealID uuid.UUID, disabled bool) {
	for _, r := range m.records {
		if r.PromotionID == dealID {
			r.Disabled = disabled
		}
	}
}

func (m *MemoryStore) nameTakenLocked(name string, except uuid.UUID) bool {
	for id, s := range m.shops {
		if id != except && strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func clonePromotion(p *models.Promotion) *models.Promotion {
	cp := *p
	if p.ExpiryDate != nil {
		d := *p.ExpiryDate
		cp.ExpiryDate = &d
	}
	return &cp
}

func cloneRecord(r *models.RedemptionRecord) *models.RedemptionRecord {
	cp := *r
	cp.RedeemedDates = append([]models.Date(nil), r.RedeemedDates...)
	return &cp
}
