package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/dinehub/internal/cache"
	"github.com/nikhilbhutani/dinehub/internal/models"
)

var (
	// ErrNotFound is returned by stores when no restaurant matches.
	ErrNotFound = errors.New("restaurant not found")
	// ErrAmbiguousOwner is returned when an owner is linked to more than one
	// restaurant and none can be picked.
	ErrAmbiguousOwner = errors.New("owner has more than one restaurant")
	// ErrExists is returned when a slug or owner is already taken.
	ErrExists = errors.New("restaurant already exists")
)

const restaurantColumns = `id, name, slug, owner_id, is_active, subscription_status, subscription_end_date, created_at, updated_at`

// Service is the PostgreSQL restaurant store. Reads by id go through the cache.
type Service struct {
	db       *pgxpool.Pool
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewService(db *pgxpool.Pool, c *cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{db: db, cache: c, cacheTTL: cacheTTL}
}

func cacheKey(id int64) string {
	return "restaurant:" + strconv.FormatInt(id, 10)
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.OwnerID, &t.IsActive, &t.SubscriptionStatus,
		&t.SubscriptionEndDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	var cached models.Tenant
	if err := s.cache.Get(ctx, cacheKey(id), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("restaurant cache read failed", "restaurant_id", id, "error", err)
	}

	t, err := scanTenant(s.db.QueryRow(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get restaurant %d: %w", id, err)
	}

	s.store(ctx, t)
	return t, nil
}

// GetByOwnerID returns the single restaurant owned by ownerID. Owners are
// unique per restaurant; a second row is reported as ErrAmbiguousOwner.
func (s *Service) GetByOwnerID(ctx context.Context, ownerID int64) (*models.Tenant, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE owner_id = $1 ORDER BY id LIMIT 2", ownerID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant by owner %d: %w", ownerID, err)
	}
	owned, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Tenant, error) {
		return scanTenant(row)
	})
	if err != nil {
		return nil, fmt.Errorf("get restaurant by owner %d: %w", ownerID, err)
	}

	switch len(owned) {
	case 0:
		return nil, fmt.Errorf("get restaurant by owner %d: %w", ownerID, ErrNotFound)
	case 1:
		s.store(ctx, owned[0])
		return owned[0], nil
	default:
		return nil, fmt.Errorf("get restaurant by owner %d: %w", ownerID, ErrAmbiguousOwner)
	}
}

type CreateRequest struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID int64  `json:"owner_id"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx,
		`INSERT INTO restaurants (name, slug, owner_id, is_active, subscription_status)
		 VALUES ($1, $2, $3, true, 'trial')
		 RETURNING `+restaurantColumns,
		req.Name, req.Slug, req.OwnerID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return t, nil
}

// SubscriptionUpdate carries the platform-admin controlled fields. Nil fields
// are left unchanged; ClearEndDate removes the end date.
type SubscriptionUpdate struct {
	IsActive     *bool                      `json:"is_active"`
	Status       *models.SubscriptionStatus `json:"subscription_status"`
	EndDate      *time.Time                 `json:"subscription_end_date"`
	ClearEndDate bool                       `json:"clear_end_date"`
}

func (s *Service) UpdateSubscription(ctx context.Context, id int64, u SubscriptionUpdate) (*models.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx,
		`UPDATE restaurants SET
			is_active = COALESCE($2, is_active),
			subscription_status = COALESCE($3, subscription_status),
			subscription_end_date = CASE WHEN $5 THEN NULL ELSE COALESCE($4, subscription_end_date) END,
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+restaurantColumns,
		id, u.IsActive, u.Status, u.EndDate, u.ClearEndDate,
	))
	if err != nil {
		return nil, fmt.Errorf("update restaurant %d subscription: %w", id, err)
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		slog.Warn("restaurant cache invalidation failed", "restaurant_id", id, "error", err)
	}
	return t, nil
}

func (s *Service) store(ctx context.Context, t *models.Tenant) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(t.ID), t, s.cacheTTL); err != nil {
		slog.Warn("restaurant cache write failed", "restaurant_id", t.ID, "error", err)
	}
}
