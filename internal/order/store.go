package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStale is returned when a compare-and-set update finds the row
	// already moved on.
	ErrStale = errors.New("order changed concurrently")
)

// Store is the order persistence used by the order and payment services.
type Store interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, tenantID, id int64) (*models.Order, error)
	GetAny(ctx context.Context, id int64) (*models.Order, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Order, error)
	ListByIntentIDs(ctx context.Context, intentIDs []string) ([]models.Order, error)
	List(ctx context.Context, f ListFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, from, to models.OrderStatus) (*models.Order, error)
	CountForCustomer(ctx context.Context, customerID, tenantID int64) (int, error)
	AttachIntent(ctx context.Context, orderIDs []int64, intentID, method string) error
	SetPaymentStatus(ctx context.Context, intentID string, to models.PaymentStatus, from ...models.PaymentStatus) ([]models.Order, error)
	SetOrderPaymentStatus(ctx context.Context, id int64, to models.PaymentStatus, from ...models.PaymentStatus) (*models.Order, error)
}

type ListFilter struct {
	TenantID   int64
	CustomerID *int64
	Status     models.OrderStatus
	Limit      int
	Offset     int
}

const orderColumns = `id, order_number, customer_id, restaurant_id, order_group_id, items, status,
	payment_status, payment_method, payment_intent_id, subtotal, delivery_fee, tax, total,
	delivery_address, notes, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o     models.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.TenantID, &o.OrderGroupID, &items, &o.Status,
		&o.PaymentStatus, &o.PaymentMethod, &o.PaymentIntentID, &o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Total,
		&o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %d: %w", o.ID, err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO orders (order_number, customer_id, restaurant_id, order_group_id, items, status,
			payment_status, payment_method, subtotal, delivery_fee, tax, total, delivery_address, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.CustomerID, o.TenantID, o.OrderGroupID, items, o.Status,
		o.PaymentStatus, o.PaymentMethod, o.Subtotal, o.DeliveryFee, o.Tax, o.Total, o.DeliveryAddress, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 AND restaurant_id = $2", id, tenantID))
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

// GetAny loads an order regardless of restaurant. Callers check ownership.
func (r *Repository) GetAny(ctx context.Context, id int64) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]models.Order, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE order_group_id = $1 ORDER BY id", groupID)
	if err != nil {
		return nil, fmt.Errorf("list orders of group %s: %w", groupID, err)
	}
	return collectOrders(rows)
}

func (r *Repository) ListByIntentIDs(ctx context.Context, intentIDs []string) ([]models.Order, error) {
	if len(intentIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE payment_intent_id = ANY($1) ORDER BY id", intentIDs)
	if err != nil {
		return nil, fmt.Errorf("list orders by intent: %w", err)
	}
	return collectOrders(rows)
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Order, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE restaurant_id = $1
		   AND ($2::bigint IS NULL OR customer_id = $2)
		   AND ($3 = '' OR status = $3)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $4 OFFSET $5`,
		f.TenantID, f.CustomerID, string(f.Status), limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows)
}

// UpdateStatus moves an order only if it is still in status from.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, from, to models.OrderStatus) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx,
		`UPDATE orders SET status = $4, updated_at = now()
		 WHERE id = $1 AND restaurant_id = $2 AND status = $3
		 RETURNING `+orderColumns,
		id, tenantID, from, to,
	))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	return o, nil
}

func (r *Repository) CountForCustomer(ctx context.Context, customerID, tenantID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		"SELECT count(*) FROM orders WHERE customer_id = $1 AND restaurant_id = $2",
		customerID, tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *Repository) AttachIntent(ctx context.Context, orderIDs []int64, intentID, method string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE orders SET payment_intent_id = $2, payment_method = $3, updated_at = now()
		 WHERE id = ANY($1)`,
		orderIDs, intentID, method,
	)
	if err != nil {
		return fmt.Errorf("attach payment intent %s: %w", intentID, err)
	}
	return nil
}

// SetPaymentStatus moves every order linked to intentID whose payment status
// is one of from. The rows are locked and updated in one transaction so a
// group is never left partially paid. Only the orders that changed are
// returned.
func (r *Repository) SetPaymentStatus(ctx context.Context, intentID string, to models.PaymentStatus, from ...models.PaymentStatus) ([]models.Order, error) {
	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	var updated []models.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"SELECT id FROM orders WHERE payment_intent_id = $1 FOR UPDATE", intentID); err != nil {
			return fmt.Errorf("lock orders: %w", err)
		}

		rows, err := tx.Query(ctx,
			`UPDATE orders SET payment_status = $2, updated_at = now()
			 WHERE payment_intent_id = $1 AND payment_status = ANY($3)
			 RETURNING `+orderColumns,
			intentID, string(to), fromStatuses,
		)
		if err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		updated, err = collectOrders(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("set payment status %s for intent %s: %w", to, intentID, err)
	}
	return updated, nil
}

// SetOrderPaymentStatus moves a single order whose payment status is one of
// from. Siblings sharing its intent are left alone. ErrStale is returned when
// the order is no longer in one of the from statuses.
func (r *Repository) SetOrderPaymentStatus(ctx context.Context, id int64, to models.PaymentStatus, from ...models.PaymentStatus) (*models.Order, error) {
	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	o, err := scanOrder(r.db.QueryRow(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = now()
		 WHERE id = $1 AND payment_status = ANY($3)
		 RETURNING `+orderColumns,
		id, string(to), fromStatuses,
	))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fmt.Errorf("set payment status %s for order %d: %w", to, id, err)
	}
	return o, nil
}
