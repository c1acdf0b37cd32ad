package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type LogEntry struct {
	TenantID     *int64
	UserID       *int64
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	CreatedAt    time.Time
}

func (s *Service) Log(ctx context.Context, entry LogEntry) error {
	details, _ := json.Marshal(entry.Details)

	var ip *netip.Addr
	if parsed, ok := parseIP(entry.IPAddress); ok {
		ip = &parsed
	}

	var resourceID *string
	if entry.ResourceID != "" {
		resourceID = &entry.ResourceID
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_logs (restaurant_id, user_id, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.TenantID, entry.UserID, entry.Action, entry.ResourceType, resourceID, details, ip, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}

// WriteSecurityEvent persists a recorder event.
func (s *Service) WriteSecurityEvent(ctx context.Context, evt models.SecurityEvent) error {
	details := map[string]any{"reason": evt.Reason}
	if evt.Email != "" {
		details["email"] = evt.Email
	}
	return s.Log(ctx, LogEntry{
		TenantID:     evt.TenantID,
		UserID:       evt.UserID,
		Action:       evt.Action,
		ResourceType: "auth",
		Details:      details,
		IPAddress:    evt.IP,
		CreatedAt:    evt.At,
	})
}

type AuditQuery struct {
	TenantID  *int64
	StartDate *time.Time
	EndDate   *time.Time
	Action    string
	Limit     int
	Offset    int
}

func (s *Service) GetAuditLogs(ctx context.Context, q AuditQuery) ([]models.AuditLog, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	query := `SELECT id, restaurant_id, user_id, action, resource_type, resource_id, details, ip_address, created_at
			  FROM audit_logs WHERE true`
	args := []any{}
	argIdx := 1

	if q.TenantID != nil {
		query += fmt.Sprintf(" AND restaurant_id = $%d", argIdx)
		args = append(args, *q.TenantID)
		argIdx++
	}
	if q.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, q.Action)
		argIdx++
	}
	if q.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *q.StartDate)
		argIdx++
	}
	if q.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *q.EndDate)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.TenantID, &l.UserID, &l.Action, &l.ResourceType, &l.ResourceID, &l.Details, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// parseIP accepts a bare address or host:port as found in RemoteAddr.
func parseIP(raw string) (netip.Addr, bool) {
	if raw == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr(), true
	}
	if a, err := netip.ParseAddr(raw); err == nil {
		return a, true
	}
	return netip.Addr{}, false
}
