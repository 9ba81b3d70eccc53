package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/taller-erp/taller-erp/internal/jobs"
)

// ExpiringWarranty is one order whose warranty window closes soon.
type ExpiringWarranty struct {
	OrderID     int64
	OrderNumber string
	ClientName  string
	EndDate     time.Time
}

// WarrantyScanner finds warranties expiring within a window. Notification
// delivery itself is out of scope; the scan logs what would be notified so
// staff can follow up.
type WarrantyScanner struct {
	pool       *pgxpool.Pool
	logger     *slog.Logger
	metrics    *jobmetrics.Metrics
	windowDays int
}

// NewWarrantyScanner constructs the scanner.
func NewWarrantyScanner(pool *pgxpool.Pool, logger *slog.Logger, windowDays int) *WarrantyScanner {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &WarrantyScanner{
		pool:       pool,
		logger:     logger,
		metrics:    jobmetrics.NewMetrics(nil),
		windowDays: windowDays,
	}
}

// FindExpiring returns warranties ending within the scan window. Unlimited
// warranties never expire and are excluded.
func (s *WarrantyScanner) FindExpiring(ctx context.Context, now time.Time) ([]ExpiringWarranty, error) {
	until := now.AddDate(0, 0, s.windowDays)
	rows, err := s.pool.Query(ctx, `SELECT o.id, o.order_number, c.name, o.garantia_end_date
FROM service_orders o
JOIN clients c ON c.id = o.client_id
WHERE NOT COALESCE(o.garantia_ilimitada, false)
  AND o.garantia_end_date IS NOT NULL
  AND o.garantia_end_date BETWEEN $1 AND $2
ORDER BY o.garantia_end_date`, now, until)
	if err != nil {
		return nil, fmt.Errorf("jobs: scan warranties: %w", err)
	}
	defer rows.Close()
	var list []ExpiringWarranty
	for rows.Next() {
		var w ExpiringWarranty
		if err := rows.Scan(&w.OrderID, &w.OrderNumber, &w.ClientName, &w.EndDate); err != nil {
			return nil, fmt.Errorf("jobs: scan warranty row: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// HandleWarrantyScanTask processes TaskWarrantyScan tasks.
func (s *WarrantyScanner) HandleWarrantyScanTask(ctx context.Context, t *asynq.Task) error {
	tracker := s.metrics.Track("warranty_scan")
	expiring, err := s.FindExpiring(ctx, time.Now())
	if err != nil {
		return tracker.End(err)
	}
	for _, w := range expiring {
		s.logger.Info("warranty expiring",
			slog.String("order", w.OrderNumber),
			slog.String("client", w.ClientName),
			slog.Time("end_date", w.EndDate))
	}
	s.metrics.AddExpiringWarranties(len(expiring))
	s.logger.Info("warranty scan complete", slog.Int("expiring", len(expiring)))
	return tracker.End(nil)
}
