package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/snaplink/snaplink/internal/database"
	"github.com/snaplink/snaplink/internal/models"
)

// ClickScope selects which URLs a click query aggregates over: a single URL,
// all URLs owned by a user, or (both nil) every URL.
type ClickScope struct {
	URLID  *int64
	UserID *int64
}

// ScopeURL returns a scope covering a single URL.
func ScopeURL(urlID int64) ClickScope {
	return ClickScope{URLID: &urlID}
}

// ScopeUser returns a scope covering all URLs owned by a user.
func ScopeUser(userID int64) ClickScope {
	return ClickScope{UserID: &userID}
}

// ScopeGlobal returns a scope covering every URL.
func ScopeGlobal() ClickScope {
	return ClickScope{}
}

// ClickRepository defines the interface for click event persistence and
// aggregation. Writes are append-only; rows are removed only by
// DeleteOlderThan or by the cascade when a URL or user is deleted.
type ClickRepository interface {
	// Create appends one immutable click event.
	Create(ctx context.Context, create *models.ClickCreate) (*models.Click, error)

	// ListByURL returns a URL's clicks, newest first, with pagination.
	ListByURL(ctx context.Context, urlID int64, limit, offset int) ([]*models.Click, error)

	// CountClicks counts events in scope. A nil since counts all time.
	CountClicks(ctx context.Context, scope ClickScope, since *time.Time) (int64, error)

	// CountUniqueVisitors counts distinct non-null IPs in scope since the
	// given time.
	CountUniqueVisitors(ctx context.Context, scope ClickScope, since time.Time) (int64, error)

	// DeviceBreakdown returns windowed event counts per device type,
	// omitting unclassified events.
	DeviceBreakdown(ctx context.Context, scope ClickScope, since time.Time) (map[string]int64, error)

	// BrowserBreakdown returns windowed event counts per browser family,
	// omitting unclassified events.
	BrowserBreakdown(ctx context.Context, scope ClickScope, since time.Time) (map[string]int64, error)

	// TopReferrers returns the top non-null referrers by descending count.
	// Ties break on the referrer string so repeated calls are stable.
	TopReferrers(ctx context.Context, urlID int64, since time.Time, limit int) (map[string]int64, error)

	// DailyClicks returns windowed event counts per UTC calendar date;
	// only dates with at least one event are present.
	DailyClicks(ctx context.Context, scope ClickScope, since time.Time) (map[string]int64, error)

	// DeleteOlderThan removes events strictly older than the cutoff and
	// returns the exact number deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PostgresClickRepository implements ClickRepository using PostgreSQL.
type PostgresClickRepository struct {
	pool *database.Pool
}

// NewPostgresClickRepository creates a new PostgreSQL-backed click repository.
func NewPostgresClickRepository(pool *database.Pool) *PostgresClickRepository {
	return &PostgresClickRepository{pool: pool}
}

// Create appends one click event.
func (r *PostgresClickRepository) Create(ctx context.Context, create *models.ClickCreate) (*models.Click, error) {
	query := `
		INSERT INTO url_clicks (url_id, ip_address, user_agent, referrer, device_type, browser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, url_id, clicked_at, ip_address, user_agent, referrer,
		          country, city, device_type, browser
	`

	var click models.Click
	err := r.pool.QueryRow(ctx, query,
		create.URLID,
		create.IPAddress,
		create.UserAgent,
		create.Referrer,
		create.DeviceType,
		create.Browser,
	).Scan(
		&click.ID,
		&click.URLID,
		&click.ClickedAt,
		&click.IPAddress,
		&click.UserAgent,
		&click.Referrer,
		&click.Country,
		&click.City,
		&click.DeviceType,
		&click.Browser,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record click: %w", err)
	}

	return &click, nil
}

// ListByURL returns a URL's clicks, newest first.
func (r *PostgresClickRepository) ListByURL(ctx context.Context, urlID int64, limit, offset int) ([]*models.Click, error) {
	query := `
		SELECT id, url_id, clicked_at, ip_address, user_agent, referrer,
		       country, city, device_type, browser
		FROM url_clicks
		WHERE url_id = $1
		ORDER BY clicked_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, urlID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}
	defer rows.Close()

	var clicks []*models.Click
	for rows.Next() {
		var c models.Click
		err := rows.Scan(
			&c.ID,
			&c.URLID,
			&c.ClickedAt,
			&c.IPAddress,
			&c.UserAgent,
			&c.Referrer,
			&c.Country,
			&c.City,
			&c.DeviceType,
			&c.Browser,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clicks: %w", err)
	}

	return clicks, nil
}

// CountClicks counts events in scope, optionally bounded by since.
func (r *PostgresClickRepository) CountClicks(ctx context.Context, scope ClickScope, since *time.Time) (int64, error) {
	q := newScopedQuery(scope)
	if since != nil {
		q.where("c.clicked_at >= %s", *since)
	}

	query := `SELECT COUNT(*) ` + q.fromClause()

	var count int64
	if err := r.pool.QueryRow(ctx, query, q.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return count, nil
}

// CountUniqueVisitors counts distinct non-null IPs since the given time.
// COUNT(DISTINCT ...) skips NULLs, so unattributed clicks are excluded.
func (r *PostgresClickRepository) CountUniqueVisitors(ctx context.Context, scope ClickScope, since time.Time) (int64, error) {
	q := newScopedQuery(scope)
	q.where("c.clicked_at >= %s", since)

	query := `SELECT COUNT(DISTINCT c.ip_address) ` + q.fromClause()

	var count int64
	if err := r.pool.QueryRow(ctx, query, q.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unique visitors: %w", err)
	}
	return count, nil
}

// DeviceBreakdown returns windowed event counts per device type.
func (r *PostgresClickRepository) DeviceBreakdown(ctx context.Context, scope ClickScope, since time.Time) (map[string]int64, error) {
	return r.groupedCounts(ctx, scope, since, "c.device_type")
}

// BrowserBreakdown returns windowed event counts per browser family.
func (r *PostgresClickRepository) BrowserBreakdown(ctx context.Context, scope ClickScope, since time.Time) (map[string]int64, error) {
	return r.groupedCounts(ctx, scope, since, "c.browser")
}

// groupedCounts counts windowed events grouped by a nullable text column,
// dropping the NULL bucket.
func (r *PostgresClickRepository) groupedCounts(ctx context.Context, scope ClickScope, since time.Time, column string) (map[string]int64, error) {
	q := newScopedQuery(scope)
	q.where("c.clicked_at >= %s", since)
	q.conditions = append(q.conditions, column+" IS NOT NULL")

	query := fmt.Sprintf(`SELECT %s, COUNT(*) %s GROUP BY %s`, column, q.fromClause(), column)

	rows, err := r.pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breakdown rows: %w", err)
	}

	return counts, nil
}

// TopReferrers returns the top non-null referrers by descending count.
func (r *PostgresClickRepository) TopReferrers(ctx context.Context, urlID int64, since time.Time, limit int) (map[string]int64, error) {
	query := `
		SELECT referrer, COUNT(*) AS clicks
		FROM url_clicks
		WHERE url_id = $1 AND clicked_at >= $2 AND referrer IS NOT NULL
		GROUP BY referrer
		ORDER BY clicks DESC, referrer ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, urlID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate referrers: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var referrer string
		var count int64
		if err := rows.Scan(&referrer, &count); err != nil {
			return nil, fmt.Errorf("failed to scan referrer row: %w", err)
		}
		counts[referrer] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrer rows: %w", err)
	}

	return counts, nil
}

// DailyClicks returns windowed event counts per UTC calendar date.
func (r *PostgresClickRepository) DailyClicks(ctx context.Context, scope ClickScope, since time.Time) (map[string]int64, error) {
	q := newScopedQuery(scope)
	q.where("c.clicked_at >= %s", since)

	query := fmt.Sprintf(
		`SELECT to_char(c.clicked_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) %s GROUP BY day ORDER BY day`,
		q.fromClause(),
	)

	rows, err := r.pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily clicks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily row: %w", err)
		}
		counts[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily rows: %w", err)
	}

	return counts, nil
}

// DeleteOlderThan removes events strictly older than the cutoff.
func (r *PostgresClickRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM url_clicks WHERE clicked_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old clicks: %w", err)
	}
	return result.RowsAffected(), nil
}

// scopedQuery accumulates WHERE conditions and args for click aggregation
// queries. The user scope joins through urls to reach the owner column.
type scopedQuery struct {
	joinUsers  bool
	conditions []string
	args       []interface{}
}

func newScopedQuery(scope ClickScope) *scopedQuery {
	q := &scopedQuery{}
	if scope.URLID != nil {
		q.where("c.url_id = %s", *scope.URLID)
	}
	if scope.UserID != nil {
		q.joinUsers = true
		q.where("u.user_id = %s", *scope.UserID)
	}
	return q
}

// where appends a condition whose %s placeholder becomes the next
// positional parameter.
func (q *scopedQuery) where(cond string, arg interface{}) {
	q.args = append(q.args, arg)
	q.conditions = append(q.conditions, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(q.args))))
}

// fromClause renders FROM, JOIN and WHERE for the accumulated conditions.
func (q *scopedQuery) fromClause() string {
	clause := `FROM url_clicks c`
	if q.joinUsers {
		clause += ` JOIN urls u ON u.id = c.url_id`
	}
	if len(q.conditions) > 0 {
		clause += ` WHERE ` + q.conditions[0]
		for _, c := range q.conditions[1:] {
			clause += ` AND ` + c
		}
	}
	return clause
}
