package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shortlink/internal/domain/models"
)

// hotWindow bounds HOT_LINKS to links touched recently.
const hotWindow = 7 * 24 * time.Hour

// QueryCandidates selects unexpired links for a warmup strategy, at most q.Limit.
func (p *PostgresStorage) QueryCandidates(ctx context.Context, q models.CandidateQuery) ([]models.LinkRecord, error) {
	if q.Limit <= 0 || q.Now.IsZero() {
		return nil, fmt.Errorf("%w: candidate query needs a limit and a reference time", models.ErrInvalidData)
	}

	query, args, err := candidateQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := p.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s candidates: %w", q.Strategy, err)
	}
	defer rows.Close()

	links := make([]models.LinkRecord, 0, q.Limit)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return links, nil
}

func candidateQuery(q models.CandidateQuery) (string, []any, error) {
	base := "SELECT " + linkColumns + " FROM links WHERE (expires_at IS NULL OR expires_at > $1)"
	args := []any{q.Now}

	var filter, order string
	switch q.Strategy {
	case models.StrategyHotLinks:
		args = append(args, q.Now.Add(-hotWindow))
		filter = " AND last_access_at >= $2"
		order = " ORDER BY click_count DESC, last_access_at DESC"
	case models.StrategyRecentCreated:
		order = " ORDER BY created_at DESC"
	case models.StrategyRecentAccessed:
		filter = " AND last_access_at IS NOT NULL"
		order = " ORDER BY last_access_at DESC"
	case models.StrategyTimeRange:
		if q.From == nil || q.To == nil {
			return "", nil, fmt.Errorf("%w: time range needs from and to", models.ErrInvalidData)
		}
		args = append(args, *q.From, *q.To)
		filter = " AND created_at >= $2 AND created_at < $3"
		order = " ORDER BY click_count DESC"
	case models.StrategyUserBased:
		args = append(args, q.UserID)
		filter = " AND user_id = $2"
		order = " ORDER BY click_count DESC"
	case models.StrategyFullWarmup:
		order = " ORDER BY click_count DESC, created_at DESC"
	default:
		return "", nil, fmt.Errorf("%w: unknown strategy %q", models.ErrInvalidData, q.Strategy)
	}

	args = append(args, q.Limit)
	limit := fmt.Sprintf(" LIMIT $%d", len(args))
	return base + filter + order + limit, args, nil
}

const accessMetricsQuery = `
	SELECT l.short_code, l.click_count, l.created_at, l.last_access_at,
	       COUNT(a.id) FILTER (WHERE a.accessed_at >= $2),
	       COUNT(DISTINCT a.user_id) FILTER (WHERE a.user_id <> 0),
	       COUNT(DISTINCT a.ip) FILTER (WHERE a.ip <> ''),
	       COUNT(DISTINCT a.region) FILTER (WHERE a.region <> '')
	FROM links l
	LEFT JOIN link_access_log a ON a.short_code = l.short_code
	WHERE l.short_code = ANY($1)
	GROUP BY l.short_code, l.click_count, l.created_at, l.last_access_at`

// AccessMetrics aggregates the scoring inputs of codes as seen at now.
// Unknown codes are absent from the result.
func (p *PostgresStorage) AccessMetrics(ctx context.Context, codes []string, now time.Time) (map[string]models.LinkAccessMetrics, error) {
	result := make(map[string]models.LinkAccessMetrics, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	rows, err := p.querier(ctx).QueryContext(ctx, accessMetricsQuery, codes, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to query access metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := models.LinkAccessMetrics{Now: now}
		var lastAccessAt sql.NullTime
		if err := rows.Scan(&m.ShortCode, &m.TotalClicks, &m.CreatedAt, &lastAccessAt,
			&m.RecentClicks, &m.UniqueUsers, &m.UniqueIPs, &m.UniqueRegions); err != nil {
			return nil, fmt.Errorf("failed to scan access metrics: %w", err)
		}
		if lastAccessAt.Valid {
			m.LastAccessAt = &lastAccessAt.Time
		}
		result[m.ShortCode] = m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return result, nil
}
