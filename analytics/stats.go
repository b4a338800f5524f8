package analytics

import (
	"context"
	"fmt"
	"time"
)

const topLimit = 10

// Stats aggregates the views recorded in [from, to).
func (s *Store) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	lo, hi := from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)
	st := &Stats{
		From: from.UTC().Format(time.RFC3339),
		To:   to.UTC().Format(time.RFC3339),
	}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT visitor_id)
		FROM visits WHERE timestamp >= ? AND timestamp < ?`, lo, hi).
		Scan(&st.TotalViews, &st.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bot_visits
		WHERE timestamp >= ? AND timestamp < ?`, lo, hi).Scan(&st.BotViews)
	if err != nil {
		return nil, fmt.Errorf("count bot visits: %w", err)
	}

	if st.TopPages, err = s.topPages(ctx, lo, hi); err != nil {
		return nil, err
	}
	for _, d := range []struct {
		column string
		table  string
		dst    *[]DimensionStat
	}{
		{"referrer", "visits", &st.Referrers},
		{"browser", "visits", &st.Browsers},
		{"device", "visits", &st.Devices},
		{"locale", "visits", &st.Locales},
		{"bot_name", "bot_visits", &st.TopBots},
	} {
		if *d.dst, err = s.dimension(ctx, d.table, d.column, lo, hi); err != nil {
			return nil, err
		}
	}
	if st.DailyViews, err = s.dailyViews(ctx, from, to); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) topPages(ctx context.Context, lo, hi string) ([]PageStat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, COUNT(*) AS views FROM visits
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY path ORDER BY views DESC, path LIMIT ?`, lo, hi, topLimit)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	defer rows.Close()
	pages := []PageStat{}
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, fmt.Errorf("top pages: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// dimension groups table by column. Both names come from Stats, never
// from a request.
func (s *Store) dimension(ctx context.Context, table, column, lo, hi string) ([]DimensionStat, error) {
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) AS n FROM %[2]s
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY %[1]s ORDER BY n DESC, %[1]s LIMIT ?`, column, table)
	rows, err := s.db.QueryContext(ctx, query, lo, hi, topLimit)
	if err != nil {
		return nil, fmt.Errorf("%s stats: %w", column, err)
	}
	defer rows.Close()
	out := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, fmt.Errorf("%s stats: %w", column, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// dailyViews returns one entry per UTC day in range, zero-filled.
func (s *Store) dailyViews(ctx context.Context, from, to time.Time) ([]DailyView, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT substr(timestamp, 1, 10) AS day, COUNT(*)
		FROM visits WHERE timestamp >= ? AND timestamp < ?
		GROUP BY day`, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("daily views: %w", err)
		}
		counts[day] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var days []DailyView
	start := from.UTC().Truncate(24 * time.Hour)
	for d := start; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		days = append(days, DailyView{Date: key, Views: counts[key]})
	}
	return days, nil
}
