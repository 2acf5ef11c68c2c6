package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// StatisticRepository handles per-value statistics persistence. Statistics
// are fully derived data: a recompute replaces every row for the game.
type StatisticRepository struct {
	pool *pgxpool.Pool
}

// NewStatisticRepository creates a new StatisticRepository instance.
func NewStatisticRepository(pool *pgxpool.Pool) *StatisticRepository {
	return &StatisticRepository{pool: pool}
}

// ReplaceAll swaps in a freshly computed statistics set for one game inside
// a single transaction, so readers never observe a partial recompute.
func (r *StatisticRepository) ReplaceAll(ctx context.Context, code game.Code, stats []model.ValueStatistic) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM statistics WHERE game = $1`, code); err != nil {
		return fmt.Errorf("failed to clear statistics: %w", err)
	}

	const query = `
		INSERT INTO statistics (game, kind, value, frequency, percentage,
			last_seen, days_since_last, gap_mean, gap_max, deviation, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, s := range stats {
		_, err := tx.Exec(ctx, query,
			s.Game, s.Kind, s.Value, s.Frequency, s.Percentage,
			s.LastSeen, s.DaysSinceLast, s.GapMean, s.GapMax, s.Deviation, s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert statistic for value %d: %w", s.Value, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit statistics: %w", err)
	}
	return nil
}

// GetByGame retrieves all statistics of one game ordered by kind then value.
func (r *StatisticRepository) GetByGame(ctx context.Context, code game.Code) ([]model.ValueStatistic, error) {
	const query = `
		SELECT game, kind, value, frequency, percentage,
			last_seen, days_since_last, gap_mean, gap_max, deviation, updated_at
		FROM statistics
		WHERE game = $1
		ORDER BY kind, value
	`

	rows, err := r.pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	defer rows.Close()

	var stats []model.ValueStatistic
	for rows.Next() {
		var s model.ValueStatistic
		err := rows.Scan(
			&s.Game, &s.Kind, &s.Value, &s.Frequency, &s.Percentage,
			&s.LastSeen, &s.DaysSinceLast, &s.GapMean, &s.GapMax, &s.Deviation, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statistic: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statistics: %w", err)
	}
	return stats, nil
}

// GetByKind retrieves one game's statistics restricted to main numbers or
// supplementary values.
func (r *StatisticRepository) GetByKind(ctx context.Context, code game.Code, kind model.StatKind) ([]model.ValueStatistic, error) {
	const query = `
		SELECT game, kind, value, frequency, percentage,
			last_seen, days_since_last, gap_mean, gap_max, deviation, updated_at
		FROM statistics
		WHERE game = $1 AND kind = $2
		ORDER BY value
	`

	rows, err := r.pool.Query(ctx, query, code, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	defer rows.Close()

	var stats []model.ValueStatistic
	for rows.Next() {
		var s model.ValueStatistic
		err := rows.Scan(
			&s.Game, &s.Kind, &s.Value, &s.Frequency, &s.Percentage,
			&s.LastSeen, &s.DaysSinceLast, &s.GapMean, &s.GapMax, &s.Deviation, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statistic: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statistics: %w", err)
	}
	return stats, nil
}
