// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// Common errors for repository operations.
var (
	ErrDrawNotFound  = errors.New("draw not found")
	ErrDuplicateDraw = errors.New("draw already exists for this date")
)

const drawColumns = "id, game, draw_date, numbers, supplementary, jackpot, had_winner, created_at"

// DrawRepository handles draw persistence. Draws are unique per (game,
// draw_date) and immutable after insert.
type DrawRepository struct {
	pool *pgxpool.Pool
}

// NewDrawRepository creates a new DrawRepository instance.
func NewDrawRepository(pool *pgxpool.Pool) *DrawRepository {
	return &DrawRepository{pool: pool}
}

// Insert stores one draw. A second draw for the same game and date returns
// ErrDuplicateDraw.
func (r *DrawRepository) Insert(ctx context.Context, draw *model.Draw) error {
	const query = `
		INSERT INTO draws (game, draw_date, numbers, supplementary, jackpot, had_winner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (game, draw_date) DO NOTHING
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		draw.Game, draw.Date, toInt32(draw.Numbers), toInt32(draw.Supplementary),
		draw.Jackpot, draw.HadWinner,
	).Scan(&draw.ID, &draw.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDuplicateDraw
		}
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// InsertBatch stores a set of draws in one transaction. Any failure rolls
// the whole batch back.
func (r *DrawRepository) InsertBatch(ctx context.Context, draws []*model.Draw) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO draws (game, draw_date, numbers, supplementary, jackpot, had_winner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	for _, draw := range draws {
		err := tx.QueryRow(ctx, query,
			draw.Game, draw.Date, toInt32(draw.Numbers), toInt32(draw.Supplementary),
			draw.Jackpot, draw.HadWinner,
		).Scan(&draw.ID, &draw.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert draw for %s: %w",
				draw.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit draw batch: %w", err)
	}
	return nil
}

// ExistsByDate checks whether a draw is already stored for a game and date.
func (r *DrawRepository) ExistsByDate(ctx context.Context, code game.Code, date time.Time) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM draws WHERE game = $1 AND draw_date = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, code, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check draw existence: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a draw by its primary key.
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*model.Draw, error) {
	query := fmt.Sprintf("SELECT %s FROM draws WHERE id = $1", drawColumns)

	draw, err := scanDraw(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	return draw, nil
}

// GetByDate retrieves the draw of one game on one date.
func (r *DrawRepository) GetByDate(ctx context.Context, code game.Code, date time.Time) (*model.Draw, error) {
	query := fmt.Sprintf("SELECT %s FROM draws WHERE game = $1 AND draw_date = $2", drawColumns)

	draw, err := scanDraw(r.pool.QueryRow(ctx, query, code, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	return draw, nil
}

// Latest retrieves the most recent draw of one game.
func (r *DrawRepository) Latest(ctx context.Context, code game.Code) (*model.Draw, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM draws WHERE game = $1 ORDER BY draw_date DESC LIMIT 1", drawColumns)

	draw, err := scanDraw(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}
	return draw, nil
}

// List retrieves draws of one game matching the filter, ordered by date
// ascending.
func (r *DrawRepository) List(ctx context.Context, code game.Code, filter model.DrawFilter) ([]*model.Draw, error) {
	var (
		conditions = []string{"game = $1"}
		args       = []any{code}
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.From != nil {
		conditions = append(conditions, "draw_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "draw_date <= "+arg(*filter.To))
	}
	if filter.Year > 0 {
		conditions = append(conditions, "EXTRACT(YEAR FROM draw_date) = "+arg(filter.Year))
	}
	if filter.Month > 0 {
		conditions = append(conditions, "EXTRACT(MONTH FROM draw_date) = "+arg(filter.Month))
	}
	if filter.Number > 0 {
		conditions = append(conditions, arg(int32(filter.Number))+" = ANY(numbers)")
	}
	if filter.Supp > 0 {
		conditions = append(conditions, arg(int32(filter.Supp))+" = ANY(supplementary)")
	}
	if filter.WinnerOnly {
		conditions = append(conditions, "had_winner")
	}

	query := fmt.Sprintf("SELECT %s FROM draws WHERE %s ORDER BY draw_date ASC",
		drawColumns, strings.Join(conditions, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	defer rows.Close()

	var draws []*model.Draw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}
	return draws, nil
}

// Count returns the number of stored draws for one game.
func (r *DrawRepository) Count(ctx context.Context, code game.Code) (int, error) {
	const query = `SELECT COUNT(*) FROM draws WHERE game = $1`

	var count int
	err := r.pool.QueryRow(ctx, query, code).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

// scanDraw reads one draw row. Integer arrays come back as []int32 from pgx
// and are widened here.
func scanDraw(row pgx.Row) (*model.Draw, error) {
	var (
		draw    model.Draw
		numbers []int32
		supp    []int32
	)
	err := row.Scan(
		&draw.ID,
		&draw.Game,
		&draw.Date,
		&numbers,
		&supp,
		&draw.Jackpot,
		&draw.HadWinner,
		&draw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	draw.Numbers = toInt(numbers)
	draw.Supplementary = toInt(supp)
	return &draw, nil
}

func toInt32(values []int) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}

func toInt(values []int32) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
