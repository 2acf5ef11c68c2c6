package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// ErrBetNotFound is returned when a bet ID does not exist.
var ErrBetNotFound = errors.New("bet not found")

const betColumns = "id, game, strategy, numbers, supplementary, main_matches, supp_matches, verified_draw_id, created_at"

// BetRepository handles generated bet persistence.
type BetRepository struct {
	pool *pgxpool.Pool
}

// NewBetRepository creates a new BetRepository instance.
func NewBetRepository(pool *pgxpool.Pool) *BetRepository {
	return &BetRepository{pool: pool}
}

// Insert stores one generated bet.
func (r *BetRepository) Insert(ctx context.Context, bet *model.GeneratedBet) error {
	const query = `
		INSERT INTO bets (id, game, strategy, numbers, supplementary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		bet.ID, bet.Game, bet.Strategy,
		toInt32(bet.Numbers), toInt32(bet.Supplementary), bet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bet: %w", err)
	}
	return nil
}

// InsertBatch stores a batch of bets in one transaction.
func (r *BetRepository) InsertBatch(ctx context.Context, bets []*model.GeneratedBet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO bets (id, game, strategy, numbers, supplementary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, bet := range bets {
		_, err := tx.Exec(ctx, query,
			bet.ID, bet.Game, bet.Strategy,
			toInt32(bet.Numbers), toInt32(bet.Supplementary), bet.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bet %s: %w", bet.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bet batch: %w", err)
	}
	return nil
}

// GetByID retrieves one bet.
func (r *BetRepository) GetByID(ctx context.Context, id string) (*model.GeneratedBet, error) {
	query := fmt.Sprintf("SELECT %s FROM bets WHERE id = $1", betColumns)

	bet, err := scanBet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBetNotFound
		}
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// ListByGame retrieves the most recent bets of one game, newest first.
func (r *BetRepository) ListByGame(ctx context.Context, code game.Code, limit int) ([]*model.GeneratedBet, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM bets WHERE game = $1 ORDER BY created_at DESC LIMIT $2", betColumns)

	rows, err := r.pool.Query(ctx, query, code, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var bets []*model.GeneratedBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}
	return bets, nil
}

// MarkVerified records the verification outcome of one bet.
func (r *BetRepository) MarkVerified(ctx context.Context, id string, mainMatches, suppMatches int, drawID int64) error {
	const query = `
		UPDATE bets
		SET main_matches = $2, supp_matches = $3, verified_draw_id = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, mainMatches, suppMatches, drawID)
	if err != nil {
		return fmt.Errorf("failed to mark bet verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBetNotFound
	}
	return nil
}

func scanBet(row pgx.Row) (*model.GeneratedBet, error) {
	var (
		bet     model.GeneratedBet
		numbers []int32
		supp    []int32
	)
	err := row.Scan(
		&bet.ID,
		&bet.Game,
		&bet.Strategy,
		&numbers,
		&supp,
		&bet.MainMatches,
		&bet.SuppMatches,
		&bet.VerifiedDraw,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	bet.Numbers = toInt(numbers)
	bet.Supplementary = toInt(supp)
	return &bet, nil
}
