// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS draws (
			id BIGSERIAL PRIMARY KEY,
			game VARCHAR(32) NOT NULL,
			draw_date DATE NOT NULL,
			numbers INTEGER[] NOT NULL,
			supplementary INTEGER[] NOT NULL DEFAULT '{}',
			jackpot DOUBLE PRECISION,
			had_winner BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (game, draw_date)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS statistics (
			game VARCHAR(32) NOT NULL,
			kind VARCHAR(8) NOT NULL,
			value INTEGER NOT NULL,
			frequency INTEGER NOT NULL,
			percentage DOUBLE PRECISION NOT NULL,
			last_seen DATE,
			days_since_last INTEGER NOT NULL,
			gap_mean DOUBLE PRECISION NOT NULL,
			gap_max INTEGER NOT NULL,
			deviation DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (game, kind, value)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bets (
			id UUID PRIMARY KEY,
			game VARCHAR(32) NOT NULL,
			strategy VARCHAR(32) NOT NULL,
			numbers INTEGER[] NOT NULL,
			supplementary INTEGER[] NOT NULL DEFAULT '{}',
			main_matches INTEGER,
			supp_matches INTEGER,
			verified_draw_id BIGINT REFERENCES draws(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func testDraw(day int) *model.Draw {
	return &model.Draw{
		Game:          game.EuroMillions,
		Date:          time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Numbers:       []int{3, 17, 22, 35, 48},
		Supplementary: []int{2, 9},
	}
}

// ============================================================================
// DrawRepository Tests
// ============================================================================

func TestDrawRepository_Insert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDrawRepository(pool)
	ctx := context.Background()

	draw := testDraw(6)
	err := repo.Insert(ctx, draw)
	require.NoError(t, err)
	assert.NotZero(t, draw.ID)
	assert.False(t, draw.CreatedAt.IsZero())

	// Second insert for the same date is a duplicate
	dup := testDraw(6)
	err = repo.Insert(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateDraw)

	// Same date for another game is fine
	other := testDraw(6)
	other.Game = game.Totoloto
	other.Supplementary = []int{7}
	err = repo.Insert(ctx, other)
	assert.NoError(t, err)
}

func TestDrawRepository_InsertBatchRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDrawRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testDraw(6)))

	// The second draw collides with the stored one; the whole batch must
	// roll back, including the first.
	err := repo.InsertBatch(ctx, []*model.Draw{testDraw(10), testDraw(6)})
	require.Error(t, err)

	count, err := repo.Count(ctx, game.EuroMillions)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDrawRepository_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDrawRepository(pool)
	ctx := context.Background()

	jackpot := 17000000.0
	draw := testDraw(6)
	draw.Jackpot = &jackpot
	draw.HadWinner = true
	require.NoError(t, repo.Insert(ctx, draw))

	got, err := repo.GetByDate(ctx, game.EuroMillions, draw.Date)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 17, 22, 35, 48}, got.Numbers)
	assert.Equal(t, []int{2, 9}, got.Supplementary)
	require.NotNil(t, got.Jackpot)
	assert.InDelta(t, jackpot, *got.Jackpot, 1e-6)
	assert.True(t, got.HadWinner)

	exists, err := repo.ExistsByDate(ctx, game.EuroMillions, draw.Date)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByDate(ctx, game.EuroMillions, draw.Date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrDrawNotFound)
}

func TestDrawRepository_ListFilters(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDrawRepository(pool)
	ctx := context.Background()

	draws := []*model.Draw{
		{
			Game: game.EuroMillions,
			Date: time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC),
			Numbers: []int{1, 2, 3, 4, 5}, Supplementary: []int{1, 2},
		},
		{
			Game: game.EuroMillions,
			Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			Numbers: []int{10, 20, 30, 40, 50}, Supplementary: []int{3, 4},
			HadWinner: true,
		},
		{
			Game: game.EuroMillions,
			Date: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
			Numbers: []int{10, 21, 31, 41, 49}, Supplementary: []int{3, 5},
		},
	}
	require.NoError(t, repo.InsertBatch(ctx, draws))

	// Ordered ascending by default
	all, err := repo.List(ctx, game.EuroMillions, model.DrawFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.Before(all[1].Date))

	byYear, err := repo.List(ctx, game.EuroMillions, model.DrawFilter{Year: 2026})
	require.NoError(t, err)
	assert.Len(t, byYear, 2)

	byNumber, err := repo.List(ctx, game.EuroMillions, model.DrawFilter{Number: 10})
	require.NoError(t, err)
	assert.Len(t, byNumber, 2)

	bySupp, err := repo.List(ctx, game.EuroMillions, model.DrawFilter{Supp: 5})
	require.NoError(t, err)
	assert.Len(t, bySupp, 1)

	winners, err := repo.List(ctx, game.EuroMillions, model.DrawFilter{WinnerOnly: true})
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.True(t, winners[0].HadWinner)

	limited, err := repo.List(ctx, game.EuroMillions, model.DrawFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	latest, err := repo.Latest(ctx, game.EuroMillions)
	require.NoError(t, err)
	assert.Equal(t, 9, latest.Date.Day())
}

// ============================================================================
// StatisticRepository Tests
// ============================================================================

func TestStatisticRepository_ReplaceAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewStatisticRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := []model.ValueStatistic{
		{Game: game.EuroMillions, Kind: model.StatMain, Value: 1, Frequency: 10, Percentage: 5.0, DaysSinceLast: 3, GapMean: 7.5, GapMax: 30, Deviation: 0.2, UpdatedAt: now},
		{Game: game.EuroMillions, Kind: model.StatSupp, Value: 1, Frequency: 4, Percentage: 8.0, DaysSinceLast: 10, GapMean: 12.0, GapMax: 40, Deviation: -0.3, UpdatedAt: now},
	}
	require.NoError(t, repo.ReplaceAll(ctx, game.EuroMillions, first))

	got, err := repo.GetByGame(ctx, game.EuroMillions)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// A recompute replaces the previous set wholesale
	second := []model.ValueStatistic{
		{Game: game.EuroMillions, Kind: model.StatMain, Value: 2, Frequency: 7, Percentage: 3.5, DaysSinceLast: 0, GapMean: 9.0, GapMax: 21, Deviation: 0.05, UpdatedAt: now},
	}
	require.NoError(t, repo.ReplaceAll(ctx, game.EuroMillions, second))

	got, err = repo.GetByGame(ctx, game.EuroMillions)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Value)

	main, err := repo.GetByKind(ctx, game.EuroMillions, model.StatMain)
	require.NoError(t, err)
	assert.Len(t, main, 1)
	supp, err := repo.GetByKind(ctx, game.EuroMillions, model.StatSupp)
	require.NoError(t, err)
	assert.Empty(t, supp)
}

// ============================================================================
// BetRepository Tests
// ============================================================================

func TestBetRepository_InsertAndVerify(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	drawRepo := NewDrawRepository(pool)
	betRepo := NewBetRepository(pool)
	ctx := context.Background()

	draw := testDraw(6)
	require.NoError(t, drawRepo.Insert(ctx, draw))

	bet := &model.GeneratedBet{
		ID:            uuid.NewString(),
		Game:          game.EuroMillions,
		Strategy:      "random",
		Numbers:       []int{3, 17, 22, 1, 2},
		Supplementary: []int{2, 9},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, betRepo.Insert(ctx, bet))

	got, err := betRepo.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, bet.Numbers, got.Numbers)
	assert.Nil(t, got.MainMatches)

	require.NoError(t, betRepo.MarkVerified(ctx, bet.ID, 3, 2, draw.ID))

	got, err = betRepo.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MainMatches)
	assert.Equal(t, 3, *got.MainMatches)
	require.NotNil(t, got.SuppMatches)
	assert.Equal(t, 2, *got.SuppMatches)
	require.NotNil(t, got.VerifiedDraw)
	assert.Equal(t, draw.ID, *got.VerifiedDraw)

	err = betRepo.MarkVerified(ctx, uuid.NewString(), 0, 0, draw.ID)
	assert.ErrorIs(t, err, ErrBetNotFound)

	list, err := betRepo.ListByGame(ctx, game.EuroMillions, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
