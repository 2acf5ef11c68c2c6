// Package importer brings official draw results into the repository from
// scraped archive pages and CSV exports. Candidates are validated against
// the game rules and deduplicated by draw date before anything is written.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// DrawStore is the slice of the draw repository the pipeline needs.
type DrawStore interface {
	ExistsByDate(ctx context.Context, code game.Code, date time.Time) (bool, error)
	InsertBatch(ctx context.Context, draws []*model.Draw) error
}

// Pipeline validates, deduplicates and persists candidate draws. The insert
// is all-or-nothing: a failure while writing leaves the repository as it
// was.
type Pipeline struct {
	spec  game.Spec
	store DrawStore
}

// NewPipeline creates an import pipeline for one game.
func NewPipeline(spec game.Spec, store DrawStore) *Pipeline {
	return &Pipeline{spec: spec, store: store}
}

// Run processes a batch of candidates. Invalid candidates count as errors,
// already-stored dates as duplicates; only the remainder is inserted. A
// batch where everything is a duplicate succeeds with zero imports.
func (p *Pipeline) Run(ctx context.Context, candidates []model.CandidateDraw) (model.ImportSummary, error) {
	summary := model.ImportSummary{Found: len(candidates)}

	seen := make(map[time.Time]bool, len(candidates))
	var fresh []*model.Draw
	for _, c := range candidates {
		if err := p.spec.ValidateSelection(c.Numbers, c.Supplementary); err != nil {
			summary.Errors++
			log.Warn().Err(err).Time("date", c.Date).
				Str("game", string(p.spec.Code)).Msg("rejecting invalid draw candidate")
			continue
		}

		if seen[c.Date] {
			summary.Duplicates++
			continue
		}
		seen[c.Date] = true

		exists, err := p.store.ExistsByDate(ctx, p.spec.Code, c.Date)
		if err != nil {
			return summary, fmt.Errorf("checking draw date %s: %w", c.Date.Format("2006-01-02"), err)
		}
		if exists {
			summary.Duplicates++
			continue
		}

		draw := &model.Draw{
			Game:          p.spec.Code,
			Date:          c.Date,
			Numbers:       append([]int(nil), c.Numbers...),
			Supplementary: append([]int(nil), c.Supplementary...),
			Jackpot:       c.Jackpot,
			HadWinner:     c.HadWinner,
		}
		draw.Normalize()
		fresh = append(fresh, draw)
		summary.New++
	}

	if len(fresh) > 0 {
		if err := p.store.InsertBatch(ctx, fresh); err != nil {
			return summary, fmt.Errorf("inserting %d draws: %w", len(fresh), err)
		}
		summary.Imported = len(fresh)
	}

	log.Info().
		Str("game", string(p.spec.Code)).
		Int("found", summary.Found).
		Int("imported", summary.Imported).
		Int("duplicates", summary.Duplicates).
		Int("errors", summary.Errors).
		Msg("import finished")
	return summary, nil
}
