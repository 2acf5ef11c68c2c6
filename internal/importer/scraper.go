package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// Scraping errors.
var (
	ErrNoResults     = errors.New("no draw rows found in page")
	ErrAllSourcesDown = errors.New("all result sources failed")
)

// politenessDelay spaces successive page fetches.
const politenessDelay = 500 * time.Millisecond

// resultSources lists the archive URL patterns per game, tried in order.
// %d is the archive year.
var resultSources = map[game.Code][]string{
	game.EuroMillions: {
		"https://www.euro-millions.com/results-history-%d",
		"https://www.lottery.ie/results/euromillions/history/%d",
	},
	game.EuroDreams: {
		"https://www.euro-dreams.com/results/%d",
	},
	game.Totoloto: {
		"https://www.totoloto.pt/resultados/%d",
	},
}

// Scraper fetches draw results from public archive pages.
type Scraper struct {
	spec    game.Spec
	client  *http.Client
	sources []string
}

// NewScraper creates a scraper for one game. A non-positive timeout falls
// back to 30 seconds.
func NewScraper(spec game.Spec, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		spec:    spec,
		client:  &http.Client{Timeout: timeout},
		sources: resultSources[spec.Code],
	}
}

// NewScraperWith creates a scraper with an explicit client and source list,
// for tests and alternative mirrors.
func NewScraperWith(spec game.Spec, client *http.Client, sources []string) *Scraper {
	return &Scraper{spec: spec, client: client, sources: sources}
}

// FetchYear downloads and parses the archive page for one year, trying each
// source in order until one yields rows.
func (s *Scraper) FetchYear(ctx context.Context, year int) ([]model.CandidateDraw, error) {
	var lastErr error
	for i, pattern := range s.sources {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(politenessDelay):
			}
		}
		url := fmt.Sprintf(pattern, year)
		candidates, err := s.fetchPage(ctx, url)
		if err == nil {
			return candidates, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("url", url).Msg("result source failed, trying next")
	}
	if lastErr == nil {
		lastErr = ErrNoResults
	}
	return nil, fmt.Errorf("%w: %v", ErrAllSourcesDown, lastErr)
}

// FetchYears fetches a span of archive years with the politeness delay
// between pages. Years that yield no rows are skipped, not fatal.
func (s *Scraper) FetchYears(ctx context.Context, from, to int) ([]model.CandidateDraw, error) {
	var all []model.CandidateDraw
	for year := from; year <= to; year++ {
		if year > from {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(politenessDelay):
			}
		}
		candidates, err := s.FetchYear(ctx, year)
		if err != nil {
			log.Warn().Err(err).Int("year", year).Msg("skipping archive year")
			continue
		}
		all = append(all, candidates...)
	}
	if len(all) == 0 {
		return nil, ErrNoResults
	}
	return all, nil
}

func (s *Scraper) fetchPage(ctx context.Context, url string) ([]model.CandidateDraw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "lottery-analyzer/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	return s.Parse(resp)
}

// Parse extracts draw candidates from a results page. The markup follows the
// archive layout: one tr.resultRow per draw, the date inside td.date a, main
// numbers in li.resultBall.ball and supplementary values in
// li.resultBall.lucky-star.
func (s *Scraper) Parse(resp *http.Response) ([]model.CandidateDraw, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var candidates []model.CandidateDraw
	doc.Find("tr.resultRow").Each(func(_ int, row *goquery.Selection) {
		cand, err := s.parseRow(row)
		if err != nil {
			log.Debug().Err(err).Msg("skipping malformed result row")
			return
		}
		candidates = append(candidates, cand)
	})

	if len(candidates) == 0 {
		return nil, ErrNoResults
	}
	return candidates, nil
}

func (s *Scraper) parseRow(row *goquery.Selection) (model.CandidateDraw, error) {
	var cand model.CandidateDraw

	dateText := strings.TrimSpace(row.Find("td.date a").First().Text())
	date, err := ParseDrawDate(dateText)
	if err != nil {
		return cand, err
	}
	cand.Date = date

	var ballErr error
	row.Find("li.resultBall.ball").Each(func(_ int, ball *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(ball.Text()))
		if err != nil && ballErr == nil {
			ballErr = fmt.Errorf("bad ball %q: %w", ball.Text(), err)
			return
		}
		cand.Numbers = append(cand.Numbers, n)
	})
	row.Find("li.resultBall.lucky-star").Each(func(_ int, star *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(star.Text()))
		if err != nil && ballErr == nil {
			ballErr = fmt.Errorf("bad %s %q: %w", s.spec.SuppName, star.Text(), err)
			return
		}
		cand.Supplementary = append(cand.Supplementary, n)
	})
	if ballErr != nil {
		return cand, ballErr
	}
	return cand, nil
}
