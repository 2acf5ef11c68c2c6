package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
)

// CSV parsing errors.
var (
	ErrMissingHeader = errors.New("csv header missing required columns")
)

// columnSynonyms maps a canonical column name to the header spellings seen
// across exported files. Matching is case-insensitive.
var columnSynonyms = map[string][]string{
	"date":    {"data", "date", "draw_date", "dia"},
	"jackpot": {"jackpot", "premio", "prize"},
	"winner":  {"winner", "vencedor", "had_winner", "sorteado"},
}

func numberSynonyms(i int) []string {
	return []string{
		fmt.Sprintf("n%d", i),
		fmt.Sprintf("numero_%d", i),
		fmt.Sprintf("numero%d", i),
		fmt.Sprintf("ball %d", i),
		fmt.Sprintf("ball%d", i),
		fmt.Sprintf("num%d", i),
	}
}

func suppSynonyms(i int) []string {
	return []string{
		fmt.Sprintf("e%d", i),
		fmt.Sprintf("s%d", i),
		fmt.Sprintf("star%d", i),
		fmt.Sprintf("star %d", i),
		fmt.Sprintf("lucky star %d", i),
		fmt.Sprintf("estrela%d", i),
		fmt.Sprintf("estrela_%d", i),
		fmt.Sprintf("sonho%d", i),
		fmt.Sprintf("sorte%d", i),
		fmt.Sprintf("lucky%d", i),
	}
}

// CSVReader parses draw records from a CSV export. Column order is free; the
// header row decides which column holds what.
type CSVReader struct {
	spec game.Spec
}

// NewCSVReader creates a reader for one game's exports.
func NewCSVReader(spec game.Spec) *CSVReader {
	return &CSVReader{spec: spec}
}

// Read parses all records from r. Rows that fail to parse are collected as
// errors alongside the good candidates; the caller decides whether a partial
// file is acceptable.
func (c *CSVReader) Read(r io.Reader) ([]model.CandidateDraw, []error, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols, err := c.mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		candidates []model.CandidateDraw
		rowErrs    []error
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		cand, err := c.parseRow(record, cols)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates, rowErrs, nil
}

// columns holds resolved header indexes. -1 marks an absent optional column.
type columns struct {
	date    int
	numbers []int
	supp    []int
	jackpot int
	winner  int
}

func (c *CSVReader) mapColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(names []string) int {
		for _, n := range names {
			if i, ok := index[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		date:    find(columnSynonyms["date"]),
		jackpot: find(columnSynonyms["jackpot"]),
		winner:  find(columnSynonyms["winner"]),
	}
	if cols.date < 0 {
		return columns{}, fmt.Errorf("%w: no date column", ErrMissingHeader)
	}

	for i := 1; i <= c.spec.MainCount; i++ {
		idx := find(numberSynonyms(i))
		if idx < 0 {
			return columns{}, fmt.Errorf("%w: no column for number %d", ErrMissingHeader, i)
		}
		cols.numbers = append(cols.numbers, idx)
	}
	for i := 1; i <= c.spec.SuppCount; i++ {
		idx := find(suppSynonyms(i))
		if idx < 0 {
			if c.spec.SuppOptional {
				break
			}
			return columns{}, fmt.Errorf("%w: no column for %s %d", ErrMissingHeader, c.spec.SuppName, i)
		}
		cols.supp = append(cols.supp, idx)
	}
	return cols, nil
}

func (c *CSVReader) parseRow(record []string, cols columns) (model.CandidateDraw, error) {
	var cand model.CandidateDraw

	get := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := ParseDrawDate(get(cols.date))
	if err != nil {
		return cand, err
	}
	cand.Date = date

	for _, idx := range cols.numbers {
		n, err := strconv.Atoi(get(idx))
		if err != nil {
			return cand, fmt.Errorf("bad number %q: %w", get(idx), err)
		}
		cand.Numbers = append(cand.Numbers, n)
	}
	for _, idx := range cols.supp {
		raw := get(idx)
		if raw == "" && c.spec.SuppOptional {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return cand, fmt.Errorf("bad %s %q: %w", c.spec.SuppName, raw, err)
		}
		cand.Supplementary = append(cand.Supplementary, n)
	}

	if raw := get(cols.jackpot); raw != "" {
		cleaned := strings.NewReplacer("€", "", " ", "").Replace(raw)
		if strings.Contains(cleaned, ",") {
			// European format: dots are thousand separators, comma the decimal.
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			cand.Jackpot = &v
		}
	}
	if raw := strings.ToLower(get(cols.winner)); raw != "" {
		cand.HadWinner = raw == "1" || raw == "true" || raw == "sim" || raw == "yes" || raw == "s"
	}
	return cand, nil
}
