package collector

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"MarketSandbox/internal/model"
	"MarketSandbox/internal/store"
)

var delimiters = []rune{',', ';', '\t', '|'}

// CSVSource reads FundData_{TICKER}.csv files from Dir.
type CSVSource struct {
	Dir string
}

// NewCSVSource creates a source rooted at dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

func (s *CSVSource) Name() string { return "csv" }

// Path returns the file backing symbol.
func (s *CSVSource) Path(symbol string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("FundData_%s.csv", store.Key(symbol)))
}

// History parses the whole file. Duplicate dates keep their first position
// and last value; rows are sorted by date when every date looks ISO.
func (s *CSVSource) History(symbol string) (*model.History, error) {
	path := s.Path(symbol)
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	h := &model.History{Ticker: store.Key(symbol), Points: []model.PricePoint{}, SourceFile: path}
	if header == nil {
		return h, nil
	}

	dateIdx, valueIdx := locateColumns(header, rows)
	pos := make(map[string]int)
	for _, r := range rows {
		if len(r) <= max(dateIdx, valueIdx) {
			continue
		}
		date := strings.TrimSpace(r[dateIdx])
		v, ok := parseNumber(r[valueIdx])
		if date == "" || !ok {
			continue
		}
		if i, dup := pos[date]; dup {
			h.Points[i].Value = v
			continue
		}
		pos[date] = len(h.Points)
		h.Points = append(h.Points, model.PricePoint{Date: date, Value: v})
	}

	if allISO(h.Points) {
		sort.SliceStable(h.Points, func(i, j int) bool { return h.Points[i].Date < h.Points[j].Date })
	}
	return h, nil
}

// Latest returns the last parsable value in file order.
func (s *CSVSource) Latest(symbol string) (float64, error) {
	path := s.Path(symbol)
	header, rows, err := readTable(path)
	if err != nil {
		return 0, err
	}
	if header == nil {
		return 0, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	_, valueIdx := locateColumns(header, rows)
	last, found := 0.0, false
	for _, r := range rows {
		if len(r) <= valueIdx {
			continue
		}
		if v, ok := parseNumber(r[valueIdx]); ok {
			last, found = v, true
		}
	}
	if !found {
		return 0, fmt.Errorf("no numeric value in %s: %w", path, ErrNotFound)
	}
	return last, nil
}

// readTable returns a nil header for an empty file.
func readTable(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("csv %s: %w", path, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, records[1:], nil
}

// sniffDelimiter picks the candidate occurring most often in the header line.
func sniffDelimiter(data []byte) rune {
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(string(line), string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func locateColumns(header []string, rows [][]string) (dateIdx, valueIdx int) {
	dateIdx = 0
	for i, name := range header {
		if strings.Contains(strings.ToLower(name), "date") {
			dateIdx = i
			break
		}
	}

	valueIdx = -1
	probe := rows[:min(5, len(rows))]
	for i := range header {
		if i == dateIdx {
			continue
		}
		for _, r := range probe {
			if i < len(r) {
				if _, ok := parseNumber(r[i]); ok {
					valueIdx = i
					break
				}
			}
		}
		if valueIdx >= 0 {
			break
		}
	}
	if valueIdx < 0 {
		valueIdx = dateIdx
		if len(header) > 1 {
			valueIdx = 1
		}
	}
	return dateIdx, valueIdx
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func allISO(points []model.PricePoint) bool {
	for _, p := range points {
		if len(p.Date) < 8 || p.Date[4] != '-' {
			return false
		}
	}
	return true
}
