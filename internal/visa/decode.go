package visa

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8BOM is added to CSV exports by Excel on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// headerIndex maps a reference column to its position in a header row.
type headerIndex map[string]int

// cleanHeader normalizes a header cell for comparison. Typographic
// apostrophes are folded so "Pays d’origine" matches.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, "\u2019", "'")
	return strings.ToLower(strings.TrimSpace(h))
}

// findHeader locates the header row among the first rows and indexes it.
// Leading blank or title rows are skipped.
func findHeader(rows [][]string) (int, headerIndex, error) {
	const maxScan = 10

	want := make(map[string]string, len(Columns))
	for _, c := range Columns {
		want[cleanHeader(c)] = c
	}

	for i := 0; i < len(rows) && i < maxScan; i++ {
		idx := make(headerIndex, len(Columns))
		for pos, cell := range rows[i] {
			if col, ok := want[cleanHeader(cell)]; ok {
				if _, dup := idx[col]; !dup {
					idx[col] = pos
				}
			}
		}
		if len(idx) == 0 {
			continue
		}
		if len(idx) < len(Columns) {
			var missing []string
			for _, c := range Columns {
				if _, ok := idx[c]; !ok {
					missing = append(missing, c)
				}
			}
			return 0, nil, fmt.Errorf("missing required column %q", strings.Join(missing, `", "`))
		}
		return i, idx, nil
	}
	return 0, nil, errors.New("header row not found")
}

// cell returns the trimmed value at the column's position, or "" for short rows.
func (h headerIndex) cell(row []string, col string) string {
	pos := h[col]
	if pos >= len(row) {
		return ""
	}
	return cleanCell(row[pos])
}

// cleanCell trims whitespace and replaces invalid UTF-8.
func cleanCell(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "?")
	}
	return strings.TrimSpace(s)
}

// rowsToRules converts raw rows (header included) into rules in row order.
// Fully empty rows are skipped.
func rowsToRules(rows [][]string) ([]Rule, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}

	headerRow, idx, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		if isEmptyRow(row) {
			continue
		}
		rules = append(rules, Rule{
			Nationality:        idx.cell(row, ColNationality),
			OriginCountry:      idx.cell(row, ColOriginCountry),
			DestinationCountry: idx.cell(row, ColDestinationCountry),
			StayDuration:       idx.cell(row, ColStayDuration),
			StayType:           idx.cell(row, ColStayType),
			VisaType:           idx.cell(row, ColVisaType),
			Conditions:         idx.cell(row, ColConditions),
		})
	}
	return rules, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readCSV reads every record of a CSV export. Both comma and semicolon
// separated files are accepted; French Excel exports use semicolons.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(skipBOM(r))
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffDelimiter(data)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
