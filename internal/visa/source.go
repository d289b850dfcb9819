package visa

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReferenceFile is the file name of the reference workbook.
const ReferenceFile = "Visas_Affaires_Court_Sejour_Mondial.xlsx"

// DefaultCandidates are the locations searched for the reference workbook,
// relative to the installation directory, in priority order.
var DefaultCandidates = []string{
	filepath.Join("pages", ReferenceFile),
	filepath.Join("ressources", ReferenceFile),
	ReferenceFile,
}

// Source produces a reference table.
type Source interface {
	// Name describes the source for logs.
	Name() string

	// Load reads the source and builds a table.
	Load(ctx context.Context) (*Table, error)
}

// FileSource reads the reference table from the first existing candidate file.
type FileSource struct {
	// BaseDir resolves relative candidates. Empty means the working directory.
	BaseDir string

	// Candidates are tried in order. Defaults to DefaultCandidates.
	Candidates []string

	// Sheet selects a workbook sheet. Empty means the first sheet.
	Sheet string
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file:" + strings.Join(s.paths(), ",")
}

func (s *FileSource) paths() []string {
	candidates := s.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		if filepath.IsAbs(c) || s.BaseDir == "" {
			out[i] = c
		} else {
			out[i] = filepath.Join(s.BaseDir, c)
		}
	}
	return out
}

// Locate returns the first candidate path that exists as a regular file.
func (s *FileSource) Locate() (string, error) {
	paths := s.paths()
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", unreadable("locate", p, err)
		}
	}
	return "", &SourceError{
		Op:  "locate",
		Err: fmt.Errorf("%w (tried %s)", ErrSourceNotFound, strings.Join(paths, ", ")),
	}
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.Locate()
	if err != nil {
		return nil, err
	}

	rows, err := s.readRows(path)
	if err != nil {
		return nil, err
	}

	rules, err := rowsToRules(rows)
	if err != nil {
		return nil, unreadable("decode", path, err)
	}
	return NewTable(rules, path), nil
}

// readRows reads every row of the file, dispatching on its extension.
func (s *FileSource) readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path, s.Sheet)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, unreadable("open", path, err)
		}
		defer f.Close()

		rows, err := readCSV(f)
		if err != nil {
			return nil, unreadable("decode", path, err)
		}
		return rows, nil
	default:
		return nil, unreadable("open", path, fmt.Errorf("unsupported file type %q", filepath.Ext(path)))
	}
}

// readWorkbook reads all rows of a sheet. The first sheet is used when
// sheet is empty.
func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, unreadable("open", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, unreadable("decode", path, errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, unreadable("decode", path, fmt.Errorf("sheet %q: %w", sheet, err))
	}
	return rows, nil
}
