package visa

import (
	"io"
	"strings"
	"testing"
)

func TestSkipBOM(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with BOM", "\xEF\xBB\xBFNationalité", "Nationalité"},
		{"without BOM", "Nationalité", "Nationalité"},
		{"empty", "", ""},
		{"shorter than BOM", "ab", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(skipBOM(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nationalité", "nationalité"},
		{"  Type de visa  ", "type de visa"},
		{"\ufeffNationalité", "nationalité"},
		{"Pays d’origine", "pays d'origine"},
	}
	for _, tt := range tests {
		if got := cleanHeader(tt.in); got != tt.want {
			t.Errorf("cleanHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindHeader(t *testing.T) {
	reordered := []string{ColConditions, ColVisaType, ColStayType, ColStayDuration, ColDestinationCountry, ColOriginCountry, ColNationality}

	tests := []struct {
		name    string
		rows    [][]string
		wantRow int
		wantPos map[string]int
		wantErr string
	}{
		{
			name:    "first row",
			rows:    [][]string{Columns},
			wantRow: 0,
			wantPos: map[string]int{ColNationality: 0, ColConditions: 6},
		},
		{
			name:    "after title rows",
			rows:    [][]string{{"Visas d'affaires"}, {}, Columns},
			wantRow: 2,
			wantPos: map[string]int{ColNationality: 0},
		},
		{
			name:    "columns in any order",
			rows:    [][]string{reordered},
			wantRow: 0,
			wantPos: map[string]int{ColNationality: 6, ColConditions: 0, ColStayType: 2},
		},
		{
			name:    "extra columns ignored",
			rows:    [][]string{append([]string{"Notes"}, Columns...)},
			wantRow: 0,
			wantPos: map[string]int{ColNationality: 1},
		},
		{
			name:    "header case and spacing",
			rows:    [][]string{{" NATIONALITÉ", "Pays d’origine", "pays de destination", "Durée du séjour", "type de séjour", "TYPE DE VISA REQUIS", "conditions d'obtention du visa "}},
			wantRow: 0,
			wantPos: map[string]int{ColNationality: 0, ColOriginCountry: 1},
		},
		{
			name:    "partial header",
			rows:    [][]string{{ColNationality, ColOriginCountry}},
			wantErr: "missing required column",
		},
		{
			name:    "no header",
			rows:    [][]string{{"a", "b"}, {"1", "2"}},
			wantErr: "header row not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, idx, err := findHeader(tt.rows)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("findHeader() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("findHeader() error = %v", err)
			}
			if row != tt.wantRow {
				t.Errorf("row = %d, want %d", row, tt.wantRow)
			}
			for col, pos := range tt.wantPos {
				if idx[col] != pos {
					t.Errorf("idx[%q] = %d, want %d", col, idx[col], pos)
				}
			}
		})
	}
}

func TestFindHeader_MissingColumnNamed(t *testing.T) {
	_, _, err := findHeader([][]string{Columns[:6]})
	if err == nil || !strings.Contains(err.Error(), ColConditions) {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestRowsToRules(t *testing.T) {
	rows := [][]string{
		{"Référentiel"},
		Columns,
		{" French ", "France", "USA", "short", "business", "ESTA", "Apply online..."},
		{"", " ", "", "", "", "", ""},
		{"German", "Germany", "Japan"},
	}

	rules, err := rowsToRules(rows)
	if err != nil {
		t.Fatalf("rowsToRules() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}

	want0 := Rule{"French", "France", "USA", "short", "business", "ESTA", "Apply online..."}
	if rules[0] != want0 {
		t.Errorf("rules[0] = %+v, want %+v", rules[0], want0)
	}

	// short rows yield blank trailing fields
	if rules[1].DestinationCountry != "Japan" || rules[1].VisaType != "" || rules[1].Conditions != "" {
		t.Errorf("rules[1] = %+v", rules[1])
	}
}

func TestRowsToRules_Empty(t *testing.T) {
	if _, err := rowsToRules(nil); err == nil || !strings.Contains(err.Error(), "empty file") {
		t.Errorf("rowsToRules(nil) error = %v, want empty file", err)
	}
}

func TestRowsToRules_HeaderOnly(t *testing.T) {
	rules, err := rowsToRules([][]string{Columns})
	if err != nil {
		t.Fatalf("rowsToRules() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("len(rules) = %d, want 0", len(rules))
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  ESTA  ", "ESTA"},
		{"\tVisa\n", "Visa"},
		{"bad\xffbyte", "bad?byte"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanCell(tt.in); got != tt.want {
			t.Errorf("cleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "comma separated",
			input: "a,b,c\n1,2,3\n",
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "semicolon separated with commas in cells",
			input: "a;b;c\n1,5;2;3\n",
			want:  [][]string{{"a", "b", "c"}, {"1,5", "2", "3"}},
		},
		{
			name:  "BOM stripped",
			input: "\xEF\xBB\xBFa,b\n1,2\n",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "ragged rows",
			input: "a,b,c\n1\n",
			want:  [][]string{{"a", "b", "c"}, {"1"}},
		},
		{
			name:  "quoted newline",
			input: "a,b\n\"line1\nline2\",x\n",
			want:  [][]string{{"a", "b"}, {"line1\nline2", "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("readCSV() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if strings.Join(got[i], "|") != strings.Join(tt.want[i], "|") {
					t.Errorf("row %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a;b,c;d\n,,,,,", ';'},
		{"", ','},
	}
	for _, tt := range tests {
		if got := sniffDelimiter([]byte(tt.in)); got != tt.want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
