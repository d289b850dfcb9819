package visa

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Column headers of the reference workbook.
const (
	ColNationality        = "Nationalité"
	ColOriginCountry      = "Pays d'origine"
	ColDestinationCountry = "Pays de destination"
	ColStayDuration       = "Durée du séjour"
	ColStayType           = "Type de séjour"
	ColVisaType           = "Type de visa requis"
	ColConditions         = "Conditions d'obtention du visa"
)

// Columns lists the reference columns in workbook order.
var Columns = []string{
	ColNationality,
	ColOriginCountry,
	ColDestinationCountry,
	ColStayDuration,
	ColStayType,
	ColVisaType,
	ColConditions,
}

// Rule is one row of the reference table.
type Rule struct {
	Nationality        string
	OriginCountry      string
	DestinationCountry string
	StayDuration       string // categorical label, e.g. "short stay"
	StayType           string // categorical label, e.g. "business"
	VisaType           string
	Conditions         string
}

// ruleKey is the lowercase form of the five fields a Query is compared against.
type ruleKey struct {
	nationality string
	origin      string
	destination string
	duration    string
	stayType    string
}

func (r Rule) key() ruleKey {
	return ruleKey{
		nationality: normalize(r.Nationality),
		origin:      normalize(r.OriginCountry),
		destination: normalize(r.DestinationCountry),
		duration:    normalize(r.StayDuration),
		stayType:    normalize(r.StayType),
	}
}

// Table is the reference table: an ordered, read-only sequence of rules.
// A Table is never mutated after NewTable returns, so it can be shared
// freely between goroutines.
type Table struct {
	id       uuid.UUID
	source   string
	loadedAt time.Time
	rules    []Rule
	keys     []ruleKey
}

// NewTable builds a Table from rules in table order. The rules slice is
// copied; later changes to it do not affect the table.
func NewTable(rules []Rule, source string) *Table {
	t := &Table{
		id:       uuid.New(),
		source:   source,
		loadedAt: time.Now(),
		rules:    make([]Rule, len(rules)),
		keys:     make([]ruleKey, len(rules)),
	}
	copy(t.rules, rules)
	for i, r := range t.rules {
		t.keys[i] = r.key()
	}
	return t
}

// ID identifies this loaded copy of the reference data.
func (t *Table) ID() uuid.UUID { return t.id }

// Source describes where the rows were read from.
func (t *Table) Source() string { return t.source }

// LoadedAt is when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Len returns the number of rules. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rule returns the rule at index i in table order.
func (t *Table) Rule(i int) Rule {
	return t.rules[i]
}

// Rules returns a copy of all rules in table order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Query is a lookup request. All five fields are mandatory.
type Query struct {
	Nationality        string
	OriginCountry      string
	DestinationCountry string
	StayDuration       string
	StayType           string
}

// Placeholder is the value an unselected dropdown submits.
const Placeholder = "-- Sélectionnez --"

// Missing returns the column names of fields that were left blank or unselected.
func (q Query) Missing() []string {
	var missing []string
	fields := []struct {
		col string
		val string
	}{
		{ColNationality, q.Nationality},
		{ColOriginCountry, q.OriginCountry},
		{ColDestinationCountry, q.DestinationCountry},
		{ColStayDuration, q.StayDuration},
		{ColStayType, q.StayType},
	}
	for _, f := range fields {
		if isBlank(f.val) || strings.TrimSpace(f.val) == Placeholder {
			missing = append(missing, f.col)
		}
	}
	return missing
}

// Validate reports ErrIncompleteQuery when any field is missing.
func (q Query) Validate() error {
	if missing := q.Missing(); len(missing) > 0 {
		return &QueryError{Missing: missing}
	}
	return nil
}

func (q Query) key() ruleKey {
	return ruleKey{
		nationality: normalize(q.Nationality),
		origin:      normalize(q.OriginCountry),
		destination: normalize(q.DestinationCountry),
		duration:    normalize(q.StayDuration),
		stayType:    normalize(q.StayType),
	}
}

// Tier says which search pass produced a Result.
type Tier string

const (
	TierExact    Tier = "exact"
	TierFallback Tier = "fallback"
)

// Result is the visa category and conditions for a matched rule.
type Result struct {
	VisaType   string
	Conditions string
	Tier       Tier
	Row        int // zero-based index of the matched rule
}

// Complete reports whether both the visa type and the conditions are filled in.
func (r Result) Complete() bool {
	return !isBlank(r.VisaType) && !isBlank(r.Conditions)
}

func normalize(s string) string {
	return strings.ToLower(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
