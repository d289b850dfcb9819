package visa

import "strings"

// Match resolves q against the reference table.
//
// The exact pass looks for the first rule agreeing with q on all five
// fields. Only when it finds nothing does the fallback pass look for the
// first rule agreeing on nationality and destination alone. Comparison is
// case-insensitive exact string equality; a blank query field never equals
// anything. Returns ErrNoMatch when neither pass finds a rule.
func Match(t *Table, q Query) (Result, error) {
	if t.Len() == 0 {
		return Result{}, ErrNoMatch
	}

	k := q.key()

	if i := exactPass(t, k); i >= 0 {
		return t.result(i, TierExact), nil
	}
	if i := fallbackPass(t, k); i >= 0 {
		return t.result(i, TierFallback), nil
	}
	return Result{}, ErrNoMatch
}

// exactPass returns the index of the first rule matching all five fields, or -1.
func exactPass(t *Table, q ruleKey) int {
	for i, r := range t.keys {
		if fieldEqual(r.nationality, q.nationality) &&
			fieldEqual(r.origin, q.origin) &&
			fieldEqual(r.destination, q.destination) &&
			fieldEqual(r.duration, q.duration) &&
			fieldEqual(r.stayType, q.stayType) {
			return i
		}
	}
	return -1
}

// fallbackPass returns the index of the first rule matching nationality and
// destination, or -1.
func fallbackPass(t *Table, q ruleKey) int {
	for i, r := range t.keys {
		if fieldEqual(r.nationality, q.nationality) &&
			fieldEqual(r.destination, q.destination) {
			return i
		}
	}
	return -1
}

// fieldEqual compares normalized values. Blank query values match nothing.
func fieldEqual(tableVal, queryVal string) bool {
	if strings.TrimSpace(queryVal) == "" {
		return false
	}
	return tableVal == queryVal
}

func (t *Table) result(i int, tier Tier) Result {
	r := t.rules[i]
	return Result{
		VisaType:   r.VisaType,
		Conditions: r.Conditions,
		Tier:       tier,
		Row:        i,
	}
}
