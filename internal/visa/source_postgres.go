package visa

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query interface PostgresSource needs.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// DefaultRulesTable is the table PostgresSource reads when none is configured.
const DefaultRulesTable = "visa_rules"

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// PostgresSource reads the reference table from Postgres. Rows are ordered
// by the position column, which carries the workbook row order so the
// first-match tie-break is preserved.
type PostgresSource struct {
	DB    DBTX
	Table string
}

// Name implements Source.
func (s *PostgresSource) Name() string {
	return "postgres:" + s.table()
}

func (s *PostgresSource) table() string {
	if s.Table == "" {
		return DefaultRulesTable
	}
	return s.Table
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf(`SELECT nationality, origin_country, destination_country,
       stay_duration, stay_type, visa_type, conditions
FROM %s
ORDER BY position`, pgx.Identifier{s.table()}.Sanitize())
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) (*Table, error) {
	rows, err := s.DB.Query(ctx, s.query())
	if err != nil {
		return nil, s.classify(err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var (
			r    Rule
			cols [7]*string
		)
		if err := rows.Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6]); err != nil {
			return nil, unreadable("query", s.table(), err)
		}
		r.Nationality = cleanCell(deref(cols[0]))
		r.OriginCountry = cleanCell(deref(cols[1]))
		r.DestinationCountry = cleanCell(deref(cols[2]))
		r.StayDuration = cleanCell(deref(cols[3]))
		r.StayType = cleanCell(deref(cols[4]))
		r.VisaType = cleanCell(deref(cols[5]))
		r.Conditions = cleanCell(deref(cols[6]))
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(err)
	}

	return NewTable(rules, s.Name()), nil
}

// classify maps a query error to the source taxonomy.
func (s *PostgresSource) classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return &SourceError{Op: "query", Path: s.table(), Err: fmt.Errorf("%w: %v", ErrSourceNotFound, err)}
	}
	return unreadable("query", s.table(), err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
