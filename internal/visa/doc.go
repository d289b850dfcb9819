// Package visa provides the business visa lookup logic.
//
// This package holds the domain logic independent of any UI or transport
// layer. It can be used by web handlers or tests without modification.
//
// # Architecture
//
//   - Reference table: an immutable, ordered [Table] of [Rule] rows loaded
//     once from a static source (an Excel workbook, a CSV export, or a
//     Postgres table).
//   - Loader: [Loader] resolves the source and memoizes the first successful
//     table for the lifetime of the process.
//   - Matcher: [Match] resolves a five-field [Query] against a table, first
//     with an exact pass and then with a nationality/destination fallback.
//   - Service: [Service] is the entry point used by the web layer.
//
// # Matching
//
// Comparisons are case-insensitive and otherwise exact. The first matching
// row in table order wins in both passes:
//
//	table, err := loader.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	res, err := visa.Match(table, visa.Query{
//	    Nationality:        "french",
//	    OriginCountry:      "FRANCE",
//	    DestinationCountry: "usa",
//	    StayDuration:       "SHORT",
//	    StayType:           "Business",
//	})
//
// # Error Handling
//
// Outcomes are signaled with sentinel errors that callers classify with
// errors.Is: [ErrSourceNotFound], [ErrSourceUnreadable], [ErrIncompleteQuery]
// and [ErrNoMatch]. Technical errors are mapped to user-friendly messages
// with a support code using [MapError].
package visa
