package postgres

// connErrorStrings are lower-case substrings of pgx errors that point at the
// server or the network rather than at the statement. Constraint violations
// and syntax errors never match.
var connErrorStrings = []string{
	"connection refused",
	"connection reset",
	"network is unreachable",
	"no such host",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"terminating connection",
	"closed pool",
}
