package redis

// connErrorStrings are lower-case substrings of go-redis errors that indicate
// the server is unreachable rather than the command being wrong. Replies such
// as NOSCRIPT or WRONGTYPE are deliberately absent.
var connErrorStrings = []string{
	"connection refused",
	"connection reset",
	"network is unreachable",
	"no such host",
	"i/o timeout",
	"broken pipe",
	"connection pool timeout",
	"redis: client is closed",
}
