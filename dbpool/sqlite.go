package dbpool

import (
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteDSN builds a modernc.org/sqlite DSN. A busy timeout covers short
// lock contention; read-only opens use the URI mode parameter.
func sqliteDSN(opts OpenOptions) string {
	if opts.Path == ":memory:" || opts.Path == "" {
		return ":memory:"
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	if opts.Mode == ModeReadOnly {
		q.Set("mode", "ro")
	}
	path := strings.TrimPrefix(opts.Path, "file:")
	return "file:" + path + "?" + q.Encode()
}
