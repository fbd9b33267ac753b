package app

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
)

// tracedQueryLimit bounds the db.statement attribute in bytes.
const tracedQueryLimit = 512

// dbTraceOptions labels database spans with the database name and a
// compacted statement.
func dbTraceOptions(dsn string) []otelsql.Option {
	return []otelsql.Option{
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(compactQuery),
	}
}

// compactQuery folds whitespace runs to single spaces and cuts the result on
// a rune boundary, marking the cut with an ellipsis.
func compactQuery(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) <= tracedQueryLimit {
		return compact
	}
	cut := tracedQueryLimit
	for cut > 0 && !utf8.RuneStart(compact[cut]) {
		cut--
	}
	return compact[:cut] + "..."
}

// dbNameFromURL names the database for traces and logs: the path of a
// postgres url, the dbname of a key/value dsn or the file name of a sqlite
// database.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Scheme != "file" {
		if name := strings.Trim(u.Path, "/ "); name != "" {
			return name
		}
	}

	for _, kv := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(kv, "dbname="); ok {
			if name = strings.Trim(name, `"'`); name != "" {
				return name
			}
		}
	}

	file, _, _ := strings.Cut(strings.TrimPrefix(raw, "file:"), "?")
	switch {
	case file == "" || strings.ContainsAny(file, " ="):
		return ""
	case file == ":memory:":
		return "memory"
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
