package database

import "strings"

// Rebind rewrites PostgreSQL-style $N placeholders into ? placeholders for
// drivers that expect them. Repositories write SQL once, in $N form, with
// placeholders appearing in strictly increasing order and no reuse; under
// that convention a textual rewrite preserves argument binding.
func Rebind(driver Driver, query string) string {
	if driver != DriverSQLite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if j == i+1 {
			// A bare dollar sign, not a placeholder.
			b.WriteByte(c)
			continue
		}

		b.WriteByte('?')
		i = j - 1
	}

	return b.String()
}
