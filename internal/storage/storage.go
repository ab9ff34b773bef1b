package storage

import (
	"net/url"
	"strings"
)

// IsPostgresConnString reports whether a config value names a Postgres
// backend rather than a sqlite file path.
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a Postgres connection string carries
// a password. Passwords belong in the OS keyring, the environment, or .pgpass,
// never on the command line where they leak into shell history and process
// lists.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			// Unparseable strings fail later during validation; don't
			// block them here.
			return false
		}
		_, isSet := u.User.Password()
		return isSet
	}
	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return true
		}
	}
	return false
}
