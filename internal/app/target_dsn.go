package app

import (
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mmrzaf/coursegen/internal/domain"
)

// resolveTargetForRun returns a copy of base whose DSN names the effective
// database: dbOverride, then base.Database, then whatever the DSN says.
func resolveTargetForRun(base *domain.TargetConfig, dbOverride string) *domain.TargetConfig {
	if base == nil {
		return nil
	}
	t := *base
	if dbOverride != "" {
		t.Database = dbOverride
	}
	if t.Database == "" {
		return &t
	}
	switch t.Kind {
	case domain.TargetPostgres:
		t.DSN = withPostgresDatabase(t.DSN, t.Database)
	case domain.TargetMySQL:
		t.DSN = withMySQLDatabase(t.DSN, t.Database)
	}
	return &t
}

func withPostgresDatabase(dsn, database string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return dsn
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		u.Path = "/" + database
		return u.String()
	}
	parts := strings.Fields(dsn)
	found := false
	for i := range parts {
		if strings.HasPrefix(strings.ToLower(parts[i]), "dbname=") {
			parts[i] = "dbname=" + database
			found = true
			break
		}
	}
	if !found {
		parts = append(parts, "dbname="+database)
	}
	return strings.Join(parts, " ")
}

// withMySQLDatabase leaves unparsable DSNs alone; Connect reports them.
func withMySQLDatabase(dsn, database string) string {
	cfg, err := mysql.ParseDSN(strings.TrimSpace(dsn))
	if err != nil {
		return dsn
	}
	cfg.DBName = database
	return cfg.FormatDSN()
}
