package dbpool

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLDSN builds a MySQL DSN that parses DATE and DATETIME columns into
// time.Time so they classify as datetime columns.
func MySQLDSN(user, password, addr, database string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ValidateMySQLDSN reports whether dsn parses as a MySQL DSN.
func ValidateMySQLDSN(dsn string) error {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return fmt.Errorf("dbpool: invalid MySQL DSN: %w", err)
	}
	return nil
}
