package dbpool

import (
	"fmt"

	"github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig holds the connection fields for a Snowflake account.
type SnowflakeConfig struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
}

// SnowflakeDSN renders cfg as a gosnowflake DSN.
func SnowflakeDSN(cfg SnowflakeConfig) (string, error) {
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
	})
	if err != nil {
		return "", fmt.Errorf("dbpool: invalid Snowflake config: %w", err)
	}
	return dsn, nil
}
