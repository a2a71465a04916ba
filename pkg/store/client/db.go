package client

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	dbsql "github.com/databricks/databricks-sql-go"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

// Supported profile drivers.
const (
	DriverPostgres   = "postgres"
	DriverMySQL      = "mysql"
	DriverSQLite     = "sqlite"
	DriverDuckDB     = "duckdb"
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
)

// Open connects to the datasource described by profile.
func Open(profile domain.Profile) (*sqlx.DB, error) {
	switch profile.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverDuckDB:
		if profile.DSN == "" {
			return nil, fmt.Errorf("profile %s: dsn is required", profile.Name)
		}
		db, err := sqlx.Open(profile.Driver, profile.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", profile, err)
		}
		return db, nil
	case DriverSnowflake:
		dsn, err := snowflakeDSN(profile)
		if err != nil {
			return nil, err
		}
		db, err := sqlx.Open(DriverSnowflake, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", profile, err)
		}
		return db, nil
	case DriverDatabricks:
		connector, err := databricksConnector(profile)
		if err != nil {
			return nil, err
		}
		return sqlx.NewDb(sql.OpenDB(connector), DriverDatabricks), nil
	default:
		return nil, fmt.Errorf("profile %s: unsupported driver %q", profile.Name, profile.Driver)
	}
}

func snowflakeDSN(profile domain.Profile) (string, error) {
	if profile.DSN != "" {
		return profile.DSN, nil
	}

	cfg := &gosnowflake.Config{
		Account:   profile.Settings["account"],
		User:      profile.Settings["user"],
		Password:  profile.Settings["password"],
		Database:  profile.Settings["database"],
		Schema:    profile.Settings["schema"],
		Warehouse: profile.Settings["warehouse"],
		Role:      profile.Settings["role"],
	}
	if cfg.Account == "" || cfg.User == "" {
		return "", fmt.Errorf("profile %s: snowflake needs account and user", profile.Name)
	}

	dsn, err := gosnowflake.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("profile %s: build snowflake dsn: %w", profile.Name, err)
	}
	return dsn, nil
}

func databricksConnector(profile domain.Profile) (driver.Connector, error) {
	host := profile.Settings["host"]
	token := profile.Settings["token"]
	httpPath := profile.Settings["http_path"]
	if host == "" || token == "" || httpPath == "" {
		return nil, fmt.Errorf("profile %s: databricks needs host, token and http_path", profile.Name)
	}

	port := 443
	if p := profile.Settings["port"]; p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("profile %s: invalid port %q", profile.Name, p)
		}
		port = n
	}

	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(host),
		dbsql.WithPort(port),
		dbsql.WithHTTPPath(httpPath),
		dbsql.WithAccessToken(token),
	)
	if err != nil {
		return nil, fmt.Errorf("profile %s: databricks connector: %w", profile.Name, err)
	}
	return connector, nil
}
