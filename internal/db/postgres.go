package db

import (
	"fmt"
	"time"

	"discount-system/vitrina/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// InitReadDB opens the sqlx connection used by read models and health checks.
// Postgres gets its own lib/pq pool; SQLite shares the GORM handle since it allows a single writer.
func InitReadDB(driver, dsn string, orm *gorm.DB) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch driver {
	case config.DriverPostgres:
		for i := 0; i < 10; i++ {
			db, err = sqlx.Connect("postgres", dsn)
			if err == nil {
				return db, nil
			}
			time.Sleep(500 * time.Millisecond)
		}
		return nil, err

	case config.DriverSQLite:
		return WrapORM(orm, "sqlite3")

	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// WrapORM exposes a GORM connection pool through sqlx.
func WrapORM(orm *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
