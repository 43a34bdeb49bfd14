package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Supported database/sql drivers.
const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
// driver selects the underlying database/sql driver; empty means pgx.
func Connect(ctx context.Context, dsn, driver string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	dialector, err := newDialector(dsn, driver)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newDialector(dsn, driver string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPgx:
		return postgres.Open(dsn), nil
	case DriverPq, "pq":
		return postgres.New(postgres.Config{DriverName: DriverPq, DSN: dsn}), nil
	default:
		return nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}
}
