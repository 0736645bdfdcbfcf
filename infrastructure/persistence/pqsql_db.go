package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"subtitle-widget/infrastructure/configuration"

	_ "github.com/lib/pq"
)

// PostgresDSN builds a postgres:// connection string from the configured credentials.
func PostgresDSN(cfg configuration.Db) string {
	u := &url.URL{Scheme: "postgres", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), Path: "/" + cfg.Name}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	if cfg.Host != "localhost" && cfg.Host != "127.0.0.1" && cfg.Host != "" {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// NewPostgreSQLDB opens and pings the primary PostgreSQL database.
func NewPostgreSQLDB() (*sql.DB, error) {
	db, err := sql.Open("postgres", PostgresDSN(configuration.C.Database.Psql))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
