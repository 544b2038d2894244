// Package rds runs queries against the relational database of an
// environment. The database is reached through a port forwarded to
// localhost, see `biomage rds start-port-forwarding`.
package rds

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"
	"time"

	// Registers the "pgx" driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
)

// Config describes the connection to the database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	PingTimeout time.Duration
}

// URL returns the connection string for the config.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.Database,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// Validate errors if a required field is unset.
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return errors.MissingFieldError{Field: "host"}
	case c.Port <= 0:
		return errors.MissingFieldError{Field: "port"}
	case c.User == "":
		return errors.MissingFieldError{Field: "user"}
	case c.Database == "":
		return errors.MissingFieldError{Field: "database"}
	}
	return nil
}

// Open connects to the database and checks that it's reachable.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, errors.WithContext(err, "open")
	}

	pingTimeout := cfg.PingTimeout
	if pingTimeout == 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.NewFriendlyError("Failed to connect to the database on %s:%d (%s).\n"+
			"Is port forwarding running? Start it with `biomage rds start-port-forwarding`.",
			cfg.Host, cfg.Port, err)
	}

	return db, nil
}

// Querier is a remote.Querier that runs queries on a database handle.
type Querier struct {
	DB *sql.DB
}

// Query implements remote.Querier. Byte slices are returned as strings.
func (q Querier) Query(ctx context.Context, query string, args ...interface{}) ([]remote.Row, error) {
	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WithContext(err, "run query")
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"query": query,
		"rows":  len(result),
	}).Debug("Ran query")
	return result, nil
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanRows(rows rowScanner) ([]remote.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.WithContext(err, "get columns")
	}

	result := []remote.Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, errors.WithContext(err, "scan row")
		}

		row := remote.Row{}
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.WithContext(err, "read rows")
	}
	return result, nil
}

func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
