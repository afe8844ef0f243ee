package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"net/url"
	"seva/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits reads and writes. Read may point at a replica.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  connect(config, "read", config.DB.Postgres.Read),
		Write: connect(config, "write", config.DB.Postgres.Write),
	}
}

func (c *Connection) Close() error {
	readErr := c.Read.Close()
	writeErr := c.Write.Close()

	if readErr != nil || writeErr != nil {
		return fmt.Errorf("closing postgres connections: read=%v write=%v", readErr, writeErr)
	}

	return nil
}

// DSN builds a connection URL for endpoint. extra is merged into the query string.
func DSN(config *config.Config, endpoint config.PostgresEndpoint, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     config.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// connect retries until the database accepts a connection and exits the process when it never does.
func connect(config *config.Config, name string, endpoint config.PostgresEndpoint) *sqlx.DB {
	pg := config.DB.Postgres
	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", pg.Prefix+endpoint.Name).
		Logger()

	var lastErr error

	for attempt := 1; attempt <= pg.MaxRetry; attempt++ {
		db, err := sqlx.Connect(driverName, DSN(config, endpoint, nil))
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifeMin) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db
		}

		lastErr = err

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Err(lastErr).Int("attempts", pg.MaxRetry).Msg("Giving up connecting to database")

	return nil
}
