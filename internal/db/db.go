package db

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openmined/statusapi/internal/utils"
)

// Driver names the SQL backend a Connector talks to.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// SQLite pragmas applied to every new connection
const defaultPragma = `
PRAGMA journal_mode=WAL;
PRAGMA busy_timeout=5000;
PRAGMA temp_store=MEMORY;
`

const (
	DefaultHost    = "db"
	DefaultPort    = 5432
	DefaultSSLMode = "disable"
	DefaultPath    = "statusapi.db"
)

// Config holds everything needed to open a connection.
type Config struct {
	Driver   Driver
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	// Path is the database file, sqlite only.
	Path string

	// ConnectTimeout bounds the initial ping. Zero leaves it to the driver.
	ConnectTimeout time.Duration
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" {
			return fmt.Errorf("db host is required")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("db port %d out of range", c.Port)
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("db path is required for driver %q", c.Driver)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", c.Driver)
	}

	if c.ConnectTimeout < 0 {
		return fmt.Errorf("db connect timeout must not be negative")
	}
	return nil
}

// LogValue keeps the password out of structured logs.
func (c Config) LogValue() slog.Value {
	if c.Driver == DriverSQLite {
		return slog.GroupValue(
			slog.String("driver", string(c.Driver)),
			slog.String("path", c.Path),
		)
	}
	return slog.GroupValue(
		slog.String("driver", string(c.Driver)),
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("name", c.Name),
		slog.String("user", c.User),
		slog.String("password", utils.MaskSecret(c.Password)),
	)
}

// postgresDSN renders the config as a postgres:// URL understood by pgx.
func (c *Config) postgresDSN() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}

	q := url.Values{}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = DefaultSSLMode
	}
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func (c *Config) sqliteDSN() string {
	if c.Path == ":memory:" {
		return c.Path
	}
	return fmt.Sprintf("file:%s?_txlock=immediate&mode=rwc", c.Path)
}

// Connector is the connection factory. Every Connect call dials a brand new
// connection; nothing is pooled or reused between calls.
type Connector struct {
	cfg     Config
	pragmas string
}

// ConnectorOption configures a Connector
type ConnectorOption func(*Connector)

// WithPragmas replaces the default pragmas run on new sqlite connections
func WithPragmas(pragmas string) ConnectorOption {
	return func(c *Connector) {
		c.pragmas = pragmas
	}
}

func NewConnector(cfg Config, opts ...ConnectorOption) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Connector{
		cfg:     cfg,
		pragmas: defaultPragma,
	}
	for _, opt := range opts {
		opt(c)
	}

	driverID := postgresDriverID
	if cfg.Driver == DriverSQLite {
		driverID = sqliteDriverID
		if cfg.Path != ":memory:" {
			path, err := utils.ResolvePath(cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("resolve db path: %w", err)
			}
			c.cfg.Path = path
			if err := utils.EnsureParent(path); err != nil {
				return nil, fmt.Errorf("ensure parent directory: %w", err)
			}
		}
	}

	slog.Info("db", "driver", driverID, "config", c.cfg)
	return c, nil
}

// Driver reports the backend this connector dials.
func (c *Connector) Driver() Driver {
	return c.cfg.Driver
}

// Connect opens and pings a single-connection handle. The caller owns it and
// must Close it. Errors are returned as the driver reported them.
func (c *Connector) Connect(ctx context.Context) (*sqlx.DB, error) {
	var driverName, dsn string
	switch c.cfg.Driver {
	case DriverSQLite:
		driverName, dsn = sqliteDriverName, c.cfg.sqliteDSN()
	default:
		driverName, dsn = postgresDriverName, c.cfg.postgresDSN()
	}

	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	pingCtx := ctx
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, err
	}

	if c.cfg.Driver == DriverSQLite && c.pragmas != "" {
		if _, err := conn.ExecContext(ctx, c.pragmas); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set pragmas: %w", err)
		}
	}

	return conn, nil
}

// Probe obtains a connection and releases it straight away.
func (c *Connector) Probe(ctx context.Context) error {
	conn, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}
