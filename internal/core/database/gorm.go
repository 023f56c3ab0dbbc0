package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"employee-api/internal/core/logger"
)

var ErrUnsupportedDriver = errors.New("database: unsupported driver")

type Opts struct {
	Driver             string // mysql / postgres / sqlite
	DSN                string // used as-is when set (mysql URLs are normalized)
	Host               string
	Port               int
	Username           string
	Password           string
	Name               string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string // silent / error / warn / info
	SlowThreshold      time.Duration
	Logger             *zap.Logger
}

// NewGorm opens the pool, applies its limits and pings once. The caller owns
// the handle and must release it with Close.
func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:      newGormLogger(o.Logger, o.LogLevel, o.SlowThreshold),
		PrepareStmt: true,
		// single-statement writes only; no implicit transaction per Create/Update
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", o.Driver, err)
	}
	return db, nil
}

// Close releases every pooled connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the pool can reach the server.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "mysql":
		dsn := o.DSN
		if dsn == "" {
			dsn = buildMySQLDSN(o)
		} else {
			dsn = normalizeMySQLDSN(dsn, o.Username, o.Password)
		}
		if o.Logger != nil {
			o.Logger.Debug("mysql dsn", zap.String("dsn", maskDSN(dsn)))
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := o.DSN
		if dsn == "" {
			dsn = buildPostgresDSN(o)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := o.DSN
		if dsn == "" {
			dsn = o.Name
		}
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

func buildMySQLDSN(o Opts) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = o.Username
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	port := o.Port
	if port == 0 {
		port = 3306
	}
	cfg.Addr = o.Host + ":" + strconv.Itoa(port)
	cfg.DBName = o.Name
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func buildPostgresDSN(o Opts) string {
	port := o.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		o.Host, port, o.Username, o.Password, o.Name)
}

// maskDSN hides the password of a user:pass@... DSN.
func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	if colon := strings.Index(dsn[:at], ":"); colon > 0 {
		return dsn[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}

func newGormLogger(l *zap.Logger, level string, slow time.Duration) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	if l == nil {
		return gormlogger.Default.LogMode(lvl)
	}
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	std, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		return gormlogger.Default.LogMode(lvl)
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return in
	}

	// jdbc:mysql://... → mysql://...
	if strings.HasPrefix(in, "jdbc:mysql://") {
		in = strings.TrimPrefix(in, "jdbc:")
	}
	// already a go-sql-driver DSN (user:pass@tcp(...)): leave it alone
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}

	u, err := url.Parse(in)
	if err != nil {
		return in // let the driver report it
	}

	hostport := u.Host
	dbname := strings.TrimPrefix(u.Path, "/")

	// credentials: URL userinfo, then query params, then explicit overrides
	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	if q.Get("user") != "" {
		user = q.Get("user")
		q.Del("user")
	}
	if q.Get("password") != "" {
		pass = q.Get("password")
		q.Del("password")
	}
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	// JDBC/Navicat parameters
	if q.Get("characterEncoding") != "" && q.Get("charset") == "" {
		q.Set("charset", q.Get("characterEncoding"))
	}
	q.Del("characterEncoding")

	q.Del("useUnicode")

	// JDBC only; go-sql-driver rejects it
	q.Del("zeroDateTimeBehavior")

	// useSSL → tls
	if v := strings.ToLower(q.Get("useSSL")); v != "" {
		switch v {
		case "true", "1":
			q.Set("tls", "true")
		case "skip-verify":
			q.Set("tls", "skip-verify")
		case "preferred":
			q.Set("tls", "preferred")
		default:
			q.Set("tls", "false")
		}
		q.Del("useSSL")
	}

	// serverTimezone → loc
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
		q.Del("serverTimezone")
	}

	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	// user:pass@tcp(host:port)/db?...
	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}

	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, hostport, dbname)
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}

