package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const DefaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name        string   `mapstructure:"name"`
	Env         string   `mapstructure:"env"`
	BasePath    string   `mapstructure:"base_path"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	HTTP        HTTP     `mapstructure:"http"`
}

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

type DB struct {
	Driver             string `mapstructure:"driver"` // mysql / postgres / sqlite
	DSN                string `mapstructure:"dsn"`    // wins over the discrete fields below
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Limits struct {
	RPS               float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
	PerIPRPS          float64 `mapstructure:"per_ip_rps"`
	PerIPBurst        int     `mapstructure:"per_ip_burst"`
	MaxConcurrent     int64   `mapstructure:"max_concurrent"`
	MaxBodyBytes      int64   `mapstructure:"max_body_bytes"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec"`
}

type Config struct {
	App    App    `mapstructure:"app"`
	Log    Log    `mapstructure:"log"`
	DB     DB     `mapstructure:"db"`
	Limits Limits `mapstructure:"limits"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "employee-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.base_path", "/api")
	v.SetDefault("app.cors_origins", []string{"*"})
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/employee-api.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.username", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "employee_management")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 0)
	v.SetDefault("limits.per_ip_burst", 0)
	v.SetDefault("limits.max_concurrent", 100)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.request_timeout_sec", 10)
}

// legacyEnv are the short variable names older deployments set in .env.
var legacyEnv = map[string]string{
	"db.host":       "DB_HOST",
	"db.port":       "DB_PORT",
	"db.username":   "DB_USER",
	"db.password":   "DB_PASSWORD",
	"db.name":       "DB_NAME",
	"app.http.port": "PORT",
}

// Load reads the YAML file at path (or CONFIG_PATH, or DefaultPath), then
// applies APP_* environment overrides, e.g. APP_DB_DRIVER or APP_APP_HTTP_PORT.
// A missing file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range legacyEnv {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), name); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	if c.App.HTTP.Port <= 0 || c.App.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid app.http.port %d", c.App.HTTP.Port)
	}
	return nil
}
