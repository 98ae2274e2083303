package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"bioserver/logutils"

	"gopkg.in/yaml.v3"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultConfigPath = "./etc/config.yaml"
)

type Config struct {
	Server struct {
		Addr         string   `yaml:"addr"`
		Mode         string   `yaml:"mode"` // gin mode: debug, release, test
		AllowOrigins []string `yaml:"allowOrigins"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Store   StoreConfig `yaml:"store"`
	Auth    AuthConfig  `yaml:"auth"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

type StoreConfig struct {
	Driver  string        `yaml:"driver"`
	Timeout time.Duration `yaml:"timeout"`

	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DBName   string `yaml:"dbname"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"TimeZone"`
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (p PostgresConfig) DSN() string {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode, p.TimeZone)
}

type AuthConfig struct {
	AccessTokenSecret      string `yaml:"accessTokenSecret"`
	AccessTokenExpiryHour  int    `yaml:"accessTokenExpiryHour"`
	RefreshTokenExpiryHour int    `yaml:"refreshTokenExpiryHour"`
}

type TracingConfig struct {
	Exporter    string  `yaml:"exporter"` // "", stdout, otlp
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"serviceName"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

var (
	once   sync.Once
	config *Config
)

// GetConfig loads the configuration once from Path() and panics if it is invalid.
func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

// Path is the configuration file location, BIOSERVER_CONFIG or ./etc/config.yaml.
func Path() string {
	if p := strings.TrimSpace(os.Getenv("BIOSERVER_CONFIG")); p != "" {
		return p
	}
	return DefaultConfigPath
}

func initConfig() *Config {
	cfg, err := Load(Path())
	if err != nil {
		logutils.Log.Error("init config: ", err)
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path, applies defaults and environment overrides
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	err := readConfig(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logutils.Log.Warnf("config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BIOSERVER_TOKEN_SECRET"); v != "" {
		c.Auth.AccessTokenSecret = v
	}
	if v := os.Getenv("BIOSERVER_MONGO_URI"); v != "" {
		c.Store.Mongo.URI = v
	}
	if v := os.Getenv("BIOSERVER_DATABASE_URL"); v != "" {
		c.Store.Postgres.URL = v
	}
	if v := os.Getenv("BIOSERVER_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("BIOSERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMongo
	}
	if c.Store.Timeout <= 0 {
		c.Store.Timeout = 10 * time.Second
	}
	if c.Store.Mongo.URI == "" {
		c.Store.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Store.Mongo.Database == "" {
		c.Store.Mongo.Database = "bioserver"
	}
	if c.Store.SQLite.Path == "" {
		c.Store.SQLite.Path = "bioserver.db"
	}
	if c.Auth.AccessTokenExpiryHour <= 0 {
		c.Auth.AccessTokenExpiryHour = 1
	}
	if c.Auth.RefreshTokenExpiryHour <= 0 {
		c.Auth.RefreshTokenExpiryHour = 168
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "bioserver"
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Auth.AccessTokenSecret) == "" {
		return errors.New("auth.accessTokenSecret must be set")
	}
	switch c.Tracing.Exporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown tracing exporter %q", c.Tracing.Exporter)
	}
	return nil
}
