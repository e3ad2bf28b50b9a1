// Package config loads the YAML configuration, overlaid with environment
// variables (optionally from a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	PostgreSQL PostgresConfig `yaml:"postgresql"`
	HH         HHConfig       `yaml:"hh"`
	Server     ServerConfig   `yaml:"server"`
	LogLevel   string         `yaml:"log_level"`
}

type PostgresConfig struct {
	DBName   string `yaml:"dbname"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

type HHConfig struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
	EmployerIDs []string      `yaml:"employer_ids"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// DefaultEmployerIDs is the fixed list of hh.ru employers that gets loaded
// when the config file does not name any.
var DefaultEmployerIDs = []string{
	"3529", "78638", "906557", "9498112", "4649269", "5390761",
	"6189", "3125", "26624", "15478", "2180", "1057",
	"3776", "2733062", "1740", "87021", "4233", "740",
}

func Default() *Config {
	return &Config{
		PostgreSQL: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		HH: HHConfig{
			BaseURL:     "https://api.hh.ru",
			UserAgent:   "HH-User-Agent",
			Timeout:     15 * time.Second,
			EmployerIDs: append([]string(nil), DefaultEmployerIDs...),
		},
		Server:   ServerConfig{Port: "8080"},
		LogLevel: "info",
	}
}

// LoadYAML fills the value built by fn from the YAML file at path. An empty
// path or a missing file leaves the defaults untouched; a file that cannot
// be read or parsed is an error.
func LoadYAML[T any](path string, fn func() *T) (*T, error) {
	cfg := fn()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads .env (if present), then the YAML file at path (HH_CONFIG wins
// over path), then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if p := os.Getenv("HH_CONFIG"); p != "" {
		path = p
	}

	cfg, err := LoadYAML(path, Default)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.PostgreSQL.DBName, "PGDATABASE")
	setString(&c.PostgreSQL.User, "PGUSER")
	setString(&c.PostgreSQL.Password, "PGPASSWORD")
	setString(&c.PostgreSQL.Host, "PGHOST")
	setString(&c.PostgreSQL.SSLMode, "PGSSLMODE")
	setString(&c.Server.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")

	if s := os.Getenv("PGPORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil || port <= 0 {
			return fmt.Errorf("PGPORT must be a positive integer, got %q", s)
		}
		c.PostgreSQL.Port = port
	}
	return nil
}

// Validate requires the connection settings the database cannot default.
func (c *Config) Validate() error {
	var missing []string
	if c.PostgreSQL.DBName == "" {
		missing = append(missing, "dbname")
	}
	if c.PostgreSQL.User == "" {
		missing = append(missing, "user")
	}
	if c.PostgreSQL.Host == "" {
		missing = append(missing, "host")
	}
	if len(missing) > 0 {
		return fmt.Errorf("postgresql section is missing: %s", strings.Join(missing, ", "))
	}
	if c.PostgreSQL.Port <= 0 {
		return fmt.Errorf("postgresql port must be positive, got %d", c.PostgreSQL.Port)
	}
	if len(c.HH.EmployerIDs) == 0 {
		return errors.New("hh.employer_ids must not be empty")
	}
	return nil
}

// DSN renders the connection settings in lib/pq key=value form.
func (p PostgresConfig) DSN() string {
	parts := []string{
		"host=" + quoteDSN(p.Host),
		"port=" + strconv.Itoa(p.Port),
		"user=" + quoteDSN(p.User),
		"dbname=" + quoteDSN(p.DBName),
	}
	if p.Password != "" {
		parts = append(parts, "password="+quoteDSN(p.Password))
	}
	if p.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteDSN(p.SSLMode))
	}
	return strings.Join(parts, " ")
}

// Redacted is DSN without the password, for logs.
func (p PostgresConfig) Redacted() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(p.User),
		Host:   p.Host + ":" + strconv.Itoa(p.Port),
		Path:   "/" + p.DBName,
	}
	return u.String()
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
