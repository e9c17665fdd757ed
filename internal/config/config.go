package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/ucom-dev/ucom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ucom.json"

	// EnvFileName is the dotenv file loaded next to the configuration.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "UCOM_"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultPrefix is the default directive prefix.
	DefaultPrefix = "u"

	// DefaultComponentsDir is the default component directory.
	DefaultComponentsDir = "components"

	// DefaultExt is the default component file extension.
	DefaultExt = ".html"

	// DefaultTable is the default table of the SQL persistence backends.
	DefaultTable = "ucom_storage"
)

// Persistence backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendS3       = "s3"
)

// Sanitizer policies for the html directive.
const (
	SanitizeNone   = "none"
	SanitizeUGC    = "ugc"
	SanitizeStrict = "strict"
)

// Config represents the complete ucom.json configuration.
type Config struct {
	// Prefix is the directive attribute prefix.
	Prefix string `json:"prefix,omitempty"`

	// Components contains component file settings.
	Components ComponentsConfig `json:"components,omitempty"`

	// HTML contains html directive settings.
	HTML HTMLConfig `json:"html,omitempty"`

	// Persist contains persisted store settings.
	Persist PersistConfig `json:"persist,omitempty"`

	// Dev contains development server settings.
	Dev DevConfig `json:"dev,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ComponentsConfig contains component file settings.
type ComponentsConfig struct {
	// Dir is the directory holding component templates.
	Dir string `json:"dir,omitempty"`

	// Ext is the component file extension.
	Ext string `json:"ext,omitempty"`
}

// HTMLConfig contains html directive settings.
type HTMLConfig struct {
	// Sanitize names the sanitizer policy: none, ugc or strict.
	Sanitize string `json:"sanitize,omitempty"`
}

// PersistConfig contains persisted store settings.
type PersistConfig struct {
	// Backend is memory, sqlite, postgres, mysql or s3.
	Backend string `json:"backend,omitempty"`

	// DSN is the data source name of the SQL backends.
	DSN string `json:"dsn,omitempty"`

	// Table is the table of the SQL backends.
	Table string `json:"table,omitempty"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// KeyPrefix prefixes every S3 object key.
	KeyPrefix string `json:"keyPrefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Prefix: DefaultPrefix,
		Components: ComponentsConfig{
			Dir: DefaultComponentsDir,
			Ext: DefaultExt,
		},
		HTML: HTMLConfig{
			Sanitize: SanitizeUGC,
		},
		Persist: PersistConfig{
			Backend: BackendMemory,
			Table:   DefaultTable,
		},
		Dev: DevConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory. A missing ucom.json
// yields the defaults. The directory's .env file is loaded into the
// environment first, then UCOM_* variables override file values.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, EnvFileName)); err != nil && !os.IsNotExist(err) {
		return nil, errors.New("E301").
			WithDetail("Failed to read " + EnvFileName + ": " + err.Error())
	}

	configPath := filepath.Join(dir, ConfigFileName)
	var cfg *Config
	if Exists(dir) {
		var err error
		if cfg, err = LoadFile(configPath); err != nil {
			return nil, err
		}
	} else {
		cfg = New()
		cfg.configPath = configPath
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E301").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E301").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E301").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyEnv overrides fields from UCOM_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PREFIX":             &c.Prefix,
		"COMPONENTS_DIR":     &c.Components.Dir,
		"COMPONENTS_EXT":     &c.Components.Ext,
		"HTML_SANITIZE":      &c.HTML.Sanitize,
		"PERSIST_BACKEND":    &c.Persist.Backend,
		"PERSIST_DSN":        &c.Persist.DSN,
		"PERSIST_TABLE":      &c.Persist.Table,
		"PERSIST_BUCKET":     &c.Persist.Bucket,
		"PERSIST_KEY_PREFIX": &c.Persist.KeyPrefix,
		"DEV_HOST":           &c.Dev.Host,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = v
		}
	}

	if v, ok := lookup(EnvPrefix + "DEV_PORT"); ok {
		port, err := cast.ToIntE(v)
		if err != nil {
			return errors.New("E301").
				WithDetail(EnvPrefix + "DEV_PORT must be a number, got " + strconv.Quote(v))
		}
		c.Dev.Port = port
	}
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Components.Dir == "" {
		c.Components.Dir = DefaultComponentsDir
	}
	if c.Components.Ext == "" {
		c.Components.Ext = DefaultExt
	}
	if c.HTML.Sanitize == "" {
		c.HTML.Sanitize = SanitizeUGC
	}
	if c.Persist.Backend == "" {
		c.Persist.Backend = BackendMemory
	}
	if c.Persist.Table == "" {
		c.Persist.Table = DefaultTable
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

var prefixRE = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !prefixRE.MatchString(c.Prefix) {
		return errors.New("E301").
			WithDetail("prefix must be lowercase letters and digits, got " + strconv.Quote(c.Prefix))
	}
	if !strings.HasPrefix(c.Components.Ext, ".") {
		return errors.New("E301").
			WithDetail("components.ext must start with a dot, got " + strconv.Quote(c.Components.Ext))
	}
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E301").
			WithDetail("Port must be between 0 and 65535")
	}

	switch c.HTML.Sanitize {
	case SanitizeNone, SanitizeUGC, SanitizeStrict:
	default:
		return errors.New("E301").
			WithDetail("html.sanitize must be none, ugc or strict, got " + strconv.Quote(c.HTML.Sanitize))
	}

	switch c.Persist.Backend {
	case BackendMemory:
	case BackendSQLite, BackendPostgres, BackendMySQL:
		if c.Persist.DSN == "" {
			return errors.New("E301").
				WithDetail("persist.dsn is required for the " + c.Persist.Backend + " backend")
		}
	case BackendS3:
		if c.Persist.Bucket == "" {
			return errors.New("E301").
				WithDetail("persist.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E302").
			WithDetail("got " + strconv.Quote(c.Persist.Backend))
	}

	if _, err := c.SlogLevel(); err != nil {
		return errors.New("E301").Wrap(err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E301").
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	return nil
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ComponentsPath returns the absolute path to the components directory.
func (c *Config) ComponentsPath() string {
	path := c.Components.Dir
	if path == "" {
		path = DefaultComponentsDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing ucom.json, or startDir when there is
// none.
func FindProjectRoot(startDir string) (string, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for dir := start; ; {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the project containing the
// current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
