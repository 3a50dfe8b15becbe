package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
)

const (
	DefaultConfigPath = "/etc/footprint"
	ConfigFileName    = "footprint.yml"

	DefaultDatabaseURL = "footprint.db"
	DefaultAIModel     = "gemini-2.5-flash"
)

// ValidAuthenticators is the list of valid authenticator types
var ValidAuthenticators = []string{"authn", "guest"}

// ValidLogLevels is the list of accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// FootprintConfig holds all server configuration settings
type FootprintConfig struct {
	// DatabaseURL is a sqlite file path (optionally sqlite3://) or a postgres:// URL
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// RemoteDatabaseURL is an optional postgres replica that receives entries first
	RemoteDatabaseURL string `yaml:"remote_database_url" json:"remote_database_url"`

	// TokenSecret signs auth tokens. Only read from the environment.
	TokenSecret string `yaml:"-" json:"-"`

	// TokenTTL is the lifetime of auth tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// Authenticators is a list of enabled authenticators
	Authenticators []string `yaml:"authenticators" json:"authenticators"`

	// DefaultWeeklyTarget is used when a user has not saved a goal (kg CO2)
	DefaultWeeklyTarget float64 `yaml:"-" json:"default_weekly_target"`

	// LeaderboardWindowDays is how far back the leaderboard looks
	LeaderboardWindowDays int `yaml:"leaderboard_window_days" json:"leaderboard_window_days"`

	// LeaderboardSize is the number of aliases shown
	LeaderboardSize int `yaml:"leaderboard_size" json:"leaderboard_size"`

	// DailySummaryDays is the default number of days in the daily breakdown
	DailySummaryDays int `yaml:"daily_summary_days" json:"daily_summary_days"`

	// EmissionFactors overrides transport factors, keyed by mode
	EmissionFactors map[string]float64 `yaml:"emission_factors" json:"emission_factors"`

	// ElectricityFactor is kg CO2 per kWh
	ElectricityFactor float64 `yaml:"-" json:"electricity_factor"`

	// LPGFactor is kg CO2 per kg of LPG
	LPGFactor float64 `yaml:"-" json:"lpg_factor"`

	// AIModel is the generative model used for tips
	AIModel string `yaml:"ai_model" json:"ai_model"`

	// AIAPIKey enables the tips endpoint. Only read from the environment.
	AIAPIKey string `yaml:"-" json:"-"`

	// AIMaxOutputTokens caps the length of generated tips
	AIMaxOutputTokens int `yaml:"ai_max_output_tokens" json:"ai_max_output_tokens"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFile, when set, receives logs in addition to stderr
	LogFile string `yaml:"log_file" json:"log_file"`

	// CORSAllowedOrigins enables CORS for the listed origins
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// AuditEnabled enables audit logging
	AuditEnabled bool `yaml:"-" json:"audit_enabled"`

	// AuditPersist stores audit messages in the database
	AuditPersist bool `yaml:"-" json:"audit_persist"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors FootprintConfig with pointer fields so that explicit
// false or zero values in the file can be told apart from absent keys.
type fileConfig struct {
	FootprintConfig     `yaml:",inline"`
	DefaultWeeklyTarget *float64 `yaml:"default_weekly_target"`
	ElectricityFactor   *float64 `yaml:"electricity_factor"`
	LPGFactor           *float64 `yaml:"lpg_factor"`
	AuditEnabled        *bool    `yaml:"audit_enabled"`
	AuditPersist        *bool    `yaml:"audit_persist"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *FootprintConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *FootprintConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
// The previous configuration stays active when the new one is invalid.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	Set(cfg)
	return nil
}

// Set replaces the global configuration
func Set(cfg *FootprintConfig) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// Default returns a config holding only default values
func Default() *FootprintConfig {
	return newDefault()
}

func newDefault() *FootprintConfig {
	cfg := &FootprintConfig{
		DatabaseURL:           DefaultDatabaseURL,
		TokenTTL:              8 * 60 * 60,
		Authenticators:        []string{"authn", "guest"},
		DefaultWeeklyTarget:   20.0,
		ElectricityFactor:     emissions.DefaultElectricityFactor,
		LPGFactor:             emissions.DefaultLPGFactor,
		LeaderboardWindowDays: 7,
		LeaderboardSize:       10,
		DailySummaryDays:      14,
		EmissionFactors:       map[string]float64{},
		AIModel:               DefaultAIModel,
		AIMaxOutputTokens:     300,
		LogLevel:              "info",
		CORSAllowedOrigins:    []string{},
		AuditEnabled:          true,
		sources:               make(map[string]string),
	}
	for _, name := range attributeNames() {
		cfg.sources[name] = "default"
	}
	return cfg
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*FootprintConfig, error) {
	config := newDefault()

	configPath := os.Getenv("FOOTPRINT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"database_url", "remote_database_url", "token_secret", "token_ttl",
		"authenticators", "default_weekly_target", "leaderboard_window_days",
		"leaderboard_size", "daily_summary_days", "emission_factors",
		"electricity_factor", "lpg_factor", "ai_model", "ai_api_key",
		"ai_max_output_tokens", "log_level", "log_file", "cors_allowed_origins",
		"audit_enabled", "audit_persist",
	}
}

func (c *FootprintConfig) applyFileConfig(file *fileConfig) {
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.RemoteDatabaseURL != "" {
		c.RemoteDatabaseURL = file.RemoteDatabaseURL
		c.sources["remote_database_url"] = "file"
	}
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if len(file.Authenticators) > 0 {
		c.Authenticators = file.Authenticators
		c.sources["authenticators"] = "file"
	}
	if file.DefaultWeeklyTarget != nil {
		c.DefaultWeeklyTarget = *file.DefaultWeeklyTarget
		c.sources["default_weekly_target"] = "file"
	}
	if file.LeaderboardWindowDays != 0 {
		c.LeaderboardWindowDays = file.LeaderboardWindowDays
		c.sources["leaderboard_window_days"] = "file"
	}
	if file.LeaderboardSize != 0 {
		c.LeaderboardSize = file.LeaderboardSize
		c.sources["leaderboard_size"] = "file"
	}
	if file.DailySummaryDays != 0 {
		c.DailySummaryDays = file.DailySummaryDays
		c.sources["daily_summary_days"] = "file"
	}
	if len(file.EmissionFactors) > 0 {
		c.EmissionFactors = file.EmissionFactors
		c.sources["emission_factors"] = "file"
	}
	if file.ElectricityFactor != nil {
		c.ElectricityFactor = *file.ElectricityFactor
		c.sources["electricity_factor"] = "file"
	}
	if file.LPGFactor != nil {
		c.LPGFactor = *file.LPGFactor
		c.sources["lpg_factor"] = "file"
	}
	if file.AIModel != "" {
		c.AIModel = file.AIModel
		c.sources["ai_model"] = "file"
	}
	if file.AIMaxOutputTokens != 0 {
		c.AIMaxOutputTokens = file.AIMaxOutputTokens
		c.sources["ai_max_output_tokens"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFile != "" {
		c.LogFile = file.LogFile
		c.sources["log_file"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
	if file.AuditPersist != nil {
		c.AuditPersist = *file.AuditPersist
		c.sources["audit_persist"] = "file"
	}
}

func (c *FootprintConfig) applyEnvConfig() {
	if val := firstEnv("FOOTPRINT_DATABASE_URL", "DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_REMOTE_DATABASE_URL"); val != "" {
		c.RemoteDatabaseURL = val
		c.sources["remote_database_url"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_TOKEN_SECRET"); val != "" {
		c.TokenSecret = val
		c.sources["token_secret"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTL = i
			c.sources["token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_AUTHENTICATORS"); val != "" {
		c.Authenticators = splitAndTrim(val)
		c.sources["authenticators"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_DEFAULT_WEEKLY_TARGET"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.DefaultWeeklyTarget = f
			c.sources["default_weekly_target"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_LEADERBOARD_WINDOW_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.LeaderboardWindowDays = i
			c.sources["leaderboard_window_days"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_LEADERBOARD_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.LeaderboardSize = i
			c.sources["leaderboard_size"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_DAILY_SUMMARY_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.DailySummaryDays = i
			c.sources["daily_summary_days"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_ELECTRICITY_FACTOR"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.ElectricityFactor = f
			c.sources["electricity_factor"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_LPG_FACTOR"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.LPGFactor = f
			c.sources["lpg_factor"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_AI_MODEL"); val != "" {
		c.AIModel = val
		c.sources["ai_model"] = "environment"
	}
	if val := firstEnv("FOOTPRINT_AI_API_KEY", "GEMINI_API_KEY"); val != "" {
		c.AIAPIKey = val
		c.sources["ai_api_key"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_AI_MAX_OUTPUT_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AIMaxOutputTokens = i
			c.sources["ai_max_output_tokens"] = "environment"
		}
	}
	if val := os.Getenv("FOOTPRINT_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_LOG_FILE"); val != "" {
		c.LogFile = val
		c.sources["log_file"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("FOOTPRINT_AUDIT_PERSIST"); val != "" {
		c.AuditPersist = val == "true" || val == "1"
		c.sources["audit_persist"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *FootprintConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *FootprintConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the token TTL as a duration
func (c *FootprintConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsAuthenticatorEnabled checks if an authenticator is enabled
func (c *FootprintConfig) IsAuthenticatorEnabled(authenticator string) bool {
	for _, a := range c.Authenticators {
		if a == authenticator {
			return true
		}
	}
	return false
}

// AIEnabled reports whether an AI API key has been provided
func (c *FootprintConfig) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// Factors returns the emission factors with overrides applied
func (c *FootprintConfig) Factors() (emissions.Factors, error) {
	return emissions.DefaultFactors().WithOverrides(c.EmissionFactors, c.ElectricityFactor, c.LPGFactor)
}

// Validate validates the configuration
func (c *FootprintConfig) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database_url must not be empty")
	}

	validAuthenticators := make(map[string]bool)
	for _, a := range ValidAuthenticators {
		validAuthenticators[a] = true
	}
	for _, auth := range c.Authenticators {
		if !validAuthenticators[auth] {
			return fmt.Errorf("invalid authenticator type: %s", auth)
		}
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	if c.DefaultWeeklyTarget < 0 {
		return fmt.Errorf("default_weekly_target must not be negative")
	}
	if c.LeaderboardWindowDays <= 0 || c.LeaderboardSize <= 0 || c.DailySummaryDays <= 0 {
		return fmt.Errorf("leaderboard and summary sizes must be positive")
	}
	if c.AIMaxOutputTokens <= 0 {
		return fmt.Errorf("ai_max_output_tokens must be positive")
	}

	if _, err := c.Factors(); err != nil {
		return fmt.Errorf("invalid emission factors: %w", err)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// Secrets are masked.
func (c *FootprintConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "database_url", Value: c.DatabaseURL, Source: c.Source("database_url")},
		{Name: "remote_database_url", Value: c.RemoteDatabaseURL, Source: c.Source("remote_database_url")},
		{Name: "token_secret", Value: mask(c.TokenSecret), Source: c.Source("token_secret")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "authenticators", Value: strings.Join(c.Authenticators, ","), Source: c.Source("authenticators")},
		{Name: "default_weekly_target", Value: formatFloat(c.DefaultWeeklyTarget), Source: c.Source("default_weekly_target")},
		{Name: "leaderboard_window_days", Value: strconv.Itoa(c.LeaderboardWindowDays), Source: c.Source("leaderboard_window_days")},
		{Name: "leaderboard_size", Value: strconv.Itoa(c.LeaderboardSize), Source: c.Source("leaderboard_size")},
		{Name: "daily_summary_days", Value: strconv.Itoa(c.DailySummaryDays), Source: c.Source("daily_summary_days")},
		{Name: "emission_factors", Value: formatFactors(c.EmissionFactors), Source: c.Source("emission_factors")},
		{Name: "electricity_factor", Value: formatFloat(c.ElectricityFactor), Source: c.Source("electricity_factor")},
		{Name: "lpg_factor", Value: formatFloat(c.LPGFactor), Source: c.Source("lpg_factor")},
		{Name: "ai_model", Value: c.AIModel, Source: c.Source("ai_model")},
		{Name: "ai_api_key", Value: mask(c.AIAPIKey), Source: c.Source("ai_api_key")},
		{Name: "ai_max_output_tokens", Value: strconv.Itoa(c.AIMaxOutputTokens), Source: c.Source("ai_max_output_tokens")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_file", Value: c.LogFile, Source: c.Source("log_file")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "audit_persist", Value: strconv.FormatBool(c.AuditPersist), Source: c.Source("audit_persist")},
	}
}

// FormatText returns a text representation of the configuration
func (c *FootprintConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *FootprintConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFactors(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.FormatFloat(m[k], 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
