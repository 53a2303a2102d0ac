package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// DatabaseURLEnv overrides postgres.connString when set
const DatabaseURLEnv = "RELIEF_DATABASE_URL"

// Backend names
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// PostgresConfig configures the PostgreSQL backend
type PostgresConfig struct {
	ConnString    string `yaml:"connString" validate:"required"`
	RunMigrations bool   `yaml:"runMigrations"`
}

// CampSeed defines a default camp created at start-up
type CampSeed struct {
	ID        string   `yaml:"id" validate:"required"`
	Name      string   `yaml:"name" validate:"required"`
	Beds      int      `yaml:"beds" validate:"min=0"`
	Resources []string `yaml:"resources,omitempty"`
	Contact   string   `yaml:"contact,omitempty"`
	Ambulance string   `yaml:"ambulance,omitempty" validate:"omitempty,oneof=Yes No Nearby"`
}

// Config represents the application configuration
type Config struct {
	Backend          string          `yaml:"backend" validate:"required,oneof=memory postgres"`
	Postgres         *PostgresConfig `yaml:"postgres,omitempty" validate:"required_if=Backend postgres"`
	BcryptCost       int             `yaml:"bcryptCost,omitempty" validate:"omitempty,min=4,max=31"`
	SeedCamps        []CampSeed      `yaml:"seedCamps,omitempty" validate:"dive"`
	DefaultShiftRule string          `yaml:"defaultShiftRule,omitempty"`
	UpcomingShifts   int             `yaml:"upcomingShifts,omitempty" validate:"omitempty,min=1,max=52"`
	CampBoardSheetID string          `yaml:"campBoardSheetID,omitempty"`
	GmailSender      string          `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration from relief_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.DefaultShiftRule != "" {
		if _, err := rrule.StrToRRule(cfg.DefaultShiftRule); err != nil {
			return fmt.Errorf("invalid rrule in defaultShiftRule: %w", err)
		}
	}

	seen := make(map[string]bool, len(cfg.SeedCamps))
	for i, c := range cfg.SeedCamps {
		if seen[c.ID] {
			return fmt.Errorf("duplicate camp id in seedCamps[%d]: %s", i, c.ID)
		}
		seen[c.ID] = true
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	url := os.Getenv(DatabaseURLEnv)
	if url == "" {
		return
	}
	if cfg.Postgres == nil {
		cfg.Postgres = &PostgresConfig{}
	}
	cfg.Postgres.ConnString = url
}

// findConfigFile returns the path of relief_config.<env>.yaml
func findConfigFile(env string) (string, error) {
	name := "relief_config.yaml"
	if env != "" {
		name = "relief_config." + env + ".yaml"
	}
	return findFile(name)
}

// findFile searches for name in the current directory, then the user's home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
