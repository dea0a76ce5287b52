package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CIDgravity/snakelet"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/joho/godotenv"
)

// config structure
type Config struct {
	API        APIConfig        `mapstructure:"API"`
	Tasks      TasksConfig      `mapstructure:"TASKS"`
	Logs       LogsConfig       `mapstructure:"LOGS"`
	Github     GithubConfig     `mapstructure:"GITHUB"`
	Storage    StorageConfig    `mapstructure:"STORAGE"`
	Evaluation EvaluationConfig `mapstructure:"EVALUATION"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
	LanguageCacheSize       int `mapstructure:"LanguageCacheSize"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJSON"`
}

type GithubConfig struct {
	Token        string              `mapstructure:"Token"`
	Organisation string              `mapstructure:"Organisation"`
	Filters      GithubFiltersConfig `mapstructure:"Filters"`
}

// GithubFiltersConfig values are require | exclude or empty for no filter
type GithubFiltersConfig struct {
	Forks    string `mapstructure:"Forks"`
	Archived string `mapstructure:"Archived"`
	Disabled string `mapstructure:"Disabled"`
	Template string `mapstructure:"Template"`
}

type StorageConfig struct {
	Backend         string `mapstructure:"Backend"` // json | sqlite
	DataDirectory   string `mapstructure:"DataDirectory"`
	ResultDirectory string `mapstructure:"ResultDirectory"`
	DatabaseFile    string `mapstructure:"DatabaseFile"`
}

type EvaluationConfig struct {
	ThresholdPercent   float64          `mapstructure:"ThresholdPercent"`
	Precision          int              `mapstructure:"Precision"`
	RemainderThreshold float64          `mapstructure:"RemainderThreshold"`
	RemainderLabel     string           `mapstructure:"RemainderLabel"`
	CompactPrecision   int              `mapstructure:"CompactPrecision"`
	Categories         []model.Category `mapstructure:"Categories"`
}

// Load
func Load() (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return nil, err
		} else {
			configFilePath = "config/config.toml"
		}
	}

	return LoadFile(configFilePath)
}

// LoadFile load defaults, the given toml file and the environment overrides
func LoadFile(configFilePath string) (*Config, error) {
	cfg := GetDefault()
	_, err := snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	// a missing .env file is fine, variables can come from the real environment
	_ = godotenv.Load()
	cfg.ApplyEnvironment()

	return cfg, nil
}

// ApplyEnvironment override github settings with GITHUB_TOKEN and GITHUB_ORGANISATION
func (c *Config) ApplyEnvironment() {
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		c.Github.Token = token
	}

	if organisation := strings.TrimSpace(os.Getenv("GITHUB_ORGANISATION")); organisation != "" {
		c.Github.Organisation = organisation
	}
}

// Validate check the values that cannot be fixed with a default
func (c Config) Validate() error {
	if c.Github.Organisation == "" {
		return fmt.Errorf("%w: github organisation is not set (GITHUB_ORGANISATION)", model.ErrInvalidConfig)
	}

	if c.Tasks.MaxParallelTasksAllowed < 1 {
		return fmt.Errorf("%w: MaxParallelTasksAllowed must be at least 1", model.ErrInvalidConfig)
	}

	if _, err := c.Github.Filters.Options(); err != nil {
		return err
	}

	return c.Evaluation.ReportOptions().Validate()
}

// Options convert the filter strings to repository filter options
func (f GithubFiltersConfig) Options() (model.RepositoryFilterOptions, error) {
	var opts model.RepositoryFilterOptions
	var err error

	if opts.Forks, err = model.ParseFilterMode(f.Forks); err != nil {
		return opts, err
	}

	if opts.Archived, err = model.ParseFilterMode(f.Archived); err != nil {
		return opts, err
	}

	if opts.Disabled, err = model.ParseFilterMode(f.Disabled); err != nil {
		return opts, err
	}

	if opts.Template, err = model.ParseFilterMode(f.Template); err != nil {
		return opts, err
	}

	return opts, nil
}

// ReportOptions convert the evaluation section to the options used by reports
func (e EvaluationConfig) ReportOptions() model.ReportOptions {
	return model.ReportOptions{
		Categories: model.CategoryConfig{
			ThresholdPercent: e.ThresholdPercent,
			Categories:       e.Categories,
		},
		Precision:          e.Precision,
		RemainderThreshold: e.RemainderThreshold,
		RemainderLabel:     e.RemainderLabel,
		CompactPrecision:   e.CompactPrecision,
	}
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
			LanguageCacheSize:       1024,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Storage: StorageConfig{
			Backend:         "json",
			DataDirectory:   "data",
			ResultDirectory: "result",
			DatabaseFile:    "repositories.db",
		},
		Evaluation: EvaluationConfig{
			ThresholdPercent:   7,
			Precision:          1,
			RemainderThreshold: 2.13,
			RemainderLabel:     model.RestCategory,
			CompactPrecision:   1,
			Categories: []model.Category{
				{Name: "Frontend", Languages: []string{"Vue", "JavaScript", "TypeScript", "HTML", "CSS"}},
				{Name: "Backend", Languages: []string{"Java"}},
				{Name: "Python", Languages: []string{"Python", "Jupyter Notebook"}},
			},
		},
	}
}
