package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/files"
)

const (
	xdgAppName = "prdaily"
	configFile = "config.json"

	defaultRoot     = "~/Documents/prd_diarios"
	defaultCalendar = "Tasks"
)

// ErrNotConfigured is returned by Read when no configuration file exists.
var ErrNotConfigured = errors.New("no configuration saved")

type Folders struct {
	PRDDocuments string `json:"prd_documents"`
	DailyWork    string `json:"daily_work"`
	Reports      string `json:"reports"`
	Archives     string `json:"archives"`
}

type Features struct {
	UseDailyFolders   bool `json:"use_daily_folders"`
	AutoSummary       bool `json:"auto_summary"`
	TrackFileMetadata bool `json:"track_file_metadata"`
}

type Estimate struct {
	// LastTaskMinutes is credited to the final task of a day.
	LastTaskMinutes int `json:"last_task_minutes"`
}

type Config struct {
	Version     string    `json:"version"`
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"last_updated"`
	Folders     Folders   `json:"folders"`
	Features    Features  `json:"features"`
	Estimate    Estimate  `json:"estimate"`
	Calendar    string    `json:"calendar"`
}

// Default returns the configuration used when nothing has been saved.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Folders: Folders{
			PRDDocuments: defaultRoot + "/PRD_DOCUMENTS",
			DailyWork:    defaultRoot + "/DAILY_WORK",
			Reports:      defaultRoot + "/REPORTS",
			Archives:     defaultRoot + "/ARCHIVES",
		},
		Features: Features{
			UseDailyFolders:   true,
			AutoSummary:       true,
			TrackFileMetadata: true,
		},
		Estimate: Estimate{LastTaskMinutes: 60},
		Calendar: defaultCalendar,
	}
}

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration at path, or at the default location when path
// is empty. A missing file yields Default().
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if errors.Is(err, ErrNotConfigured) {
		return Default(), nil
	}
	return cfg, err
}

// Read is like Load but reports ErrNotConfigured for a missing file.
func Read(path string) (*Config, error) {
	path, err := resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, path)
		}
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes cfg to path, or to the default location when path is empty.
func Save(path string, cfg *Config) error {
	path, err := resolve(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	now := time.Now()
	if cfg.Created.IsZero() {
		cfg.Created = now
	}
	cfg.LastUpdated = now

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(cfg)
}

// Remove deletes the configuration file. A missing file is not an error.
func Remove(path string) error {
	path, err := resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Path returns the file Load and Save use for path.
func Path(path string) (string, error) {
	return resolve(path)
}

func resolve(path string) (string, error) {
	if path != "" {
		return files.Expand(path), nil
	}
	return GetConfigPath()
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Folders.PRDDocuments == "" {
		c.Folders.PRDDocuments = def.Folders.PRDDocuments
	}
	if c.Folders.DailyWork == "" {
		c.Folders.DailyWork = def.Folders.DailyWork
	}
	if c.Estimate.LastTaskMinutes <= 0 {
		c.Estimate.LastTaskMinutes = def.Estimate.LastTaskMinutes
	}
	if c.Calendar == "" {
		c.Calendar = def.Calendar
	}
}

// PRDDir is the expanded PRD documents root.
func (c *Config) PRDDir() string { return files.Expand(c.Folders.PRDDocuments) }

// DailyDir is the expanded daily work root.
func (c *Config) DailyDir() string { return files.Expand(c.Folders.DailyWork) }

// ReportsDir is the expanded reports root, empty when unset.
func (c *Config) ReportsDir() string { return files.Expand(c.Folders.Reports) }

// TailDuration is the estimate credited to the last task of a day.
func (c *Config) TailDuration() time.Duration {
	return time.Duration(c.Estimate.LastTaskMinutes) * time.Minute
}
