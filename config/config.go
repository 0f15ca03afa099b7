package config

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/idena-network/idena-ballot/log"
	"github.com/pkg/errors"
)

const DefaultDataDir = "datadir"

type Config struct {
	DataDir   string
	// Verbosity of the root logger applied when an engine is created, see log.SetVerbosity
	Verbosity int
	Database  *DatabaseConfig
	Ballot    *BallotConfig
	Metrics   *MetricsConfig
}

func Default() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		Verbosity: log.DefaultVerbosity,
		Database:  GetDefaultDatabaseConfig(),
		Ballot:    GetDefaultBallotConfig(),
		Metrics:   GetDefaultMetricsConfig(),
	}
}

// Load reads a JSON configuration file on top of the default configuration.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if err := loadConfig(configPath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfig(configPath string, conf *Config) error {
	if _, err := os.Stat(configPath); err != nil {
		return errors.Errorf("config file cannot be found, path: %v", configPath)
	}
	jsonFile, err := os.Open(configPath)
	if err != nil {
		return errors.Errorf("config file cannot be opened, path: %v", configPath)
	}
	defer jsonFile.Close()
	byteValue, err := ioutil.ReadAll(jsonFile)
	if err != nil {
		return errors.Wrapf(err, "config file cannot be read, path: %v", configPath)
	}
	if err := json.Unmarshal(byteValue, conf); err != nil {
		return errors.Errorf("cannot parse JSON config, path: %v", configPath)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Database == nil {
		c.Database = GetDefaultDatabaseConfig()
	}
	if c.Ballot == nil {
		c.Ballot = GetDefaultBallotConfig()
	}
	if c.Metrics == nil {
		c.Metrics = GetDefaultMetricsConfig()
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return errors.Errorf("verbosity should be in range [0;5], got %v", c.Verbosity)
	}
	if err := c.Database.validate(c.DataDir); err != nil {
		return err
	}
	return c.Ballot.validate()
}
