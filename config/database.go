package config

import "github.com/pkg/errors"

const (
	MemDbBackend        = "memdb"
	LevelDbBackend      = "goleveldb"
	DefaultDatabaseName = "ballot"
)

type DatabaseConfig struct {
	Backend string
	Name    string
}

func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Backend: MemDbBackend,
		Name:    DefaultDatabaseName,
	}
}

func (c *DatabaseConfig) validate(dataDir string) error {
	switch c.Backend {
	case MemDbBackend:
		return nil
	case LevelDbBackend:
		if dataDir == "" {
			return errors.New("datadir is required for goleveldb backend")
		}
		if c.Name == "" {
			return errors.New("database name is required for goleveldb backend")
		}
		return nil
	default:
		return errors.Errorf("unknown database backend %q", c.Backend)
	}
}
