package config

import (
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "ballot-config")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	path := filepath.Join(dir, "config.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, MemDbBackend, cfg.Database.Backend)
	require.True(t, cfg.Ballot.StrictNames)
	require.Equal(t, DefaultMaxProposalNameLength, cfg.Ballot.MaxProposalNameLength)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{"Verbosity": 5, "Ballot": {"StrictNames": false, "MaxDelegationDepth": 3}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Verbosity)
	require.False(t, cfg.Ballot.StrictNames)
	require.Equal(t, 3, cfg.Ballot.MaxDelegationDepth)
	require.Equal(t, MemDbBackend, cfg.Database.Backend)
	require.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "missing-ballot-config.json"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `{not json`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `{"Database": {"Backend": "rocksdb"}}`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `{"Verbosity": 9}`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `{"DataDir": "", "Database": {"Backend": "goleveldb", "Name": "db"}}`))
	require.Error(t, err)
}
