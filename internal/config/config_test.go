package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndGetBlockFetchURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"server": {
			"host": "0.0.0.0", "port": 12101, "protocol": "http",
			"endpoint": {"host": "node.example", "port": 12101, "protocol": "https"}
		},
		"peers": [
			{"host": "peer1.example", "port": 12101, "protocol": "http", "synctype": "full"}
		],
		"reorg_window": 64
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://node.example:12101/block/", cfg.GetBlockFetchURL())
	require.Len(t, cfg.Peers, 1)
	assert.Equal(t, SyncFull, cfg.Peers[0].SyncType)
	assert.Equal(t, uint64(64), cfg.ReorgWindow)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
