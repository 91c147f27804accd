// Package config loads the node's startup Configuration from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Endpoint is a host/port/protocol triple used both for the node's own
// server and for each configured peer.
type Endpoint struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	Protocol string `json:"protocol"`
}

func (e Endpoint) url() string {
	return fmt.Sprintf("%s://%s:%d", e.Protocol, e.Host, e.Port)
}

// URL is the exported form of url(), used by the Routing Processor to
// derive connect_to_peer's dial target from a configured Peer.
func (e Endpoint) URL() string { return e.url() }

// Server is this node's own listen address plus the externally
// advertised Endpoint peers should use to reach it.
type Server struct {
	Endpoint
	Advertised Endpoint `json:"endpoint"`
}

// SyncType selects how eagerly a configured peer's blocks are fetched.
type SyncType string

const (
	SyncFull SyncType = "full"
	SyncLite SyncType = "lite"
)

// Peer is one statically configured remote node.
type Peer struct {
	Endpoint
	SyncType SyncType `json:"synctype"`
}

// Configuration is the node's full startup config. It sits first in the
// node's lock-ordering discipline, since a running node may reload
// peers or endpoints without restarting.
type Configuration struct {
	mu sync.RWMutex

	Server Server `json:"server"`
	Peers  []Peer `json:"peers"`

	// ReorgWindow is parsed from the "reorg_window" key. No component
	// reads it: the wallet keeps no per-fork shadow UTXO state, and no
	// default is substituted for zero.
	ReorgWindow uint64 `json:"reorg_window"`
}

// Lock/Unlock/RLock/RUnlock guard concurrent reload: a running node may
// replace Server/Peers without restarting, so readers of those fields
// elsewhere should hold RLock.
func (c *Configuration) Lock()    { c.mu.Lock() }
func (c *Configuration) Unlock()  { c.mu.Unlock() }
func (c *Configuration) RLock()   { c.mu.RLock() }
func (c *Configuration) RUnlock() { c.mu.RUnlock() }

// GetBlockFetchURL implements get_block_fetch_url(): the externally
// advertised endpoint's protocol://host:port/block/ prefix.
func (c *Configuration) GetBlockFetchURL() string {
	return c.Server.Advertised.url() + "/block/"
}

// Load reads and parses a Configuration from path.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}
