package blockchain

import (
	"testing"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestGenerateLastSharedAncestorFallback(t *testing.T) {
	got := GenerateLastSharedAncestor(core.Hash{1}, 100, 90, core.Hash{2})
	assert.Equal(t, uint64(0), got, "mismatched fork ids must fall back to 0")
}

func TestGenerateLastSharedAncestorMatch(t *testing.T) {
	fid := core.Hash{9}
	got := GenerateLastSharedAncestor(fid, 100, 90, fid)
	assert.Equal(t, uint64(90), got)
}
