package storage

import (
	"os"
	"path/filepath"

	"github.com/cespare/cp"

	"github.com/saito-io/saito-node/internal/errs"
)

// WriteWalletFile writes data to path atomically: stage to a sibling
// temp file, then cp.CopyFile installs it in place so a crash mid-write
// never leaves a half-written wallet file behind. Encrypting data
// before this call, if desired, is the caller's concern — this function
// only guarantees the write itself is atomic.
func WriteWalletFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errs.Wrap(errs.StorageIO, err, "storage: failed to create wallet directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "wallet-*.tmp")
	if err != nil {
		return errs.Wrap(errs.StorageIO, err, "storage: failed to create temp wallet file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.StorageIO, err, "storage: failed to write temp wallet file")
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.StorageIO, err, "storage: failed to close temp wallet file")
	}

	if err := cp.CopyFile(path, tmpName); err != nil {
		return errs.Wrap(errs.StorageIO, err, "storage: failed to atomically install wallet file")
	}
	return nil
}

// ReadWalletFile reads the bytes at path exactly as WriteWalletFile
// stored them; no decryption is applied.
func ReadWalletFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.StorageIO, err, "storage: failed to read wallet file")
	}
	return data, nil
}
