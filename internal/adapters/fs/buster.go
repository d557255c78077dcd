package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Buster = (*Buster)(nil)

// Buster computes fingerprints of file sets and busts paths with them.
type Buster struct {
	strategy domain.FingerprintStrategy
}

// NewBuster creates a Buster using the given strategy. An empty strategy
// fingerprints by modification time.
func NewBuster(strategy domain.FingerprintStrategy) *Buster {
	if strategy == "" {
		strategy = domain.FingerprintMTime
	}
	return &Buster{strategy: strategy}
}

// Fingerprint returns a 16 character hex token for files.
func (b *Buster) Fingerprint(files []string) (string, error) {
	if b.strategy == domain.FingerprintContent {
		return b.contentFingerprint(files)
	}
	return b.mtimeFingerprint(files)
}

// Bust inserts the fingerprint of files before the extension of p.
func (b *Buster) Bust(p string, files []string) (string, error) {
	token, err := b.Fingerprint(files)
	if err != nil {
		return "", err
	}
	return domain.BustPath(p, token), nil
}

// MaxMTime returns the newest modification time among files. An empty
// set yields the zero time.
func (b *Buster) MaxMTime(files []string) (time.Time, error) {
	var newest time.Time
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return time.Time{}, unreadable(err, "failed to stat source file", f)
		}
		if !info.Mode().IsRegular() {
			return time.Time{}, unreadable(zerr.New("not a regular file"), "failed to stat source file", f)
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest, nil
}

func (b *Buster) mtimeFingerprint(files []string) (string, error) {
	newest, err := b.MaxMTime(files)
	if err != nil {
		return "", err
	}

	hasher := xxhash.New()
	// Unix seconds and nanoseconds separately: UnixNano is undefined for the zero time.
	_ = binary.Write(hasher, binary.LittleEndian, newest.Unix())
	_ = binary.Write(hasher, binary.LittleEndian, int64(newest.Nanosecond()))
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (b *Buster) contentFingerprint(files []string) (string, error) {
	hasher := xxhash.New()
	for _, f := range files {
		sum, err := ComputeFileHash(f)
		if err != nil {
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// ComputeFileHash computes the XXHash of a file's content.
func ComputeFileHash(p string) (uint64, error) {
	f, err := os.Open(p) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, unreadable(err, "failed to open source file", p)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, unreadable(err, "failed to hash source file", p)
	}

	return hasher.Sum64(), nil
}

func unreadable(err error, msg, p string) error {
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err), msg), "path", p)
}
