// Package metadata fingerprints normalizer inputs so a cached panel can be checked against its sources.
package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Version is the cache artifact layout version.
const Version = "1"

// Metadata verification errors.
var (
	ErrNoMetadata   = errors.New("no metadata recorded")
	ErrNoHashFound  = errors.New("no hash found in metadata")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Input is one source file to fingerprint.
type Input struct {
	Indicator string
	Path      string
}

// SourceFile is the recorded fingerprint of one source.
type SourceFile struct {
	Indicator string `json:"indicator"`
	Path      string `json:"path"`
	Hash      string `json:"hash"`
}

// Metadata describes how a cache artifact was built.
type Metadata struct {
	BuiltAt time.Time    `json:"builtAt"`
	Version string       `json:"version"`
	Hash    string       `json:"hash"`
	Sources []SourceFile `json:"sources"`
}

// HashFile computes the xxhash of a file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the configured source list
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open source file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash source file"), "path", path)
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// Fingerprint hashes every input and combines them, in order, into one hash.
func Fingerprint(inputs []Input) (*Metadata, error) {
	meta := &Metadata{
		BuiltAt: time.Now().UTC(),
		Version: Version,
		Sources: make([]SourceFile, 0, len(inputs)),
	}

	combined := xxhash.New()

	for _, in := range inputs {
		sum, err := HashFile(in.Path)
		if err != nil {
			return nil, err
		}

		meta.Sources = append(meta.Sources, SourceFile{Indicator: in.Indicator, Path: in.Path, Hash: sum})

		_, _ = combined.WriteString(in.Indicator)
		_, _ = combined.Write([]byte{0})
		_, _ = combined.WriteString(sum)
		_, _ = combined.Write([]byte{0})
	}

	meta.Hash = fmt.Sprintf("%016x", combined.Sum64())

	return meta, nil
}

// Verify recomputes the fingerprint of inputs and compares it with meta.
func Verify(meta *Metadata, inputs []Input) (bool, error) {
	if meta == nil {
		return false, ErrNoMetadata
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	current, err := Fingerprint(inputs)
	if err != nil {
		return false, err
	}

	if current.Hash != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, current.Hash)
	}

	return true, nil
}
