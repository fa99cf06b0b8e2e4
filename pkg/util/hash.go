package util

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// Blake3Hash computes the hex encoded BLAKE3-256 digest of a stream. Uploaded
// recordings are keyed by this digest so re-uploads of the same audio reuse
// the stored transcript.
func Blake3Hash(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating blake3 hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Blake3HashFile computes the digest of a file on disk.
func Blake3HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("calculating blake3 hash: %w", err)
	}
	defer f.Close()
	return Blake3Hash(f)
}
