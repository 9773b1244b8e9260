// Package digest computes content fingerprints for files.
//
// The digest is a 32-byte BLAKE3 hash of the file's full byte content,
// rendered as lowercase hex. Files are read in fixed-size chunks so memory
// stays bounded regardless of file size.
package digest

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"sortd/internal/faults"
)

// chunkSize is the streaming read granularity.
const chunkSize = 64 * 1024

// File returns the hex-encoded BLAKE3 digest of the file at path. Two files
// with identical bytes always produce identical digests. Open and read
// failures are classified as per-task IO faults.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", faults.Wrap(faults.ErrIO, "digester", "open", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	buf := make([]byte, chunkSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			// Fold the chunk before inspecting readErr: a final short read
			// can arrive together with io.EOF and must be hashed exactly once.
			_, _ = hasher.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", faults.Wrap(faults.ErrIO, "digester", "read", path, readErr)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
