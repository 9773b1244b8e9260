package sorter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/zeebo/blake3"

	"sortd/internal/faults"
)

// maxDuplicateProbes bounds the disambiguation counter when allocating a
// duplicate name.
const maxDuplicateProbes = 10000

// moveFile renames src to dst, falling back to a verified copy plus remove
// when the rename crosses devices. The destination must not exist; callers
// check before calling so an occupied name is surfaced as a collision, not
// silently replaced.
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := copyFileVerified(src, dst); copyErr != nil {
			return faults.Wrap(faults.ErrFilesystem, "mover", "cross-device copy", dst, copyErr)
		}
		if err := os.Remove(src); err != nil {
			return faults.Wrap(faults.ErrFilesystem, "mover", "remove source after copy", src, err)
		}
		return nil
	}

	return faults.Wrap(faults.ErrFilesystem, "mover", "rename", dst, renameErr)
}

// copyFileVerified streams src to dst, hashing both sides and removing dst
// on any mismatch so a torn cross-device copy never looks like a completed
// move.
func copyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := blake3.New()
	dstHasher := blake3.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
