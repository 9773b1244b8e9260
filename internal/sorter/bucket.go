package sorter

import (
	"path/filepath"
	"strconv"
	"strings"
)

// bucketFor maps a file name to its destination bucket directory name: the
// extension without its leading dot, case preserved. Extensionless files
// (and dotfiles, whose "extension" is their whole name) use the reserved
// bucket.
func bucketFor(name, noExtensionBucket string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == "." || ext == name {
		return noExtensionBucket
	}
	return strings.TrimPrefix(ext, ".")
}

// duplicateName derives the nth candidate name for a duplicate of name.
// Attempt 0 is "<stem><marker><ext>"; later attempts append a counter,
// "<stem><marker>_2<ext>" and so on, so interrupted prior runs never cause
// silent overwrites.
func duplicateName(name, marker string, attempt int) string {
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	if attempt == 0 {
		return stem + marker + ext
	}
	return stem + marker + "_" + strconv.Itoa(attempt+1) + ext
}
