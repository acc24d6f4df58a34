package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/zerr"
)

// hashTree computes a deterministic sha256 digest of a directory tree. Files
// are visited in lexical path order; each contributes its slash-separated
// relative path, its executable bit, and its content. Directories themselves
// carry no state beyond the paths of the files within them.
func hashTree(root string) (string, error) {
	h := sha256.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		exec := 0
		if info.Mode()&0o100 != 0 {
			exec = 1
		}

		fmt.Fprintf(h, "%s\x00%d\x00%d\x00", filepath.ToSlash(rel), exec, info.Size())

		f, err := os.Open(path) //nolint:gosec // path comes from walking our own cache
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(h, f)
		return err
	})
	if err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
