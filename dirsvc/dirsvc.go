// Package dirsvc lists and removes entries of a directory tree rooted at a
// fixed directory. Paths given by callers are always resolved inside the root.
package dirsvc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// ModeDir restricts a listing to subdirectories.
const ModeDir = "dir"

// ErrRootRemoval is returned when a caller tries to remove the root itself.
var ErrRootRemoval = errors.New("refusing to remove the root directory")

// Infrastructure folders never reported by a directory listing.
var denied = map[string]struct{}{
	"php":          {},
	"jscode":       {},
	"data":         {},
	"html":         {},
	"symbols":      {},
	"fonts":        {},
	"icons":        {},
	"iconsymbols":  {},
	"uploadimages": {},
	"symbol":       {},
	"symbolfeed":   {},
	"maps":         {},
	"scrolls":      {},
}

// Resolve joins path to root. A path climbing above the root is clamped to it.
func Resolve(root, path string) string {
	return filepath.Join(root, filepath.Clean("/"+path))
}

// List returns the entry names of the directory at path, sorted by name.
// With ModeDir only subdirectories outside the infrastructure deny-list are
// returned, any other non-empty mode keeps the names ending with it and an
// empty mode returns every entry not starting with a dot.
func List(root, path, mode string) ([]string, error) {
	dir := Resolve(root, path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", path)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		switch mode {
		case ModeDir:
			if strings.HasPrefix(name, ".") || !isDir(dir, e) {
				continue
			}
			if _, ok := denied[name]; ok {
				continue
			}
		case "":
			if strings.HasPrefix(name, ".") {
				continue
			}
		default:
			if !strings.HasSuffix(name, mode) {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// isDir follows symbolic links, so a linked folder is listed as a folder.
func isDir(dir string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.IsDir()
}

// Remove deletes the file or directory at path, the contents of a directory
// first, depth first.
func Remove(root, path string) error {
	target := Resolve(root, path)
	if filepath.Clean(target) == filepath.Clean(root) {
		return ErrRootRemoval
	}
	if _, err := os.Lstat(target); err != nil {
		return errors.Wrapf(err, "removing %s", path)
	}
	if err := removeTree(target); err != nil {
		return errors.Wrapf(err, "removing %s", path)
	}
	commonlog.GetLogger("dirsvc").Infof("removed %s", target)
	return nil
}

func removeTree(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := removeTree(filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
	}
	return os.Remove(path)
}
