package build

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrArtifactNotFound is returned when no file in the build directory
// matches the artifact naming convention.
var ErrArtifactNotFound = errors.New("executable not found after build")

// ArtifactQuery describes the executable to look for.
type ArtifactQuery struct {
	Dir         string
	Prefix      string // "<product>_<platformTag>_"
	Suffix      string // ".exe" on Windows
	Expected    string // exact expected file name
	MaxDepth    int    // directories this many levels below Dir or deeper are not entered
	RequireExec bool   // require an executable permission bit
}

// skipDirs are never searched.
var skipDirs = map[string]bool{"CMakeFiles": true}

// FindArtifact walks q.Dir in lexical order and returns the first file
// named exactly q.Expected, or failing that the first file matching the
// prefix and suffix.
func FindArtifact(q ArtifactQuery) (string, int64, error) {
	var (
		exact, first         string
		exactSize, firstSize int64
	)

	err := filepath.WalkDir(q.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == q.Dir {
				return err
			}
			return nil // unreadable subtree
		}
		if path == q.Dir {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || depth(q.Dir, path) >= q.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !q.matches(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if q.RequireExec && info.Mode().Perm()&0o111 == 0 {
			return nil
		}

		if d.Name() == q.Expected {
			exact, exactSize = path, info.Size()
			return filepath.SkipAll
		}
		if first == "" {
			first, firstSize = path, info.Size()
		}
		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: scanning %s: %v", ErrArtifactNotFound, q.Dir, err)
	}

	switch {
	case exact != "":
		return exact, exactSize, nil
	case first != "":
		return first, firstSize, nil
	}
	return "", 0, fmt.Errorf("%w: no %s*%s in %s", ErrArtifactNotFound, q.Prefix, q.Suffix, q.Dir)
}

func (q ArtifactQuery) matches(name string) bool {
	if !strings.HasPrefix(name, q.Prefix) {
		return false
	}
	return q.Suffix == "" || strings.HasSuffix(name, q.Suffix)
}

// depth counts path elements of path below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
