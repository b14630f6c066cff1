// Package gitver reads branch, commit and tag information for the project
// checkout. Missing git metadata is never fatal to a build.
package gitver

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info holds the git state shown in run context blocks and reports.
type Info struct {
	Branch string `json:"branch,omitempty"` // empty on detached HEAD
	Commit string `json:"commit"`           // short SHA
	Tag    string `json:"tag,omitempty"`    // tag pointing exactly at HEAD
	Dirty  bool   `json:"dirty"`
}

// ErrNotRepository is returned when dir is not inside a git checkout.
var ErrNotRepository = errors.New("not a git repository")

const shortSHA = 7

// Detect opens the repository containing dir (searching parent
// directories) and resolves HEAD.
func Detect(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	info := &Info{Commit: head.Hash().String()[:shortSHA]}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	tag, err := exactTag(repo, head.Hash())
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	info.Tag = tag

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.Dirty = !status.IsClean()
		}
	}
	return info, nil
}

// exactTag returns the name of a tag whose target is commit, lightweight
// or annotated. Ties resolve to the lexicographically smallest name.
func exactTag(repo *git.Repository, commit plumbing.Hash) (string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return "", err
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, err := repo.TagObject(target); err == nil {
			if obj.TargetType != plumbing.CommitObject {
				return nil
			}
			target = obj.Target
		} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
			return err
		}
		if target != commit {
			return nil
		}
		name := ref.Name().Short()
		if found == "" || name < found {
			found = name
		}
		return nil
	})
	return found, err
}

// Describe renders the info the way context blocks show it:
// "main@abc1234", "v1.2.0@abc1234", or "abc1234*" when dirty.
func (i *Info) Describe() string {
	if i == nil {
		return "unknown"
	}
	s := i.Commit
	switch {
	case i.Tag != "":
		s = i.Tag + "@" + s
	case i.Branch != "":
		s = i.Branch + "@" + s
	}
	if i.Dirty {
		s += "*"
	}
	return s
}

