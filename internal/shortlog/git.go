package shortlog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrTagNotFound is returned when no tag matches the previous version.
var ErrTagNotFound = errors.New("previous release tag not found")

// FromGit counts commits per author name that are reachable from HEAD but
// not from the previous release tag. The tag is looked up as "v<version>"
// first and then as "<version>". Ties are broken by name.
func FromGit(repoPath, previousVersion string) ([]Contributor, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	since, err := resolveTag(repo, previousVersion)
	if err != nil {
		return nil, err
	}

	released, err := ancestors(repo, since)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading log from HEAD: %w", err)
	}
	err = iter.ForEach(func(c *object.Commit) error {
		if !released[c.Hash] {
			counts[c.Author.Name]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking commits: %w", err)
	}

	out := make([]Contributor, 0, len(counts))
	for name, n := range counts {
		out = append(out, Contributor{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// resolveTag returns the commit a release tag points at, peeling annotated tags.
func resolveTag(repo *git.Repository, version string) (plumbing.Hash, error) {
	for _, name := range []string{"v" + version, version} {
		ref, err := repo.Tag(name)
		if err != nil {
			if errors.Is(err, git.ErrTagNotFound) {
				continue
			}
			return plumbing.ZeroHash, fmt.Errorf("looking up tag %s: %w", name, err)
		}

		tag, err := repo.TagObject(ref.Hash())
		switch {
		case err == nil:
			commit, err := tag.Commit()
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("peeling tag %s: %w", name, err)
			}
			return commit.Hash, nil
		case errors.Is(err, plumbing.ErrObjectNotFound):
			// Lightweight tag: the reference points at the commit directly.
			return ref.Hash(), nil
		default:
			return plumbing.ZeroHash, fmt.Errorf("reading tag %s: %w", name, err)
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("%w: tried v%s and %s", ErrTagNotFound, version, version)
}

// ancestors returns the set of commits reachable from h, h included.
func ancestors(repo *git.Repository, h plumbing.Hash) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	iter, err := repo.Log(&git.LogOptions{From: h})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", h, err)
	}
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking release commits: %w", err)
	}
	return seen, nil
}
