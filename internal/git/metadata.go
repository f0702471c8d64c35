// Package git derives version control provenance from a local checkout.
package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-hclog"
)

// Provenance identifies the version control origin of a source tree.
type Provenance struct {
	RepositoryURI string
	RevisionID    string
	Branch        string
}

// DeriveProvenance collects provenance from the git repository containing
// sourceFolder: HEAD commit and branch, and the canonical HTTPS form of the
// origin remote.
func DeriveProvenance(sourceFolder string, logger hclog.Logger) (*Provenance, error) {
	repoRoot, err := findRepositoryRoot(sourceFolder)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", repoRoot, err)
	}

	provenance := &Provenance{}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD of %q: %w", repoRoot, err)
	}
	provenance.RevisionID = head.Hash().String()
	if head.Name().IsBranch() {
		provenance.Branch = head.Name().Short()
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, fmt.Errorf("repository %q has no 'origin' remote: %w", repoRoot, err)
	}
	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("the 'origin' remote of %q has no URL", repoRoot)
	}
	provenance.RepositoryURI = canonicalRepositoryURI(cfg.URLs[0], logger)

	logger.Debug("derived provenance from checkout",
		"root", repoRoot, "uri", provenance.RepositoryURI, "revision", provenance.RevisionID, "branch", provenance.Branch)
	return provenance, nil
}

// canonicalRepositoryURI normalizes a remote URL (ssh or http form) to its
// HTTPS equivalent, falling back to the raw URL when it cannot be parsed.
func canonicalRepositoryURI(remoteURL string, logger hclog.Logger) string {
	trimmed := strings.TrimSuffix(remoteURL, ".git")

	info, err := vcsurl.Parse(remoteURL)
	if err != nil {
		logger.Debug("unable to parse remote URL, using raw value", "url", remoteURL, "error", err)
		return trimmed
	}
	httpsURL, err := info.Remote(vcsurl.HTTPS)
	if err != nil {
		return trimmed
	}
	return strings.TrimSuffix(httpsURL, ".git")
}

// findRepositoryRoot finds the git repository containing the given source folder.
func findRepositoryRoot(sourceFolder string) (string, error) {
	if sourceFolder == "" {
		return "", fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	for {
		if _, err := git.PlainOpen(sourceFolder); err == nil {
			return sourceFolder, nil
		}

		parent := filepath.Dir(sourceFolder)
		if parent == sourceFolder {
			break
		}
		sourceFolder = parent
	}

	return "", fmt.Errorf("source folder is not inside a git repository")
}
