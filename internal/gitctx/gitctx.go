// Package gitctx derives an atlas run context from a git working tree,
// so that pushes carry repo/branch/commit audit metadata without the
// caller spelling it out.
package gitctx

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/flarebyte/seshat/atlas"
)

// Detect opens the repository containing dir (walking up to find .git)
// and fills a RunContext from HEAD, the origin remote and the user
// configuration. Fields that cannot be determined are left empty.
func Detect(dir string) (*atlas.RunContext, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo at %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}

	rc := &atlas.RunContext{
		Path:   dir,
		Commit: head.Hash().String(),
	}
	if head.Name().IsBranch() {
		rc.Branch = head.Name().Short()
	}
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			rc.URL = urls[0]
			rc.Repo = repoSlug(urls[0])
			if strings.Contains(urls[0], "github.com") {
				rc.SCMType = "GITHUB"
			}
		}
	}
	if cfg, err := repo.ConfigScoped(gitconfig.GlobalScope); err == nil {
		rc.Username = cfg.User.Name
	}
	return rc, nil
}

// repoSlug reduces a remote URL to its owner/name form. Handles https,
// ssh and scp-like syntaxes.
func repoSlug(url string) string {
	s := strings.TrimSuffix(url, ".git")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.IndexByte(s, '/'); j >= 0 {
			s = s[j+1:]
		}
		return s
	}
	if i := strings.IndexByte(s, ':'); i >= 0 && strings.Contains(s[:i], "@") {
		return s[i+1:]
	}
	return s
}
