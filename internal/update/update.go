// Package update checks GitHub Releases for newer composer builds and
// replaces the running binary.
package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/vstratful/composer/internal/logging"
)

// RepoSlug is the GitHub repository releases are published to.
const RepoSlug = "vstratful/composer"

// ErrDevVersion is returned when trying to update a development build.
var ErrDevVersion = errors.New("cannot update development builds")

// Release describes a newer version than the one running.
type Release struct {
	Version     string
	URL         string
	PublishedOn string
	Notes       string
	AssetName   string

	release *selfupdate.Release
}

// Updater checks and applies releases for one repository.
type Updater struct {
	updater *selfupdate.Updater
	repo    selfupdate.Repository
	logger  *slog.Logger
}

// New creates an Updater with GitHub as source and checksum validation.
func New(logger *slog.Logger) (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:    source,
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &Updater{
		updater: updater,
		repo:    selfupdate.ParseSlug(RepoSlug),
		logger:  logger,
	}, nil
}

// IsDevVersion reports whether v is an unreleased build.
func IsDevVersion(v string) bool {
	switch v {
	case "", "dev", "(devel)":
		return true
	}
	return false
}

// Check returns the latest release if it is newer than current, or nil.
func (u *Updater) Check(ctx context.Context, current string) (*Release, error) {
	if IsDevVersion(current) {
		return nil, ErrDevVersion
	}

	latest, found, err := u.updater.DetectLatest(ctx, u.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		u.logger.Debug("no release found", "repo", RepoSlug, "os", runtime.GOOS, "arch", runtime.GOARCH)
		return nil, nil
	}
	if !latest.GreaterThan(current) {
		return nil, nil
	}

	rel := &Release{
		Version:   latest.Version(),
		URL:       latest.URL,
		Notes:     latest.ReleaseNotes,
		AssetName: latest.AssetName,
		release:   latest,
	}
	if !latest.PublishedAt.IsZero() {
		rel.PublishedOn = latest.PublishedAt.Format("2006-01-02")
	}
	u.logger.Info("update available", "current", current, "latest", rel.Version)
	return rel, nil
}

// Apply downloads rel and replaces the current executable.
func (u *Updater) Apply(ctx context.Context, rel *Release) error {
	if rel == nil || rel.release == nil {
		return errors.New("no release to apply")
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := u.updater.UpdateTo(ctx, rel.release, exe); err != nil {
		return fmt.Errorf("failed to apply update: %w", err)
	}
	u.logger.Info("updated", "version", rel.Version, "path", exe)
	return nil
}

// ReleasesURL is where users can download builds by hand.
func ReleasesURL() string {
	return "https://github.com/" + RepoSlug + "/releases"
}
