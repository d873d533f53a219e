// Package site manages the install environment: the directory and install
// database into which packaging descriptors are registered.
//
// Registering a descriptor writes a <name>-<version>.dist-info directory
// containing METADATA and RECORD files, and persists the distribution
// record in the install database.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/git-pkgs/purl"
	"github.com/rs/zerolog"

	"github.com/warwick-one-metre/pkgmeta/descriptor"
	"github.com/warwick-one-metre/pkgmeta/internal/core"
	"github.com/warwick-one-metre/pkgmeta/internal/log"
)

// Site is an open install environment.
type Site struct {
	dir    string
	store  *Store
	logger zerolog.Logger
}

// Open opens the install environment rooted at dir, creating the directory
// and its install database on demand.
func Open(dir string) (*Site, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating site directory: %w", err)
	}
	store, err := OpenStore(filepath.Join(dir, "install.db"))
	if err != nil {
		return nil, fmt.Errorf("opening install database: %w", err)
	}
	return &Site{
		dir:    dir,
		store:  store,
		logger: log.WithComponent("site"),
	}, nil
}

// Close closes the install database.
func (s *Site) Close() error { return s.store.Close() }

// Dir returns the site root directory.
func (s *Site) Dir() string { return s.dir }

// RegisterOption configures a Register call.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	replace bool
}

// WithReplace allows Register to replace an installed distribution whose
// version differs from the descriptor's.
func WithReplace() RegisterOption {
	return func(o *registerOptions) {
		o.replace = true
	}
}

// Register validates a descriptor and registers the named package into the
// install environment. Re-registering the same name and version is
// idempotent. Registering a different version of an installed name returns
// a *core.ConflictError unless WithReplace is given.
func (s *Site) Register(ctx context.Context, d *core.Descriptor, opts ...RegisterOption) (*core.Record, error) {
	var options registerOptions
	for _, opt := range opts {
		opt(&options)
	}

	if err := descriptor.Validate(d); err != nil {
		return nil, err
	}

	normalized := core.NormalizeName(d.Name)
	version, err := core.CanonicalVersion(d.Version)
	if err != nil {
		return nil, err
	}

	var stale *core.Record
	existing, err := s.store.Get(ctx, normalized)
	switch {
	case err == nil && existing.Version != version:
		if !options.replace {
			return nil, &core.ConflictError{
				Name:      normalized,
				Installed: existing.Version,
				Proposed:  version,
			}
		}
		stale = existing
	case err == nil:
		// Same version already installed; fall through and refresh it.
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	rec := &core.Record{
		Name:           d.Name,
		NormalizedName: normalized,
		Version:        version,
		Packages:       append([]string(nil), d.Packages...),
		Author:         d.Author,
		AuthorEmail:    d.AuthorEmail,
		Description:    d.Description,
		License:        d.License,
		URL:            d.URL,
		Keywords:       append([]string(nil), d.Keywords...),
		PURL:           descriptor.PURL(d),
		InstalledAt:    time.Now().UTC(),
	}

	files, err := s.writeDistInfo(rec)
	if err != nil {
		return nil, err
	}
	rec.Files = files

	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	// The replaced dist-info goes only after the new version is persisted;
	// a failed write must leave the old version installed.
	if stale != nil {
		if err := s.removeFiles(stale); err != nil {
			return nil, fmt.Errorf("replacing %s: %w", normalized, err)
		}
		s.logger.Info().
			Str("dist", normalized).
			Str("old_version", stale.Version).
			Str("new_version", version).
			Msg("replaced installed distribution")
	}

	s.logger.Info().
		Str("dist", normalized).
		Str("version", version).
		Str("purl", rec.PURL).
		Msg("registered distribution")
	return rec, nil
}

// Get returns the record for a raw or normalized distribution name.
func (s *Site) Get(ctx context.Context, name string) (*core.Record, error) {
	return s.store.Get(ctx, core.NormalizeName(name))
}

// GetByPURL returns the record matching a package URL. Only pkg:pypi URLs
// are accepted; when the PURL carries a version it must match the
// installed one.
func (s *Site) GetByPURL(ctx context.Context, purlStr string) (*core.Record, error) {
	p, err := purl.Parse(purlStr)
	if err != nil {
		return nil, fmt.Errorf("parsing PURL: %w", err)
	}
	if p.Type != "pypi" {
		return nil, fmt.Errorf("unsupported PURL type %q", p.Type)
	}

	rec, err := s.Get(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if p.Version != "" && p.Version != rec.Version {
		return nil, &core.NotFoundError{Name: rec.NormalizedName, Version: p.Version}
	}
	return rec, nil
}

// List returns every registered distribution, sorted by normalized name.
func (s *Site) List(ctx context.Context) ([]core.Record, error) {
	return s.store.List(ctx)
}

// Retire marks a distribution retired without touching its files. Retired
// records stay visible to Get and List; re-registering the distribution
// reinstates it.
func (s *Site) Retire(ctx context.Context, name string) error {
	normalized := core.NormalizeName(name)
	rec, err := s.store.Get(ctx, normalized)
	if err != nil {
		return err
	}
	if rec.Status == core.StatusRetired {
		return nil
	}

	rec.Status = core.StatusRetired
	if err := s.store.Put(ctx, rec); err != nil {
		return err
	}

	s.logger.Info().
		Str("dist", normalized).
		Str("version", rec.Version).
		Msg("retired distribution")
	return nil
}

// Remove deletes a distribution: its record, its installed files, and its
// dist-info directory.
func (s *Site) Remove(ctx context.Context, name string) error {
	normalized := core.NormalizeName(name)
	rec, err := s.store.Get(ctx, normalized)
	if err != nil {
		return err
	}

	if err := s.removeFiles(rec); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, normalized); err != nil {
		return err
	}

	s.logger.Info().
		Str("dist", normalized).
		Str("version", rec.Version).
		Msg("removed distribution")
	return nil
}

func (s *Site) distInfoDir(rec *core.Record) string {
	return fmt.Sprintf("%s-%s.dist-info", rec.NormalizedName, rec.Version)
}

// writeDistInfo writes METADATA and RECORD and returns the written paths,
// relative to the site root.
func (s *Site) writeDistInfo(rec *core.Record) ([]string, error) {
	infoDir := s.distInfoDir(rec)
	if err := os.MkdirAll(filepath.Join(s.dir, infoDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating dist-info: %w", err)
	}

	metadataPath := filepath.Join(infoDir, "METADATA")
	recordPath := filepath.Join(infoDir, "RECORD")

	if err := os.WriteFile(filepath.Join(s.dir, metadataPath), FormatMetadata(rec), 0o644); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	record := metadataPath + ",,\n" + recordPath + ",,\n"
	if err := os.WriteFile(filepath.Join(s.dir, recordPath), []byte(record), 0o644); err != nil {
		return nil, fmt.Errorf("writing record: %w", err)
	}

	return []string{metadataPath, recordPath}, nil
}

// removeFiles deletes the files listed in a record and its dist-info
// directory. Missing files are ignored.
func (s *Site) removeFiles(rec *core.Record) error {
	for _, f := range rec.Files {
		path := filepath.Join(s.dir, f)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", f, err)
		}
	}
	infoDir := filepath.Join(s.dir, s.distInfoDir(rec))
	if err := os.Remove(infoDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", infoDir, err)
	}
	return nil
}
