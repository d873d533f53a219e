// Package pkgmeta declares, validates, and registers package metadata.
//
// A packaging descriptor is the static declaration of a distributable
// package: its name, version, subpackages, author, license, and project
// URL. The toolkit loads descriptors from YAML manifests, validates them,
// and registers them into a local install environment; the index
// subpackage checks names against a remote package index.
//
// Basic usage:
//
//	d, err := pkgmeta.Load("package.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := pkgmeta.Validate(d); err != nil {
//		log.Fatal(err)
//	}
//
//	env, err := site.Open("/var/lib/pkgmeta/site")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer env.Close()
//
//	rec, err := env.Register(context.Background(), d)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(rec.PURL)
package pkgmeta

import (
	"github.com/git-pkgs/purl"

	"github.com/warwick-one-metre/pkgmeta/descriptor"
	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

// Re-export types from internal/core
type (
	// Descriptor declares the metadata for a distributable package.
	Descriptor = core.Descriptor

	// Record represents a distribution registered into an install environment.
	Record = core.Record

	// RecordStatus represents the lifecycle state of a registered distribution.
	RecordStatus = core.RecordStatus
)

// Re-export constants
const (
	StatusActive  = core.StatusActive
	StatusRetired = core.StatusRetired
)

// Re-export errors
var (
	ErrNotFound = core.ErrNotFound
)

// Error types
type (
	ValidationError = core.ValidationError
	ConflictError   = core.ConflictError
	NotFoundError   = core.NotFoundError
	HTTPError       = core.HTTPError
)

// Default returns the built-in descriptor. Calling it takes no arguments
// and always yields the same static values.
func Default() *Descriptor {
	return descriptor.Default()
}

// Load reads and parses a YAML manifest from disk.
func Load(path string) (*Descriptor, error) {
	return descriptor.Load(path)
}

// Parse decodes a YAML manifest into a Descriptor.
func Parse(data []byte) (*Descriptor, error) {
	return descriptor.Parse(data)
}

// Validate checks every field of a descriptor.
func Validate(d *Descriptor) error {
	return descriptor.Validate(d)
}

// Discover walks a source tree and returns the dotted names of every
// package directory beneath root.
func Discover(root string) ([]string, error) {
	return descriptor.Discover(root)
}

// NormalizeName returns the canonical form of a project name.
func NormalizeName(name string) string {
	return core.NormalizeName(name)
}

// CanonicalVersion validates a version string and returns its canonical form.
func CanonicalVersion(version string) (string, error) {
	return core.CanonicalVersion(version)
}

// NormalizeLicense resolves a free-form license declaration to a valid
// SPDX expression.
func NormalizeLicense(license string) (string, error) {
	return descriptor.NormalizeLicense(license)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:pypi/example) and version PURLs
// (pkg:pypi/example@1.0.0).
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}
