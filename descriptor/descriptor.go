// Package descriptor declares, loads, and validates packaging descriptors.
//
// A descriptor is the static declaration of a distributable package: its
// name, version, the subpackages to install, and the descriptive metadata
// (author, license, project URL) shown in package listings. Descriptors are
// written as YAML manifests and validated before registration.
package descriptor

import (
	"bytes"
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

// Descriptor is the packaging descriptor consumed by registration.
type Descriptor = core.Descriptor

// Default returns the built-in descriptor. Calling it takes no arguments
// and always yields the same static values.
func Default() *Descriptor {
	return &Descriptor{
		Name:        "warwick.observatory.efafocus",
		Version:     "0",
		Packages:    []string{"warwick.observatory.efafocus"},
		Author:      "Paul Chote",
		AuthorEmail: "p.chote@warwick.ac.uk",
		Description: "Common code for the focus daemon",
		License:     "GNU GPLv3",
		URL:         "https://github.com/warwick-one-metre/efafocusd",
	}
}

// Parse decodes a YAML manifest into a Descriptor. Unknown fields are
// rejected so that typos in manifests surface as errors.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &d, nil
}

// Load reads and parses a YAML manifest from disk.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Validate checks every field of the descriptor and returns the first
// failure as a *core.ValidationError.
func Validate(d *Descriptor) error {
	if d.Name == "" {
		return &core.ValidationError{Field: "name", Value: d.Name, Reason: "required"}
	}
	if !core.ValidName(d.Name) {
		return &core.ValidationError{Field: "name", Value: d.Name, Reason: "must contain only letters, digits, '.', '-', '_' and start and end with a letter or digit"}
	}

	if d.Version == "" {
		return &core.ValidationError{Field: "version", Value: d.Version, Reason: "required"}
	}
	if _, err := core.CanonicalVersion(d.Version); err != nil {
		return &core.ValidationError{Field: "version", Value: d.Version, Reason: "not a valid version"}
	}

	if len(d.Packages) == 0 {
		return &core.ValidationError{Field: "packages", Value: "", Reason: "at least one package is required"}
	}
	rootPkg := strings.ReplaceAll(d.Name, "-", "_")
	hasRoot := false
	for _, pkg := range d.Packages {
		if !validPackagePath(pkg) {
			return &core.ValidationError{Field: "packages", Value: pkg, Reason: "not a valid dotted package path"}
		}
		if pkg == d.Name || pkg == rootPkg {
			hasRoot = true
		}
	}
	if !hasRoot {
		return &core.ValidationError{Field: "packages", Value: d.Name, Reason: "the root package must be listed"}
	}

	if d.License != "" {
		if _, err := NormalizeLicense(d.License); err != nil {
			return &core.ValidationError{Field: "license", Value: d.License, Reason: err.Error()}
		}
	}

	if d.AuthorEmail != "" {
		if _, err := mail.ParseAddress(d.AuthorEmail); err != nil {
			return &core.ValidationError{Field: "author_email", Value: d.AuthorEmail, Reason: "not a valid email address"}
		}
	}

	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &core.ValidationError{Field: "url", Value: d.URL, Reason: "must be an absolute http or https URL"}
		}
	}

	return nil
}

// PURL returns the package URL for a descriptor:
// "pkg:pypi/<normalized-name>@<canonical-version>".
func PURL(d *Descriptor) string {
	name := core.NormalizeName(d.Name)
	version, err := core.CanonicalVersion(d.Version)
	if err != nil || version == "" {
		return fmt.Sprintf("pkg:pypi/%s", name)
	}
	return fmt.Sprintf("pkg:pypi/%s@%s", name, version)
}

// validPackagePath accepts dotted import paths such as
// "warwick.observatory.efafocus". Each segment must be a valid identifier.
func validPackagePath(path string) bool {
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, ".") {
		if !validIdentifier(segment) {
			return false
		}
	}
	return true
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
