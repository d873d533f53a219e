package index

import (
	"fmt"

	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

// URLs constructs browsable URLs for projects on the index.
type URLs struct {
	baseURL string
}

// Registry returns the project page URL.
func (u *URLs) Registry(name, version string) string {
	normalized := core.NormalizeName(name)
	if version != "" {
		return fmt.Sprintf("%s/project/%s/%s/", u.baseURL, normalized, version)
	}
	return fmt.Sprintf("%s/project/%s/", u.baseURL, normalized)
}

// Documentation returns the conventional documentation URL.
func (u *URLs) Documentation(name, version string) string {
	normalized := core.NormalizeName(name)
	if version != "" {
		return fmt.Sprintf("https://%s.readthedocs.io/en/%s/", normalized, version)
	}
	return fmt.Sprintf("https://%s.readthedocs.io/", normalized)
}

// PURL returns the package URL for a project.
func (u *URLs) PURL(name, version string) string {
	normalized := core.NormalizeName(name)
	if version != "" {
		return fmt.Sprintf("pkg:pypi/%s@%s", normalized, version)
	}
	return fmt.Sprintf("pkg:pypi/%s", normalized)
}

// BuildURLs returns a map of all non-empty URLs for a project.
// Keys are "registry", "docs", and "purl".
func BuildURLs(u *URLs, name, version string) map[string]string {
	result := make(map[string]string)
	if v := u.Registry(name, version); v != "" {
		result["registry"] = v
	}
	if v := u.Documentation(name, version); v != "" {
		result["docs"] = v
	}
	if v := u.PURL(name, version); v != "" {
		result["purl"] = v
	}
	return result
}
