package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	nameRegex    = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)
	sepRuns      = regexp.MustCompile(`[-_.]+`)
	versionRegex = regexp.MustCompile(`^v?(?:(\d+)!)?(\d+(?:\.\d+)*)(?:[-._]?(a|b|c|rc|alpha|beta|pre|preview)[-._]?(\d*))?(?:-(\d+)|[-._]?(post|rev|r)[-._]?(\d*))?(?:[-._]?(dev)[-._]?(\d*))?(?:\+([a-z0-9]+(?:[-._][a-z0-9]+)*))?$`)
)

// NormalizeName returns the canonical form of a project name: lowercase,
// with runs of dots, hyphens, and underscores collapsed to a single hyphen.
// "warwick.observatory.efafocus" normalizes to "warwick-observatory-efafocus".
func NormalizeName(name string) string {
	return sepRuns.ReplaceAllString(strings.ToLower(name), "-")
}

// ValidName reports whether name is an acceptable project name:
// letters, digits, dots, hyphens, and underscores, starting and ending
// with a letter or digit.
func ValidName(name string) bool {
	return nameRegex.MatchString(strings.ToLower(name))
}

// CanonicalVersion validates a version string and returns its canonical
// form: "[N!]N(.N)*[{a|b|rc}N][.postN][.devN][+local]". A bare release
// segment such as "0" is valid and canonicalizes to itself.
func CanonicalVersion(version string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(version))
	m := versionRegex.FindStringSubmatch(v)
	if m == nil {
		return "", fmt.Errorf("not a valid version: %q", version)
	}

	var b strings.Builder

	if m[1] != "" {
		if epoch, _ := strconv.Atoi(m[1]); epoch > 0 {
			fmt.Fprintf(&b, "%d!", epoch)
		}
	}

	segments := strings.Split(m[2], ".")
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('.')
		}
		n, err := strconv.Atoi(seg)
		if err != nil {
			return "", fmt.Errorf("not a valid version: %q", version)
		}
		b.WriteString(strconv.Itoa(n))
	}

	if m[3] != "" {
		b.WriteString(preLabel(m[3]))
		b.WriteString(numberOrZero(m[4]))
	}

	switch {
	case m[5] != "":
		// Implicit post release: "1.0-2" means "1.0.post2".
		b.WriteString(".post")
		b.WriteString(numberOrZero(m[5]))
	case m[6] != "":
		b.WriteString(".post")
		b.WriteString(numberOrZero(m[7]))
	}

	if m[8] != "" {
		b.WriteString(".dev")
		b.WriteString(numberOrZero(m[9]))
	}

	if m[10] != "" {
		b.WriteByte('+')
		b.WriteString(sepRuns.ReplaceAllString(m[10], "."))
	}

	return b.String(), nil
}

func preLabel(label string) string {
	switch label {
	case "alpha":
		return "a"
	case "beta":
		return "b"
	case "c", "pre", "preview":
		return "rc"
	default:
		return label
	}
}

func numberOrZero(s string) string {
	if s == "" {
		return "0"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "0"
	}
	return strconv.Itoa(n)
}

// ParseKeywords splits a keyword declaration on commas, or on whitespace
// when no comma is present.
func ParseKeywords(keywords string) []string {
	if keywords == "" {
		return nil
	}
	if strings.Contains(keywords, ",") {
		parts := strings.Split(keywords, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return strings.Fields(keywords)
}
