package pkgmeta_test

import (
	"errors"
	"testing"

	"github.com/warwick-one-metre/pkgmeta"
)

// The built-in descriptor must always carry the same static registration
// values, and they must pass validation.
func TestDefaultDescriptor(t *testing.T) {
	d := pkgmeta.Default()

	if d.Name != "warwick.observatory.efafocus" {
		t.Errorf("unexpected name: %q", d.Name)
	}
	if d.Version != "0" {
		t.Errorf("unexpected version: %q", d.Version)
	}
	if len(d.Packages) != 1 || d.Packages[0] != "warwick.observatory.efafocus" {
		t.Errorf("unexpected packages: %v", d.Packages)
	}

	if err := pkgmeta.Validate(d); err != nil {
		t.Errorf("default descriptor failed validation: %v", err)
	}

	// Calls are independent: mutating one result must not leak into the next.
	d.Version = "mutated"
	if pkgmeta.Default().Version != "0" {
		t.Error("Default() results must be independent")
	}
}

func TestNormalizeName(t *testing.T) {
	if got := pkgmeta.NormalizeName("warwick.observatory.efafocus"); got != "warwick-observatory-efafocus" {
		t.Errorf("unexpected normalization: %q", got)
	}
}

func TestCanonicalVersion(t *testing.T) {
	got, err := pkgmeta.CanonicalVersion("v1.0alpha1")
	if err != nil {
		t.Fatalf("CanonicalVersion failed: %v", err)
	}
	if got != "1.0a1" {
		t.Errorf("expected '1.0a1', got %q", got)
	}

	if _, err := pkgmeta.CanonicalVersion("nonsense"); err == nil {
		t.Error("expected error for invalid version")
	}
}

func TestNormalizeLicense(t *testing.T) {
	got, err := pkgmeta.NormalizeLicense("GNU GPLv3")
	if err != nil {
		t.Fatalf("NormalizeLicense failed: %v", err)
	}
	if got != "GPL-3.0-only" {
		t.Errorf("expected 'GPL-3.0-only', got %q", got)
	}
}

func TestParsePURL(t *testing.T) {
	p, err := pkgmeta.ParsePURL("pkg:pypi/warwick-observatory-efafocus@0")
	if err != nil {
		t.Fatalf("ParsePURL failed: %v", err)
	}
	if p.Type != "pypi" {
		t.Errorf("unexpected type: %q", p.Type)
	}
	if p.Name != "warwick-observatory-efafocus" {
		t.Errorf("unexpected name: %q", p.Name)
	}
	if p.Version != "0" {
		t.Errorf("unexpected version: %q", p.Version)
	}

	if _, err := pkgmeta.ParsePURL("not a purl"); err == nil {
		t.Error("expected error for invalid PURL")
	}
}

func TestValidationErrorExported(t *testing.T) {
	err := pkgmeta.Validate(&pkgmeta.Descriptor{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *pkgmeta.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("unexpected error type: %T", err)
	}
}
