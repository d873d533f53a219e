package site

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

// metadataVersion is the core-metadata format version written to METADATA
// files inside dist-info directories.
const metadataVersion = "2.1"

// FormatMetadata renders the METADATA file for a registered distribution.
// Fields follow the core-metadata key: value layout; empty fields are
// omitted.
func FormatMetadata(rec *core.Record) []byte {
	var b bytes.Buffer

	write := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", key, value)
		}
	}

	write("Metadata-Version", metadataVersion)
	write("Name", rec.Name)
	write("Version", rec.Version)
	write("Summary", rec.Description)
	write("Home-page", rec.URL)
	write("Author", rec.Author)
	write("Author-email", rec.AuthorEmail)
	write("License", rec.License)
	write("Keywords", strings.Join(rec.Keywords, ","))

	return b.Bytes()
}

// ParseMetadata reads a METADATA file back into a partially populated
// Record. Only the descriptive fields are recovered; installed file lists
// and timestamps live in the install database.
func ParseMetadata(data []byte) (*core.Record, error) {
	rec := &core.Record{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			// A blank line ends the headers; anything after is the
			// long description, which we do not store.
			break
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("malformed metadata line: %q", line)
		}

		switch key {
		case "Metadata-Version":
			// accepted, not stored
		case "Name":
			rec.Name = value
			rec.NormalizedName = core.NormalizeName(value)
		case "Version":
			rec.Version = value
		case "Summary":
			rec.Description = value
		case "Home-page":
			rec.URL = value
		case "Author":
			rec.Author = value
		case "Author-email":
			rec.AuthorEmail = value
		case "License":
			rec.License = value
		case "Keywords":
			rec.Keywords = core.ParseKeywords(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if rec.Name == "" {
		return nil, fmt.Errorf("metadata missing Name")
	}
	return rec, nil
}
