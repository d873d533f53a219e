// Package core provides the shared types and errors for the packaging toolkit.
package core

import "time"

// Descriptor declares the metadata for a distributable package.
// It is the static input to registration: name, version, the subpackages
// to install, and the descriptive fields shown in package listings.
type Descriptor struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Packages    []string `yaml:"packages"`
	Author      string   `yaml:"author,omitempty"`
	AuthorEmail string   `yaml:"author_email,omitempty"`
	Description string   `yaml:"description,omitempty"`
	License     string   `yaml:"license,omitempty"`
	URL         string   `yaml:"url,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

// Record represents a distribution registered into an install environment.
type Record struct {
	Name           string       `json:"name"`
	NormalizedName string       `json:"normalized_name"`
	Version        string       `json:"version"`
	Packages       []string     `json:"packages"`
	Author         string       `json:"author,omitempty"`
	AuthorEmail    string       `json:"author_email,omitempty"`
	Description    string       `json:"description,omitempty"`
	License        string       `json:"license,omitempty"`
	URL            string       `json:"url,omitempty"`
	Keywords       []string     `json:"keywords,omitempty"`
	PURL           string       `json:"purl"`
	InstalledAt    time.Time    `json:"installed_at"`
	Files          []string     `json:"files"`
	Status         RecordStatus `json:"status,omitempty"`
}

// RecordStatus represents the lifecycle state of a registered distribution.
type RecordStatus string

const (
	StatusActive  RecordStatus = ""
	StatusRetired RecordStatus = "retired"
)
