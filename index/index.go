package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

// DefaultURL is the default package index.
const DefaultURL = "https://pypi.org"

// Project holds the published metadata for a project on the index.
type Project struct {
	Name          string
	Summary       string
	Homepage      string
	License       string
	Keywords      []string
	LatestVersion string
}

// Version describes one published version of a project.
type Version struct {
	Number       string
	PublishedAt  time.Time
	Integrity    string
	Yanked       bool
	YankedReason string
}

// Index queries a package index over its JSON API.
type Index struct {
	baseURL string
	client  *Client
	urls    *URLs
}

// New creates an index client. An empty baseURL selects DefaultURL;
// a nil client selects DefaultClient().
func New(baseURL string, client *Client) *Index {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = DefaultClient()
	}
	ix := &Index{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
	ix.urls = &URLs{baseURL: ix.baseURL}
	return ix
}

// URLs returns the URL builder for this index.
func (ix *Index) URLs() *URLs {
	return ix.urls
}

type projectResponse struct {
	Info     infoBlock                `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
}

type infoBlock struct {
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	HomePage string `json:"home_page"`
	License  string `json:"license"`
	Keywords string `json:"keywords"`
	Version  string `json:"version"`
}

type releaseFile struct {
	Digests      map[string]string `json:"digests"`
	UploadTime   string            `json:"upload_time"`
	Yanked       bool              `json:"yanked"`
	YankedReason string            `json:"yanked_reason"`
}

// Project fetches the published metadata for a project.
func (ix *Index) Project(ctx context.Context, name string) (*Project, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", ix.baseURL, core.NormalizeName(name))

	var resp projectResponse
	if err := ix.client.GetJSON(ctx, url, &resp); err != nil {
		var httpErr *core.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Name: core.NormalizeName(name)}
		}
		return nil, err
	}

	return &Project{
		Name:          strings.ToLower(resp.Info.Name),
		Summary:       resp.Info.Summary,
		Homepage:      resp.Info.HomePage,
		License:       resp.Info.License,
		Keywords:      core.ParseKeywords(resp.Info.Keywords),
		LatestVersion: resp.Info.Version,
	}, nil
}

// Versions fetches every published version of a project, newest first
// where upload timestamps are available.
func (ix *Index) Versions(ctx context.Context, name string) ([]Version, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", ix.baseURL, core.NormalizeName(name))

	var resp projectResponse
	if err := ix.client.GetJSON(ctx, url, &resp); err != nil {
		var httpErr *core.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Name: core.NormalizeName(name)}
		}
		return nil, err
	}

	versions := make([]Version, 0, len(resp.Releases))
	for num, files := range resp.Releases {
		if len(files) == 0 {
			versions = append(versions, Version{Number: num})
			continue
		}

		file := files[0]
		var publishedAt time.Time
		if file.UploadTime != "" {
			publishedAt, _ = time.Parse("2006-01-02T15:04:05", file.UploadTime)
		}

		var integrity string
		if sha256, ok := file.Digests["sha256"]; ok {
			integrity = "sha256-" + sha256
		}

		versions = append(versions, Version{
			Number:       num,
			PublishedAt:  publishedAt,
			Integrity:    integrity,
			Yanked:       file.Yanked,
			YankedReason: file.YankedReason,
		})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].PublishedAt.After(versions[j].PublishedAt)
	})
	return versions, nil
}

// Latest returns the newest non-yanked version, or nil when none exists.
func (ix *Index) Latest(ctx context.Context, name string) (*Version, error) {
	versions, err := ix.Versions(ctx, name)
	if err != nil {
		return nil, err
	}

	for i := range versions {
		if !versions[i].Yanked {
			return &versions[i], nil
		}
	}
	return nil, nil
}

// Available reports whether a project name is unclaimed on the index.
func (ix *Index) Available(ctx context.Context, name string) (bool, error) {
	_, err := ix.Project(ctx, name)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, core.ErrNotFound) {
		return true, nil
	}
	return false, err
}
