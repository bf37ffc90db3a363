// Package listing implements the community-scoped package listing pipeline:
// query parameter validation, an ordered chain of filter steps, ordering and
// page-link construction. All steps are pure functions over in-memory
// package rows so they can be tested without a database.
package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PageSize is the fixed number of results per listing page.
const PageSize = 20

var (
	// ErrNotFound is returned by Source implementations for missing
	// communities and namespaces.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPage is returned when the requested page is out of range.
	ErrInvalidPage = errors.New("invalid page")
)

// ReviewStatus mirrors the moderation state of a package listing.
type ReviewStatus string

const (
	ReviewApproved   ReviewStatus = "approved"
	ReviewUnreviewed ReviewStatus = "unreviewed"
	ReviewRejected   ReviewStatus = "rejected"
)

// Community carries the listing-relevant community settings.
type Community struct {
	Identifier      string
	Name            string
	RequireApproval bool
}

// Section is a named preset of required/excluded categories.
type Section struct {
	ID                uuid.UUID
	Name              string
	RequireCategories []int64
	ExcludeCategories []int64
}

// Package is one candidate row for a community listing, denormalized to the
// fields the filter pipeline and the preview serialization need.
type Package struct {
	ID           int64
	Name         string
	Namespace    string
	Owner        string
	Description  string
	IconURL      string
	Size         int64
	IsPinned     bool
	IsDeprecated bool
	IsNSFW       bool
	ReviewStatus ReviewStatus
	CategoryIDs  []int64
	Categories   []string
	Downloads    int64
	RatingCount  int64
	DateCreated  time.Time
	DateUpdated  time.Time
}

// Preview is one serialized listing result.
type Preview struct {
	Categories          []string  `json:"categories"`
	CommunityIdentifier string    `json:"community_identifier"`
	Description         string    `json:"description"`
	DownloadCount       int64     `json:"download_count"`
	IconURL             *string   `json:"icon_url"`
	IsDeprecated        bool      `json:"is_deprecated"`
	IsNSFW              bool      `json:"is_nsfw"`
	IsPinned            bool      `json:"is_pinned"`
	LastUpdated         time.Time `json:"last_updated"`
	Namespace           string    `json:"namespace"`
	Name                string    `json:"name"`
	RatingCount         int64     `json:"rating_count"`
	Size                int64     `json:"size"`
}

// Page is the paginated listing response body.
type Page struct {
	Count    int       `json:"count"`
	Previous *string   `json:"previous"`
	Next     *string   `json:"next"`
	Results  []Preview `json:"results"`
}

// Source loads listing inputs from the data store.
type Source interface {
	// Community returns the community for an identifier, or ErrNotFound.
	Community(ctx context.Context, identifier string) (*Community, error)

	// Namespace returns the canonical name for a namespace looked up
	// case-insensitively, or ErrNotFound.
	Namespace(ctx context.Context, name string) (string, error)

	// Packages returns every package listed in the community, including
	// deprecated, NSFW and unreviewed ones. The pipeline does the rest.
	Packages(ctx context.Context, communityID string) ([]Package, error)

	// Section resolves a section preset. A missing section returns
	// (nil, nil): it degrades to no category restriction.
	Section(ctx context.Context, communityID string, id uuid.UUID) (*Section, error)
}

// Service runs the listing pipeline for HTTP handlers.
type Service struct {
	Source  Source
	BaseURL string
}

// ListPackages applies the filter pipeline for a community, optionally
// scoped to a namespace, and returns one page of results. path is the
// request path used to build the previous/next links.
func (s *Service) ListPackages(ctx context.Context, communityID, namespace, path string, params Params) (*Page, error) {
	community, err := s.Source.Community(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if namespace != "" {
		if namespace, err = s.Source.Namespace(ctx, namespace); err != nil {
			return nil, err
		}
	}

	pkgs, err := s.Source.Packages(ctx, community.Identifier)
	if err != nil {
		return nil, err
	}

	if namespace != "" {
		pkgs = filterNamespace(namespace, pkgs)
	}

	var section *Section
	if params.Section != nil {
		if section, err = s.Source.Section(ctx, community.Identifier, *params.Section); err != nil {
			return nil, err
		}
	}

	pkgs = filterByReviewStatus(community.RequireApproval, pkgs)
	pkgs = filterDeprecated(params.Deprecated, pkgs)
	pkgs = filterNSFW(params.NSFW, pkgs)
	pkgs = filterInCategories(params.IncludedCategories, pkgs)
	pkgs = filterNotInCategories(params.ExcludedCategories, pkgs)
	pkgs = filterBySection(section, pkgs)
	pkgs = filterByQuery(params.Query, pkgs)

	sortPackages(params.Ordering, pkgs)

	count := len(pkgs)
	start := (params.Page - 1) * PageSize
	if start > 0 && start >= count {
		return nil, ErrInvalidPage
	}
	end := start + PageSize
	if end > count {
		end = count
	}
	window := pkgs[start:end]

	results := make([]Preview, 0, len(window))
	for _, p := range window {
		results = append(results, preview(community.Identifier, p))
	}

	previous, next := SiblingPages(s.BaseURL+path, params, count)
	return &Page{
		Count:    count,
		Previous: previous,
		Next:     next,
		Results:  results,
	}, nil
}

func preview(communityID string, p Package) Preview {
	var icon *string
	if p.IconURL != "" {
		icon = &p.IconURL
	}
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}
	return Preview{
		Categories:          categories,
		CommunityIdentifier: communityID,
		Description:         p.Description,
		DownloadCount:       p.Downloads,
		IconURL:             icon,
		IsDeprecated:        p.IsDeprecated,
		IsNSFW:              p.IsNSFW,
		IsPinned:            p.IsPinned,
		LastUpdated:         p.DateUpdated,
		Namespace:           p.Namespace,
		Name:                p.Name,
		RatingCount:         p.RatingCount,
		Size:                p.Size,
	}
}
