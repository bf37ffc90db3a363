package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/modvault/modvault/internal/cache"
	"github.com/modvault/modvault/internal/listing"
)

// Source adapts the query layer to the interfaces consumed by the listing
// pipeline and the index builder.
type Source struct {
	Queries *Queries
	BaseURL string
}

// Community implements listing.Source.
func (s *Source) Community(ctx context.Context, identifier string) (*listing.Community, error) {
	c, err := s.Queries.GetCommunity(ctx, identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get community: %w", err)
	}
	return &listing.Community{
		Identifier:      c.Identifier,
		Name:            c.Name,
		RequireApproval: c.RequireApproval,
	}, nil
}

// Namespace implements listing.Source.
func (s *Source) Namespace(ctx context.Context, name string) (string, error) {
	canonical, err := s.Queries.GetNamespaceName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", listing.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get namespace: %w", err)
	}
	return canonical, nil
}

// Packages implements listing.Source.
func (s *Source) Packages(ctx context.Context, communityID string) ([]listing.Package, error) {
	rows, err := s.Queries.ListCommunityPackages(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("list community packages: %w", err)
	}
	categories, err := s.Queries.ListCommunityPackageCategories(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("list package categories: %w", err)
	}

	categoryIDs := make(map[int64][]int64)
	categoryNames := make(map[int64][]string)
	for _, c := range categories {
		categoryIDs[c.PackageID] = append(categoryIDs[c.PackageID], c.CategoryID)
		categoryNames[c.PackageID] = append(categoryNames[c.PackageID], c.CategoryName)
	}

	packages := make([]listing.Package, 0, len(rows))
	for _, r := range rows {
		packages = append(packages, listing.Package{
			ID:           r.ID,
			Name:         r.Name,
			Namespace:    r.Namespace,
			Owner:        r.Owner,
			Description:  r.Description.String,
			IconURL:      r.IconURL.String,
			Size:         r.FileSize.Int64,
			IsPinned:     r.IsPinned,
			IsDeprecated: r.IsDeprecated,
			IsNSFW:       r.HasNSFWContent,
			ReviewStatus: listing.ReviewStatus(r.ReviewStatus),
			CategoryIDs:  categoryIDs[r.ID],
			Categories:   categoryNames[r.ID],
			Downloads:    r.Downloads.Int64,
			RatingCount:  r.RatingCount.Int64,
			DateCreated:  r.DateCreated,
			DateUpdated:  r.DateUpdated,
		})
	}
	return packages, nil
}

// Section implements listing.Source. A missing section resolves to nil so
// the pipeline degrades to no category restriction.
func (s *Source) Section(ctx context.Context, communityID string, id uuid.UUID) (*listing.Section, error) {
	section, err := s.Queries.GetSection(ctx, id.String(), communityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	return &listing.Section{
		ID:                section.UUID,
		Name:              section.Name,
		RequireCategories: section.RequireCategories,
		ExcludeCategories: section.ExcludeCategories,
	}, nil
}

// Communities implements cache.PackageSource.
func (s *Source) Communities(ctx context.Context) ([]string, error) {
	return s.Queries.ListCommunityIdentifiers(ctx)
}

// IndexPackages implements cache.PackageSource: the serveable package rows
// for the v1 index, with the community's review rules already applied.
func (s *Source) IndexPackages(ctx context.Context, communityID string) ([]cache.PackageSummary, error) {
	community, err := s.Queries.GetCommunity(ctx, communityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("unknown community %q", communityID)
	}
	if err != nil {
		return nil, fmt.Errorf("get community: %w", err)
	}

	rows, err := s.Queries.ListCommunityPackages(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("list community packages: %w", err)
	}
	versions, err := s.Queries.ListCommunityPackageVersions(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("list package versions: %w", err)
	}
	categories, err := s.Queries.ListCommunityPackageCategories(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("list package categories: %w", err)
	}

	versionsByPackage := make(map[int64][]ListCommunityPackageVersionsRow)
	for _, v := range versions {
		versionsByPackage[v.PackageID] = append(versionsByPackage[v.PackageID], v)
	}
	categoryNames := make(map[int64][]string)
	for _, c := range categories {
		categoryNames[c.PackageID] = append(categoryNames[c.PackageID], c.CategoryName)
	}

	summaries := make([]cache.PackageSummary, 0, len(rows))
	for _, r := range rows {
		if !serveable(community, r) {
			continue
		}
		summaries = append(summaries, s.summary(community.Identifier, r, versionsByPackage[r.ID], categoryNames[r.ID]))
	}
	return summaries, nil
}

// serveable applies the index visibility rules: approved listings always,
// unreviewed ones only when the community does not require approval.
func serveable(community Community, r ListCommunityPackagesRow) bool {
	if r.ReviewStatus == "approved" {
		return true
	}
	return !community.RequireApproval && r.ReviewStatus == "unreviewed"
}

func (s *Source) summary(communityID string, r ListCommunityPackagesRow, versions []ListCommunityPackageVersionsRow, categories []string) cache.PackageSummary {
	fullName := r.Namespace + "-" + r.Name
	if categories == nil {
		categories = []string{}
	}

	versionSummaries := make([]cache.VersionSummary, 0, len(versions))
	for _, v := range versions {
		versionSummaries = append(versionSummaries, cache.VersionSummary{
			Name:          r.Name,
			FullName:      fullName + "-" + v.VersionNumber,
			Description:   v.Description,
			Icon:          v.IconURL.String,
			VersionNumber: v.VersionNumber,
			DownloadURL: fmt.Sprintf("%s/package/download/%s/%s/%s/",
				s.BaseURL, r.Namespace, r.Name, v.VersionNumber),
			Downloads:   v.Downloads,
			DateCreated: v.DateCreated,
			FileSize:    v.FileSize,
			IsActive:    v.IsActive,
			UUID4:       v.UUID.String(),
		})
	}

	return cache.PackageSummary{
		Name:     r.Name,
		FullName: fullName,
		Owner:    r.Owner,
		PackageURL: fmt.Sprintf("%s/c/%s/p/%s/%s/",
			s.BaseURL, communityID, r.Namespace, r.Name),
		DateCreated:    r.DateCreated,
		DateUpdated:    r.DateUpdated,
		UUID4:          r.UUID.String(),
		RatingScore:    r.RatingCount.Int64,
		IsPinned:       r.IsPinned,
		IsDeprecated:   r.IsDeprecated,
		HasNSFWContent: r.HasNSFWContent,
		Categories:     categories,
		Versions:       versionSummaries,
	}
}

// PackageDetail returns the v1 summary for a single package in a community.
func (s *Source) PackageDetail(ctx context.Context, communityID string, packageUUID uuid.UUID) (*cache.PackageSummary, error) {
	summaries, err := s.IndexPackages(ctx, communityID)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if summaries[i].UUID4 == packageUUID.String() {
			return &summaries[i], nil
		}
	}
	return nil, listing.ErrNotFound
}
