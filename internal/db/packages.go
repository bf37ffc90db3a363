package db

import "context"

// listCommunityPackages returns every active package listed in a community,
// regardless of review status or flags; the listing pipeline applies the
// visibility rules. The latest version is picked by creation date with the
// same (date_created, id) ordering the index uses.
const listCommunityPackages = `
SELECT p.id, p.uuid, p.name, n.name AS namespace, t.name AS owner,
       latest.description, latest.icon_url, latest.file_size,
       p.is_pinned, p.is_deprecated, l.has_nsfw_content, l.review_status,
       agg.downloads, agg.rating_count,
       p.date_created, p.date_updated
FROM packages p
JOIN namespaces n ON n.id = p.namespace_id
JOIN teams t ON t.id = n.team_id
JOIN package_listings l ON l.package_id = p.id
JOIN communities c ON c.id = l.community_id
LEFT JOIN LATERAL (
    SELECT v.description, v.icon_url, v.file_size
    FROM package_versions v
    WHERE v.package_id = p.id AND v.is_active
    ORDER BY v.date_created DESC, v.id DESC
    LIMIT 1
) latest ON true
LEFT JOIN LATERAL (
    SELECT sum(v.downloads) AS downloads,
           (SELECT count(*) FROM package_ratings r WHERE r.package_id = p.id) AS rating_count
    FROM package_versions v
    WHERE v.package_id = p.id
) agg ON true
WHERE c.identifier = $1 AND p.is_active
`

func (q *Queries) ListCommunityPackages(ctx context.Context, community string) ([]ListCommunityPackagesRow, error) {
	rows, err := q.db.Query(ctx, listCommunityPackages, community)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListCommunityPackagesRow
	for rows.Next() {
		var r ListCommunityPackagesRow
		if err := rows.Scan(
			&r.ID, &r.UUID, &r.Name, &r.Namespace, &r.Owner,
			&r.Description, &r.IconURL, &r.FileSize,
			&r.IsPinned, &r.IsDeprecated, &r.HasNSFWContent, &r.ReviewStatus,
			&r.Downloads, &r.RatingCount,
			&r.DateCreated, &r.DateUpdated,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listCommunityPackageCategories = `
SELECT l.package_id, cat.id, cat.name
FROM package_listing_categories lc
JOIN package_listings l ON l.id = lc.listing_id
JOIN categories cat ON cat.id = lc.category_id
JOIN communities c ON c.id = l.community_id
WHERE c.identifier = $1
ORDER BY l.package_id, cat.name
`

func (q *Queries) ListCommunityPackageCategories(ctx context.Context, community string) ([]ListCommunityPackageCategoriesRow, error) {
	rows, err := q.db.Query(ctx, listCommunityPackageCategories, community)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListCommunityPackageCategoriesRow
	for rows.Next() {
		var r ListCommunityPackageCategoriesRow
		if err := rows.Scan(&r.PackageID, &r.CategoryID, &r.CategoryName); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listCommunityPackageVersions = `
SELECT v.package_id, v.uuid, v.version_number, v.description, v.icon_url,
       v.file_size, v.downloads, v.is_active, v.date_created
FROM package_versions v
JOIN packages p ON p.id = v.package_id
JOIN package_listings l ON l.package_id = p.id
JOIN communities c ON c.id = l.community_id
WHERE c.identifier = $1 AND v.is_active
ORDER BY v.package_id, v.date_created DESC, v.id DESC
`

func (q *Queries) ListCommunityPackageVersions(ctx context.Context, community string) ([]ListCommunityPackageVersionsRow, error) {
	rows, err := q.db.Query(ctx, listCommunityPackageVersions, community)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListCommunityPackageVersionsRow
	for rows.Next() {
		var r ListCommunityPackageVersionsRow
		if err := rows.Scan(
			&r.PackageID, &r.UUID, &r.VersionNumber, &r.Description, &r.IconURL,
			&r.FileSize, &r.Downloads, &r.IsActive, &r.DateCreated,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getPackageForDeprecation = `
SELECT p.id, p.is_deprecated
FROM packages p
JOIN namespaces n ON n.id = p.namespace_id
WHERE n.name || '-' || p.name = $1 AND p.is_active
`

func (q *Queries) GetPackageForDeprecation(ctx context.Context, fullName string) (GetPackageForDeprecationRow, error) {
	row := q.db.QueryRow(ctx, getPackageForDeprecation, fullName)
	var r GetPackageForDeprecationRow
	err := row.Scan(&r.ID, &r.IsDeprecated)
	return r, err
}

const deprecatePackage = `
UPDATE packages
SET is_deprecated = TRUE, date_updated = now()
WHERE id = $1
`

func (q *Queries) DeprecatePackage(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deprecatePackage, id)
	return err
}
