package db

import "context"

const getCommunity = `
SELECT id, identifier, name, require_package_listing_approval
FROM communities
WHERE identifier = $1
`

func (q *Queries) GetCommunity(ctx context.Context, identifier string) (Community, error) {
	row := q.db.QueryRow(ctx, getCommunity, identifier)
	var c Community
	err := row.Scan(&c.ID, &c.Identifier, &c.Name, &c.RequireApproval)
	return c, err
}

const listCommunityIdentifiers = `
SELECT identifier
FROM communities
ORDER BY identifier
`

func (q *Queries) ListCommunityIdentifiers(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listCommunityIdentifiers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identifiers []string
	for rows.Next() {
		var identifier string
		if err := rows.Scan(&identifier); err != nil {
			return nil, err
		}
		identifiers = append(identifiers, identifier)
	}
	return identifiers, rows.Err()
}

const getNamespaceName = `
SELECT name
FROM namespaces
WHERE lower(name) = lower($1)
`

func (q *Queries) GetNamespaceName(ctx context.Context, name string) (string, error) {
	row := q.db.QueryRow(ctx, getNamespaceName, name)
	var canonical string
	err := row.Scan(&canonical)
	return canonical, err
}

const getSection = `
SELECT s.id, s.uuid, s.community_id, s.name,
       coalesce(array_agg(sc.category_id) FILTER (WHERE sc.is_required), '{}') AS require_categories,
       coalesce(array_agg(sc.category_id) FILTER (WHERE NOT sc.is_required), '{}') AS exclude_categories
FROM listing_sections s
JOIN communities c ON c.id = s.community_id
LEFT JOIN listing_section_categories sc ON sc.section_id = s.id
WHERE s.uuid = $1 AND c.identifier = $2
GROUP BY s.id
`

func (q *Queries) GetSection(ctx context.Context, sectionUUID string, community string) (Section, error) {
	row := q.db.QueryRow(ctx, getSection, sectionUUID, community)
	var s Section
	err := row.Scan(&s.ID, &s.UUID, &s.CommunityID, &s.Name, &s.RequireCategories, &s.ExcludeCategories)
	return s, err
}
