package db

import "context"

const getTeamByName = `
SELECT id, name, is_active
FROM teams
WHERE lower(name) = lower($1) AND is_active
`

func (q *Queries) GetTeamByName(ctx context.Context, name string) (Team, error) {
	row := q.db.QueryRow(ctx, getTeamByName, name)
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.IsActive)
	return t, err
}

// Role descending sorts owners before members; within a role members are
// ordered by username.
const listTeamMembers = `
SELECT username, role
FROM team_members
WHERE team_id = $1
ORDER BY role DESC, username
`

func (q *Queries) ListTeamMembers(ctx context.Context, teamID int64) ([]ListTeamMembersRow, error) {
	rows, err := q.db.Query(ctx, listTeamMembers, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListTeamMembersRow
	for rows.Next() {
		var r ListTeamMembersRow
		if err := rows.Scan(&r.Username, &r.Role); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listTeamServiceAccounts = `
SELECT uuid, nickname
FROM service_accounts
WHERE team_id = $1
ORDER BY nickname
`

func (q *Queries) ListTeamServiceAccounts(ctx context.Context, teamID int64) ([]ListTeamServiceAccountsRow, error) {
	rows, err := q.db.Query(ctx, listTeamServiceAccounts, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListTeamServiceAccountsRow
	for rows.Next() {
		var r ListTeamServiceAccountsRow
		if err := rows.Scan(&r.UUID, &r.Nickname); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getServiceAccountByTokenDigest = `
SELECT id, uuid, team_id, nickname, token_digest
FROM service_accounts
WHERE token_digest = $1
`

func (q *Queries) GetServiceAccountByTokenDigest(ctx context.Context, digest string) (ServiceAccount, error) {
	row := q.db.QueryRow(ctx, getServiceAccountByTokenDigest, digest)
	var sa ServiceAccount
	err := row.Scan(&sa.ID, &sa.UUID, &sa.TeamID, &sa.Nickname, &sa.TokenDigest)
	return sa, err
}
