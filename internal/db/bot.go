package db

import "context"

const getBotJWTConfig = `
SELECT id, key_id, name, secret, username
FROM bot_jwt_configs
WHERE key_id = $1
`

func (q *Queries) GetBotJWTConfig(ctx context.Context, keyID string) (BotJWTConfig, error) {
	row := q.db.QueryRow(ctx, getBotJWTConfig, keyID)
	var c BotJWTConfig
	err := row.Scan(&c.ID, &c.KeyID, &c.Name, &c.Secret, &c.Username)
	return c, err
}

const getBotPermission = `
SELECT id, username, discord_user_id, can_deprecate
FROM bot_permissions
WHERE username = $1 AND discord_user_id = $2
`

func (q *Queries) GetBotPermission(ctx context.Context, username string, discordUserID int64) (BotPermission, error) {
	row := q.db.QueryRow(ctx, getBotPermission, username, discordUserID)
	var p BotPermission
	err := row.Scan(&p.ID, &p.Username, &p.DiscordUserID, &p.CanDeprecate)
	return p, err
}
