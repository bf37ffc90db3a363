package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/modvault/modvault/internal/db"
)

// maxBotTokenSize bounds the request body; a deprecation token is tiny.
const maxBotTokenSize = 4096

type botClaims struct {
	Package       string
	DiscordUserID int64
}

// handleBotDeprecate marks a package deprecated on behalf of an integration
// bot. The request body is a compact HS256 JWS whose kid header selects a
// configured signing secret; the claims carry the package full name and the
// Discord user acting through the bot.
func (s *Server) handleBotDeprecate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBotTokenSize))
	if err != nil || len(body) == 0 {
		s.writeDetail(w, http.StatusBadRequest, "missing token body")
		return
	}

	claims, config, err := s.verifyBotToken(r, string(body))
	if err != nil {
		s.writeDetail(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	perm, err := s.Registry.GetBotPermission(r.Context(), config.Username, claims.DiscordUserID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !perm.CanDeprecate) {
		s.writeDetail(w, http.StatusForbidden, "Insufficient Discord user permissions")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Msg("get bot permission")
		s.writeDetail(w, http.StatusInternalServerError, "could not check permissions")
		return
	}

	pkg, err := s.Registry.GetPackageForDeprecation(r.Context(), claims.Package)
	if errors.Is(err, pgx.ErrNoRows) {
		s.writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Msg("get package")
		s.writeDetail(w, http.StatusInternalServerError, "could not load package")
		return
	}

	// Idempotent: deprecating an already-deprecated package succeeds.
	if !pkg.IsDeprecated {
		if err := s.Registry.DeprecatePackage(r.Context(), pkg.ID); err != nil {
			s.Log.Error().Err(err).Str("package", claims.Package).Msg("deprecate package")
			s.writeDetail(w, http.StatusInternalServerError, "could not deprecate package")
			return
		}
		s.Log.Info().Str("package", claims.Package).Int64("discord_user", claims.DiscordUserID).Msg("package deprecated by bot")
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) verifyBotToken(r *http.Request, raw string) (*botClaims, *db.BotJWTConfig, error) {
	var config db.BotJWTConfig

	// Discord snowflakes exceed 2^53, so the user claim must not pass
	// through a float64.
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		var err error
		config, err = s.Registry.GetBotJWTConfig(r.Context(), kid)
		if err != nil {
			return nil, fmt.Errorf("unknown signing key: %w", err)
		}
		return []byte(config.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithJSONNumber())
	if err != nil {
		return nil, nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, errors.New("unexpected claims type")
	}
	pkg, _ := mapClaims["package"].(string)
	num, _ := mapClaims["user"].(json.Number)
	user, err := num.Int64()
	if pkg == "" || err != nil || user == 0 {
		return nil, nil, errors.New("missing package or user claim")
	}

	return &botClaims{Package: pkg, DiscordUserID: user}, &config, nil
}
