package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/modvault/modvault/internal/db"
	appmw "github.com/modvault/modvault/internal/http/middleware"
)

func seedTeam(env *testEnv) (token string) {
	env.registry.teams["TestTeam"] = db.Team{ID: 1, Name: "TestTeam", IsActive: true}
	env.registry.members[1] = []db.ListTeamMembersRow{
		{Username: "alice", Role: "owner"},
		{Username: "bob", Role: "member"},
	}
	env.registry.serviceAccounts[1] = []db.ListTeamServiceAccountsRow{
		{UUID: uuid.New(), Nickname: "ci-bot"},
	}

	token = "team-token-secret"
	env.registry.tokens[appmw.TokenDigest(token)] = db.ServiceAccount{ID: 1, TeamID: 1, Nickname: "ci-bot"}
	return token
}

func getTeam(env *testEnv, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.server.Router.ServeHTTP(w, req)
	return w
}

func TestTeamDetail(t *testing.T) {
	env := newTestEnv()
	seedTeam(env)

	w := getTeam(env, "/api/team/TestTeam/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail teamDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Equal(t, "TestTeam", detail.Name)

	w = getTeam(env, "/api/team/NoSuchTeam/", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamMembersRequiresAuth(t *testing.T) {
	env := newTestEnv()
	token := seedTeam(env)

	w := getTeam(env, "/api/team/TestTeam/member/", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = getTeam(env, "/api/team/TestTeam/member/", "wrong-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = getTeam(env, "/api/team/TestTeam/member/", token)
	require.Equal(t, http.StatusOK, w.Code)

	var members []teamMemberResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 2)
	require.Equal(t, "alice", members[0].Username)
	require.Equal(t, "owner", members[0].Role)
}

func TestTeamMembersForbiddenForOtherTeam(t *testing.T) {
	env := newTestEnv()
	token := seedTeam(env)
	env.registry.teams["OtherTeam"] = db.Team{ID: 2, Name: "OtherTeam", IsActive: true}

	w := getTeam(env, "/api/team/OtherTeam/member/", token)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamServiceAccounts(t *testing.T) {
	env := newTestEnv()
	token := seedTeam(env)

	w := getTeam(env, "/api/team/TestTeam/service-account/", token)
	require.Equal(t, http.StatusOK, w.Code)

	var accounts []serviceAccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	require.Equal(t, "ci-bot", accounts[0].Nickname)
}
