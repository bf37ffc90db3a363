package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/modvault/modvault/internal/db"
	appmw "github.com/modvault/modvault/internal/http/middleware"
)

type teamDetailResponse struct {
	Name string `json:"name"`
}

type teamMemberResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type serviceAccountResponse struct {
	UUID     string `json:"uuid"`
	Nickname string `json:"nickname"`
}

func (s *Server) handleTeamDetail(w http.ResponseWriter, r *http.Request) {
	team, ok := s.lookupTeam(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, teamDetailResponse{Name: team.Name})
}

func (s *Server) handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	team, ok := s.requireTeamAccess(w, r)
	if !ok {
		return
	}

	members, err := s.Registry.ListTeamMembers(r.Context(), team.ID)
	if err != nil {
		s.Log.Error().Err(err).Str("team", team.Name).Msg("list team members")
		s.writeDetail(w, http.StatusInternalServerError, "could not list members")
		return
	}

	results := make([]teamMemberResponse, 0, len(members))
	for _, m := range members {
		results = append(results, teamMemberResponse{Username: m.Username, Role: m.Role})
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleTeamServiceAccounts(w http.ResponseWriter, r *http.Request) {
	team, ok := s.requireTeamAccess(w, r)
	if !ok {
		return
	}

	accounts, err := s.Registry.ListTeamServiceAccounts(r.Context(), team.ID)
	if err != nil {
		s.Log.Error().Err(err).Str("team", team.Name).Msg("list service accounts")
		s.writeDetail(w, http.StatusInternalServerError, "could not list service accounts")
		return
	}

	results := make([]serviceAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		results = append(results, serviceAccountResponse{UUID: a.UUID.String(), Nickname: a.Nickname})
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) lookupTeam(w http.ResponseWriter, r *http.Request) (db.Team, bool) {
	team, err := s.Registry.GetTeamByName(r.Context(), chi.URLParam(r, "team"))
	if errors.Is(err, pgx.ErrNoRows) {
		s.writeDetail(w, http.StatusNotFound, "Not found.")
		return db.Team{}, false
	}
	if err != nil {
		s.Log.Error().Err(err).Msg("get team")
		s.writeDetail(w, http.StatusInternalServerError, "could not load team")
		return db.Team{}, false
	}
	return team, true
}

// requireTeamAccess resolves the team and verifies the authenticated
// service account belongs to it.
func (s *Server) requireTeamAccess(w http.ResponseWriter, r *http.Request) (db.Team, bool) {
	team, ok := s.lookupTeam(w, r)
	if !ok {
		return db.Team{}, false
	}

	teamID, ok := appmw.TeamID(r.Context())
	if !ok || teamID != team.ID {
		s.writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return db.Team{}, false
	}
	return team, true
}
