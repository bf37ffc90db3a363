package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modvault/modvault/internal/listing"
)

func (s *Server) handleCommunityListing(w http.ResponseWriter, r *http.Request) {
	s.serveListing(w, r, chi.URLParam(r, "community"), "")
}

func (s *Server) handleNamespaceListing(w http.ResponseWriter, r *http.Request) {
	s.serveListing(w, r, chi.URLParam(r, "community"), chi.URLParam(r, "namespace"))
}

func (s *Server) serveListing(w http.ResponseWriter, r *http.Request, community, namespace string) {
	// Parameters are validated before any data access.
	params, err := listing.ParseParams(r.URL.Query())
	if err != nil {
		s.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.Listing.ListPackages(r.Context(), community, namespace, r.URL.Path, params)
	switch {
	case errors.Is(err, listing.ErrNotFound):
		s.writeDetail(w, http.StatusNotFound, "Not found.")
		return
	case errors.Is(err, listing.ErrInvalidPage):
		s.writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	case err != nil:
		s.Log.Error().Err(err).Str("community", community).Msg("list packages")
		s.writeDetail(w, http.StatusInternalServerError, "could not list packages")
		return
	}

	s.writeJSON(w, http.StatusOK, page)
}
