package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/modvault/modvault/internal/cache"
	"github.com/modvault/modvault/internal/jobs"
	"github.com/modvault/modvault/internal/listing"
)

func (s *Server) handleDefaultPackageIndex(w http.ResponseWriter, r *http.Request) {
	s.servePackageIndex(w, r, s.DefaultCommunity)
}

func (s *Server) handlePackageIndex(w http.ResponseWriter, r *http.Request) {
	s.servePackageIndex(w, r, chi.URLParam(r, "community"))
}

// servePackageIndex serves the cached package index with conditional-request
// support. The stored payload is already gzipped, so it is written as-is
// with the encoding advertised in the headers.
func (s *Server) servePackageIndex(w http.ResponseWriter, r *http.Request, community string) {
	entry, err := s.Cache.GetLatest(r.Context(), community)
	if errors.Is(err, cache.ErrNotFound) {
		// Recoverable: kick off a regeneration so a later request succeeds.
		s.enqueueRegen(community)
		s.writeDetail(w, http.StatusServiceUnavailable, "package index not yet generated")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Str("community", community).Msg("load package index")
		s.writeDetail(w, http.StatusInternalServerError, "could not load package index")
		return
	}

	if entry.NotModifiedSince(r.Header.Get("If-Modified-Since")) {
		w.Header().Set("Last-Modified", entry.HTTPLastModified())
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Content-Encoding", entry.ContentEncoding)
	w.Header().Set("Last-Modified", entry.HTTPLastModified())
	if _, err := w.Write(entry.Content); err != nil {
		s.Log.Error().Err(err).Str("community", community).Msg("write package index")
	}
}

func (s *Server) handlePackageDetail(w http.ResponseWriter, r *http.Request) {
	community := chi.URLParam(r, "community")

	packageUUID, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	summary, err := s.Detail.PackageDetail(r.Context(), community, packageUUID)
	if errors.Is(err, listing.ErrNotFound) {
		s.writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Str("community", community).Msg("load package detail")
		s.writeDetail(w, http.StatusInternalServerError, "could not load package")
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

// enqueueRegen schedules an index rebuild for a community that has no cache
// yet. Best effort: serving 503 does not depend on the queue being up.
func (s *Server) enqueueRegen(community string) {
	if s.RedisAddr == "" {
		return
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: s.RedisAddr})
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.Log.Error().Err(closeErr).Msg("close asynq client")
		}
	}()

	payload, _ := json.Marshal(jobs.RegenerateIndexPayload{Community: community})
	task := asynq.NewTask(jobs.TaskRegenerateIndex, payload)
	info, err := client.Enqueue(task, asynq.Queue("regen"), asynq.MaxRetry(3))
	if err != nil {
		s.Log.Error().Err(err).Str("community", community).Msg("enqueue index regeneration")
		return
	}
	s.Log.Info().Str("community", community).Str("task_id", info.ID).Msg("index regeneration queued")
}
