package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/modvault/modvault/internal/cache"
	"github.com/modvault/modvault/internal/db"
	appmw "github.com/modvault/modvault/internal/http/middleware"
	"github.com/modvault/modvault/internal/listing"
)

// Registry is the slice of the query layer the handlers need. *db.Queries
// satisfies it; tests plug in fakes.
type Registry interface {
	GetTeamByName(ctx context.Context, name string) (db.Team, error)
	ListTeamMembers(ctx context.Context, teamID int64) ([]db.ListTeamMembersRow, error)
	ListTeamServiceAccounts(ctx context.Context, teamID int64) ([]db.ListTeamServiceAccountsRow, error)
	GetServiceAccountByTokenDigest(ctx context.Context, digest string) (db.ServiceAccount, error)
	GetBotJWTConfig(ctx context.Context, keyID string) (db.BotJWTConfig, error)
	GetBotPermission(ctx context.Context, username string, discordUserID int64) (db.BotPermission, error)
	GetPackageForDeprecation(ctx context.Context, fullName string) (db.GetPackageForDeprecationRow, error)
	DeprecatePackage(ctx context.Context, id int64) error
}

// PackageDetailer resolves single-package summaries for the v1 detail route.
type PackageDetailer interface {
	PackageDetail(ctx context.Context, community string, packageUUID uuid.UUID) (*cache.PackageSummary, error)
}

type Server struct {
	Router           *chi.Mux
	Listing          *listing.Service
	Cache            cache.Store
	Detail           PackageDetailer
	Registry         Registry
	DefaultCommunity string
	RedisAddr        string
	Log              zerolog.Logger
}

type ServerOptions struct {
	Listing          *listing.Service
	Cache            cache.Store
	Detail           PackageDetailer
	Registry         Registry
	DefaultCommunity string
	RedisAddr        string
	Logger           zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)

	s := &Server{
		Router:           r,
		Listing:          opts.Listing,
		Cache:            opts.Cache,
		Detail:           opts.Detail,
		Registry:         opts.Registry,
		DefaultCommunity: opts.DefaultCommunity,
		RedisAddr:        opts.RedisAddr,
		Log:              opts.Logger,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.Log.Error().Err(err).Msg("write health check response")
		}
	})

	r.Get("/api/v1/package/", s.handleDefaultPackageIndex)

	r.Route("/c/{community}", func(cr chi.Router) {
		cr.Get("/api/v1/package/", s.handlePackageIndex)
		cr.Get("/api/v1/package/{uuid}/", s.handlePackageDetail)
		cr.Post("/api/v1/bot/deprecate-mod/", s.handleBotDeprecate)
	})

	r.Get("/api/listing/{community}/", s.handleCommunityListing)
	r.Get("/api/listing/{community}/{namespace}/", s.handleNamespaceListing)

	r.Get("/api/team/{team}/", s.handleTeamDetail)
	r.Group(func(pr chi.Router) {
		pr.Use(appmw.RequireServiceAccount(serviceAccountLookup{s.Registry}))
		pr.Get("/api/team/{team}/member/", s.handleTeamMembers)
		pr.Get("/api/team/{team}/service-account/", s.handleTeamServiceAccounts)
	})

	return s
}

type serviceAccountLookup struct {
	registry Registry
}

func (l serviceAccountLookup) TeamForTokenDigest(ctx context.Context, digest string) (int64, error) {
	sa, err := l.registry.GetServiceAccountByTokenDigest(ctx, digest)
	if err != nil {
		return 0, err
	}
	return sa.TeamID, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Log.Error().Err(err).Msg("encode response")
	}
}

// writeDetail writes the conventional {"detail": ...} error body.
func (s *Server) writeDetail(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
