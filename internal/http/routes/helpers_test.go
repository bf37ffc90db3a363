package routes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/modvault/modvault/internal/cache"
	"github.com/modvault/modvault/internal/db"
	"github.com/modvault/modvault/internal/listing"
)

type fakeRegistry struct {
	teams           map[string]db.Team
	members         map[int64][]db.ListTeamMembersRow
	serviceAccounts map[int64][]db.ListTeamServiceAccountsRow
	tokens          map[string]db.ServiceAccount
	jwtConfigs      map[string]db.BotJWTConfig
	permissions     map[string]db.BotPermission
	packages        map[string]db.GetPackageForDeprecationRow
	deprecatedIDs   []int64
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		teams:           make(map[string]db.Team),
		members:         make(map[int64][]db.ListTeamMembersRow),
		serviceAccounts: make(map[int64][]db.ListTeamServiceAccountsRow),
		tokens:          make(map[string]db.ServiceAccount),
		jwtConfigs:      make(map[string]db.BotJWTConfig),
		permissions:     make(map[string]db.BotPermission),
		packages:        make(map[string]db.GetPackageForDeprecationRow),
	}
}

func permKey(username string, discordUserID int64) string {
	return fmt.Sprintf("%s|%d", username, discordUserID)
}

func (f *fakeRegistry) GetTeamByName(ctx context.Context, name string) (db.Team, error) {
	team, ok := f.teams[name]
	if !ok {
		return db.Team{}, pgx.ErrNoRows
	}
	return team, nil
}

func (f *fakeRegistry) ListTeamMembers(ctx context.Context, teamID int64) ([]db.ListTeamMembersRow, error) {
	return f.members[teamID], nil
}

func (f *fakeRegistry) ListTeamServiceAccounts(ctx context.Context, teamID int64) ([]db.ListTeamServiceAccountsRow, error) {
	return f.serviceAccounts[teamID], nil
}

func (f *fakeRegistry) GetServiceAccountByTokenDigest(ctx context.Context, digest string) (db.ServiceAccount, error) {
	sa, ok := f.tokens[digest]
	if !ok {
		return db.ServiceAccount{}, pgx.ErrNoRows
	}
	return sa, nil
}

func (f *fakeRegistry) GetBotJWTConfig(ctx context.Context, keyID string) (db.BotJWTConfig, error) {
	config, ok := f.jwtConfigs[keyID]
	if !ok {
		return db.BotJWTConfig{}, pgx.ErrNoRows
	}
	return config, nil
}

func (f *fakeRegistry) GetBotPermission(ctx context.Context, username string, discordUserID int64) (db.BotPermission, error) {
	perm, ok := f.permissions[permKey(username, discordUserID)]
	if !ok {
		return db.BotPermission{}, pgx.ErrNoRows
	}
	return perm, nil
}

func (f *fakeRegistry) GetPackageForDeprecation(ctx context.Context, fullName string) (db.GetPackageForDeprecationRow, error) {
	pkg, ok := f.packages[fullName]
	if !ok {
		return db.GetPackageForDeprecationRow{}, pgx.ErrNoRows
	}
	return pkg, nil
}

func (f *fakeRegistry) DeprecatePackage(ctx context.Context, id int64) error {
	f.deprecatedIDs = append(f.deprecatedIDs, id)
	return nil
}

type fakeListingSource struct {
	communities map[string]*listing.Community
	packages    map[string][]listing.Package
	sections    map[uuid.UUID]*listing.Section
}

func (f *fakeListingSource) Community(ctx context.Context, identifier string) (*listing.Community, error) {
	community, ok := f.communities[identifier]
	if !ok {
		return nil, listing.ErrNotFound
	}
	return community, nil
}

func (f *fakeListingSource) Namespace(ctx context.Context, name string) (string, error) {
	for _, pkgs := range f.packages {
		for _, p := range pkgs {
			if p.Namespace == name {
				return name, nil
			}
		}
	}
	return "", listing.ErrNotFound
}

func (f *fakeListingSource) Packages(ctx context.Context, communityID string) ([]listing.Package, error) {
	return f.packages[communityID], nil
}

func (f *fakeListingSource) Section(ctx context.Context, communityID string, id uuid.UUID) (*listing.Section, error) {
	return f.sections[id], nil
}

type fakeDetailer struct {
	summaries map[string]*cache.PackageSummary
}

func (f *fakeDetailer) PackageDetail(ctx context.Context, community string, packageUUID uuid.UUID) (*cache.PackageSummary, error) {
	summary, ok := f.summaries[community+"/"+packageUUID.String()]
	if !ok {
		return nil, listing.ErrNotFound
	}
	return summary, nil
}

type fakeIndexSource struct {
	packages map[string][]cache.PackageSummary
}

func (f *fakeIndexSource) Communities(ctx context.Context) ([]string, error) {
	var out []string
	for community := range f.packages {
		out = append(out, community)
	}
	return out, nil
}

func (f *fakeIndexSource) IndexPackages(ctx context.Context, community string) ([]cache.PackageSummary, error) {
	return f.packages[community], nil
}

type testEnv struct {
	server   *Server
	registry *fakeRegistry
	source   *fakeListingSource
	store    *cache.MemoryStore
	builder  *cache.Builder
	index    *fakeIndexSource
	now      time.Time
}

func newTestEnv() *testEnv {
	registry := newFakeRegistry()
	source := &fakeListingSource{
		communities: map[string]*listing.Community{
			"rr2": {Identifier: "rr2", Name: "Risk of Rain 2"},
		},
		packages: make(map[string][]listing.Package),
		sections: make(map[uuid.UUID]*listing.Section),
	}
	store := cache.NewMemoryStore()
	index := &fakeIndexSource{packages: make(map[string][]cache.PackageSummary)}

	env := &testEnv{
		registry: registry,
		source:   source,
		store:    store,
		index:    index,
		now:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	env.builder = &cache.Builder{
		Source: index,
		Store:  store,
		Now:    func() time.Time { return env.now },
	}
	env.server = New(ServerOptions{
		Listing:          &listing.Service{Source: source, BaseURL: "http://testserver"},
		Cache:            store,
		Detail:           &fakeDetailer{summaries: make(map[string]*cache.PackageSummary)},
		Registry:         registry,
		DefaultCommunity: "rr2",
		Logger:           zerolog.Nop(),
	})
	return env
}
