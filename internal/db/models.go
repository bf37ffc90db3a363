package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Community struct {
	ID              int64
	Identifier      string
	Name            string
	RequireApproval bool
}

type Team struct {
	ID       int64
	Name     string
	IsActive bool
}

type TeamMember struct {
	ID       int64
	TeamID   int64
	Username string
	Role     string
}

type ServiceAccount struct {
	ID          int64
	UUID        uuid.UUID
	TeamID      int64
	Nickname    string
	TokenDigest string
}

type Section struct {
	ID                int64
	UUID              uuid.UUID
	CommunityID       int64
	Name              string
	RequireCategories []int64
	ExcludeCategories []int64
}

type BotJWTConfig struct {
	ID       int64
	KeyID    uuid.UUID
	Name     string
	Secret   string
	Username string
}

type BotPermission struct {
	ID            int64
	Username      string
	DiscordUserID int64
	CanDeprecate  bool
}

// ListCommunityPackagesRow is one package listed in a community, denormalized
// with its latest version and aggregate counters.
type ListCommunityPackagesRow struct {
	ID             int64
	UUID           uuid.UUID
	Name           string
	Namespace      string
	Owner          string
	Description    pgtype.Text
	IconURL        pgtype.Text
	FileSize       pgtype.Int8
	IsPinned       bool
	IsDeprecated   bool
	HasNSFWContent bool
	ReviewStatus   string
	Downloads      pgtype.Int8
	RatingCount    pgtype.Int8
	DateCreated    time.Time
	DateUpdated    time.Time
}

type ListCommunityPackageCategoriesRow struct {
	PackageID    int64
	CategoryID   int64
	CategoryName string
}

type ListCommunityPackageVersionsRow struct {
	PackageID     int64
	UUID          uuid.UUID
	VersionNumber string
	Description   string
	IconURL       pgtype.Text
	FileSize      int64
	Downloads     int64
	IsActive      bool
	DateCreated   time.Time
}

type ListTeamMembersRow struct {
	Username string
	Role     string
}

type ListTeamServiceAccountsRow struct {
	UUID     uuid.UUID
	Nickname string
}

type GetPackageForDeprecationRow struct {
	ID           int64
	IsDeprecated bool
}

type IndexCacheRow struct {
	ID              uuid.UUID
	Content         []byte
	ContentType     string
	ContentEncoding string
	LastModified    time.Time
}
