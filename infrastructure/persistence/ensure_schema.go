package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// postgresSchema creates the tables owned by the widget and, for standalone
// deployments, minimal versions of the platform tables it reads.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
        id BIGSERIAL PRIMARY KEY,
        slug TEXT NOT NULL UNIQUE
    )`,
	`CREATE TABLE IF NOT EXISTS users (
        id BIGSERIAL PRIMARY KEY,
        username TEXT NOT NULL UNIQUE
    )`,
	`CREATE TABLE IF NOT EXISTS videos (
        id BIGSERIAL PRIMARY KEY,
        video_id TEXT NOT NULL UNIQUE,
        title TEXT NOT NULL DEFAULT '',
        team_id BIGINT NULL REFERENCES teams(id),
        user_id BIGINT NULL REFERENCES users(id),
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS video_urls (
        id BIGSERIAL PRIMARY KEY,
        video_id BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
        url TEXT NOT NULL UNIQUE,
        type VARCHAR(10) NOT NULL,
        owner_username TEXT NOT NULL DEFAULT '',
        is_primary BOOLEAN NOT NULL DEFAULT FALSE
    )`,
	`CREATE TABLE IF NOT EXISTS subtitle_languages (
        id BIGSERIAL PRIMARY KEY,
        video_id BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
        language_code VARCHAR(16) NOT NULL,
        title TEXT NOT NULL DEFAULT '',
        is_forked BOOLEAN NOT NULL DEFAULT FALSE,
        is_complete BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        UNIQUE (video_id, language_code)
    )`,
	`CREATE TABLE IF NOT EXISTS subtitle_versions (
        id BIGSERIAL PRIMARY KEY,
        language_id BIGINT NOT NULL REFERENCES subtitle_languages(id) ON DELETE CASCADE,
        version_no INT NOT NULL,
        is_public BOOLEAN NOT NULL DEFAULT TRUE,
        subtitles JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        UNIQUE (language_id, version_no)
    )`,
	`CREATE TABLE IF NOT EXISTS third_party_accounts (
        id BIGSERIAL PRIMARY KEY,
        type VARCHAR(10) NOT NULL,
        username VARCHAR(255) NOT NULL,
        oauth_access_token VARCHAR(255) NOT NULL,
        oauth_refresh_token VARCHAR(255) NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        UNIQUE (type, username)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_third_party_accounts_username ON third_party_accounts(username)`,
	`CREATE TABLE IF NOT EXISTS youtube_sync_rules (
        id BIGSERIAL PRIMARY KEY,
        team_slugs TEXT NOT NULL DEFAULT '',
        usernames TEXT NOT NULL DEFAULT '',
        video_ids TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMPTZ NOT NULL
    )`,
}

// EnsureSchema creates missing tables on PostgreSQL. Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	return execAll(db, postgresSchema)
}

var mssqlSchema = []string{
	`IF OBJECT_ID(N'dbo.teams', N'U') IS NULL
    CREATE TABLE dbo.[teams] (id BIGINT IDENTITY(1,1) PRIMARY KEY, slug NVARCHAR(255) NOT NULL UNIQUE)`,
	`IF OBJECT_ID(N'dbo.users', N'U') IS NULL
    CREATE TABLE dbo.[users] (id BIGINT IDENTITY(1,1) PRIMARY KEY, username NVARCHAR(255) NOT NULL UNIQUE)`,
	`IF OBJECT_ID(N'dbo.videos', N'U') IS NULL
    CREATE TABLE dbo.[videos] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        video_id NVARCHAR(255) NOT NULL UNIQUE,
        title NVARCHAR(2048) NOT NULL DEFAULT '',
        team_id BIGINT NULL REFERENCES dbo.[teams](id),
        user_id BIGINT NULL REFERENCES dbo.[users](id),
        created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
    )`,
	`IF OBJECT_ID(N'dbo.video_urls', N'U') IS NULL
    CREATE TABLE dbo.[video_urls] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        video_id BIGINT NOT NULL REFERENCES dbo.[videos](id) ON DELETE CASCADE,
        url NVARCHAR(900) NOT NULL UNIQUE,
        type NVARCHAR(10) NOT NULL,
        owner_username NVARCHAR(255) NOT NULL DEFAULT '',
        is_primary BIT NOT NULL DEFAULT 0
    )`,
	`IF OBJECT_ID(N'dbo.subtitle_languages', N'U') IS NULL
    CREATE TABLE dbo.[subtitle_languages] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        video_id BIGINT NOT NULL REFERENCES dbo.[videos](id) ON DELETE CASCADE,
        language_code NVARCHAR(16) NOT NULL,
        title NVARCHAR(2048) NOT NULL DEFAULT '',
        is_forked BIT NOT NULL DEFAULT 0,
        is_complete BIT NOT NULL DEFAULT 0,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL,
        CONSTRAINT UX_subtitle_languages_video_code UNIQUE (video_id, language_code)
    )`,
	`IF OBJECT_ID(N'dbo.subtitle_versions', N'U') IS NULL
    CREATE TABLE dbo.[subtitle_versions] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        language_id BIGINT NOT NULL REFERENCES dbo.[subtitle_languages](id) ON DELETE CASCADE,
        version_no INT NOT NULL,
        is_public BIT NOT NULL DEFAULT 1,
        subtitles NVARCHAR(MAX) NOT NULL,
        created_at DATETIME2 NOT NULL,
        CONSTRAINT UX_subtitle_versions_language_no UNIQUE (language_id, version_no)
    )`,
	`IF OBJECT_ID(N'dbo.third_party_accounts', N'U') IS NULL
BEGIN
    CREATE TABLE dbo.[third_party_accounts] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        type NVARCHAR(10) NOT NULL,
        username NVARCHAR(255) NOT NULL,
        oauth_access_token NVARCHAR(255) NOT NULL,
        oauth_refresh_token NVARCHAR(255) NOT NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_third_party_accounts_type_username ON dbo.[third_party_accounts](type, username);
END`,
	`IF OBJECT_ID(N'dbo.youtube_sync_rules', N'U') IS NULL
    CREATE TABLE dbo.[youtube_sync_rules] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        team_slugs NVARCHAR(MAX) NOT NULL DEFAULT '',
        usernames NVARCHAR(MAX) NOT NULL DEFAULT '',
        video_ids NVARCHAR(MAX) NOT NULL DEFAULT '',
        updated_at DATETIME2 NOT NULL
    )`,
}

// EnsureSchemaMSSQL creates missing tables on SQL Server.
func EnsureSchemaMSSQL(db *sql.DB) error {
	return execAll(db, mssqlSchema)
}

func execAll(db *sql.DB, statements []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i, ddl := range statements {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i, err)
		}
	}
	return nil
}
