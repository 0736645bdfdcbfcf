package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/utils"
)

// VideoRepositoryMSSQL is the SQL Server implementation of IVideo.
type VideoRepositoryMSSQL struct{ db *sql.DB }

func NewVideoRepositoryMSSQL(db *sql.DB) repository.IVideo {
	return &VideoRepositoryMSSQL{db: db}
}

const videoSelectMSSQL = `SELECT v.id, v.video_id, v.title, COALESCE(t.slug, ''), COALESCE(u.username, ''), v.created_at
	FROM dbo.[videos] v
	LEFT JOIN dbo.[teams] t ON t.id = v.team_id
	LEFT JOIN dbo.[users] u ON u.id = v.user_id`

const versionSelectMSSQL = `SELECT TOP 1 sv.id, sv.language_id, sl.language_code, sv.version_no, sv.is_public, sv.subtitles, sv.created_at
	FROM dbo.[subtitle_versions] sv
	JOIN dbo.[subtitle_languages] sl ON sl.id = sv.language_id`

func (r *VideoRepositoryMSSQL) GetByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, videoSelectMSSQL+` WHERE v.video_id = @p1`, videoID)
	return r.loadVideo(ctx, row, videoID)
}

func (r *VideoRepositoryMSSQL) GetByURL(ctx context.Context, url string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, videoSelectMSSQL+` WHERE v.id = (SELECT video_id FROM dbo.[video_urls] WHERE url = @p1)`, url)
	return r.loadVideo(ctx, row, url)
}

func (r *VideoRepositoryMSSQL) loadVideo(ctx context.Context, row *sql.Row, key string) (*model.Video, error) {
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, model.ErrVideoNotFound)
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, video_id, url, type, owner_username, is_primary FROM dbo.[video_urls] WHERE video_id = @p1 ORDER BY is_primary DESC, id`, video.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if video.URLs, err = scanVideoURLs(rows); err != nil {
		return nil, err
	}
	return video, nil
}

func (r *VideoRepositoryMSSQL) ListLanguages(ctx context.Context, videoPK int64) ([]model.SubtitleLanguage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+languageColumns+` FROM dbo.[subtitle_languages] WHERE video_id = @p1 ORDER BY language_code`, videoPK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLanguages(rows)
}

func (r *VideoRepositoryMSSQL) GetLanguage(ctx context.Context, videoPK int64, languageCode string) (*model.SubtitleLanguage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+languageColumns+` FROM dbo.[subtitle_languages] WHERE video_id = @p1 AND language_code = @p2`, videoPK, languageCode)
	lang, err := scanLanguage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", languageCode, model.ErrLanguageNotFound)
	}
	return lang, err
}

func (r *VideoRepositoryMSSQL) SaveLanguage(ctx context.Context, l *model.SubtitleLanguage) error {
	now := utils.GetCurrentTime()
	l.UpdatedAt = now
	if l.ID == 0 {
		l.CreatedAt = now
		return r.db.QueryRowContext(ctx,
			`INSERT INTO dbo.[subtitle_languages] (video_id, language_code, title, is_forked, is_complete, created_at, updated_at)
			 OUTPUT INSERTED.id VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7)`,
			l.VideoPK, l.LanguageCode, l.Title, l.IsForked, l.IsComplete, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[subtitle_languages] SET title=@p1, is_forked=@p2, is_complete=@p3, updated_at=@p4 WHERE id=@p5`,
		l.Title, l.IsForked, l.IsComplete, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrLanguageNotFound)
}

func (r *VideoRepositoryMSSQL) DeleteLanguage(ctx context.Context, languagePK int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[subtitle_languages] WHERE id = @p1`, languagePK)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrLanguageNotFound)
}

func (r *VideoRepositoryMSSQL) LatestVersion(ctx context.Context, languagePK int64) (*model.SubtitleVersion, error) {
	row := r.db.QueryRowContext(ctx, versionSelectMSSQL+` WHERE sv.language_id = @p1 ORDER BY sv.version_no DESC`, languagePK)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func (r *VideoRepositoryMSSQL) GetVersion(ctx context.Context, languagePK int64, versionNo int) (*model.SubtitleVersion, error) {
	row := r.db.QueryRowContext(ctx, versionSelectMSSQL+` WHERE sv.language_id = @p1 AND sv.version_no = @p2`, languagePK, versionNo)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("version %d: %w", versionNo, model.ErrVersionNotFound)
	}
	return v, err
}

func (r *VideoRepositoryMSSQL) CreateVersion(ctx context.Context, v *model.SubtitleVersion) error {
	raw, err := marshalSubtitles(v.Subtitles)
	if err != nil {
		return err
	}
	v.CreatedAt = utils.GetCurrentTime()
	q := `INSERT INTO dbo.[subtitle_versions] (language_id, version_no, is_public, subtitles, created_at)
OUTPUT INSERTED.id, INSERTED.version_no
SELECT @p1, COALESCE(MAX(version_no), 0) + 1, @p2, @p3, @p4 FROM dbo.[subtitle_versions] WHERE language_id = @p1`
	return r.db.QueryRowContext(ctx, q, v.LanguagePK, v.IsPublic, string(raw), v.CreatedAt).Scan(&v.ID, &v.VersionNo)
}
