package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/utils"
)

// VideoRepository reads platform videos and stores widget subtitle edits on PostgreSQL.
type VideoRepository struct{ db *sql.DB }

func NewVideoRepository(db *sql.DB) repository.IVideo {
	return &VideoRepository{db: db}
}

const videoSelect = `SELECT v.id, v.video_id, v.title, COALESCE(t.slug, ''), COALESCE(u.username, ''), v.created_at
	FROM videos v
	LEFT JOIN teams t ON t.id = v.team_id
	LEFT JOIN users u ON u.id = v.user_id`

const languageColumns = `id, video_id, language_code, title, is_forked, is_complete, created_at, updated_at`

const versionSelect = `SELECT sv.id, sv.language_id, sl.language_code, sv.version_no, sv.is_public, sv.subtitles, sv.created_at
	FROM subtitle_versions sv
	JOIN subtitle_languages sl ON sl.id = sv.language_id`

func (r *VideoRepository) GetByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, videoSelect+` WHERE v.video_id = $1`, videoID)
	return r.loadVideo(ctx, row, videoID)
}

func (r *VideoRepository) GetByURL(ctx context.Context, url string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, videoSelect+` WHERE v.id = (SELECT video_id FROM video_urls WHERE url = $1)`, url)
	return r.loadVideo(ctx, row, url)
}

func (r *VideoRepository) loadVideo(ctx context.Context, row *sql.Row, key string) (*model.Video, error) {
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, model.ErrVideoNotFound)
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, video_id, url, type, owner_username, is_primary FROM video_urls WHERE video_id = $1 ORDER BY is_primary DESC, id`, video.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if video.URLs, err = scanVideoURLs(rows); err != nil {
		return nil, err
	}
	return video, nil
}

func (r *VideoRepository) ListLanguages(ctx context.Context, videoPK int64) ([]model.SubtitleLanguage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+languageColumns+` FROM subtitle_languages WHERE video_id = $1 ORDER BY language_code`, videoPK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLanguages(rows)
}

func (r *VideoRepository) GetLanguage(ctx context.Context, videoPK int64, languageCode string) (*model.SubtitleLanguage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+languageColumns+` FROM subtitle_languages WHERE video_id = $1 AND language_code = $2`, videoPK, languageCode)
	lang, err := scanLanguage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", languageCode, model.ErrLanguageNotFound)
	}
	return lang, err
}

func (r *VideoRepository) SaveLanguage(ctx context.Context, l *model.SubtitleLanguage) error {
	now := utils.GetCurrentTime()
	l.UpdatedAt = now
	if l.ID == 0 {
		l.CreatedAt = now
		return r.db.QueryRowContext(ctx,
			`INSERT INTO subtitle_languages (video_id, language_code, title, is_forked, is_complete, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			l.VideoPK, l.LanguageCode, l.Title, l.IsForked, l.IsComplete, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE subtitle_languages SET title=$1, is_forked=$2, is_complete=$3, updated_at=$4 WHERE id=$5`,
		l.Title, l.IsForked, l.IsComplete, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrLanguageNotFound)
}

func (r *VideoRepository) DeleteLanguage(ctx context.Context, languagePK int64) error {
	// versions go with the language (ON DELETE CASCADE)
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtitle_languages WHERE id = $1`, languagePK)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrLanguageNotFound)
}

func (r *VideoRepository) LatestVersion(ctx context.Context, languagePK int64) (*model.SubtitleVersion, error) {
	row := r.db.QueryRowContext(ctx, versionSelect+` WHERE sv.language_id = $1 ORDER BY sv.version_no DESC LIMIT 1`, languagePK)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func (r *VideoRepository) GetVersion(ctx context.Context, languagePK int64, versionNo int) (*model.SubtitleVersion, error) {
	row := r.db.QueryRowContext(ctx, versionSelect+` WHERE sv.language_id = $1 AND sv.version_no = $2`, languagePK, versionNo)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("version %d: %w", versionNo, model.ErrVersionNotFound)
	}
	return v, err
}

func (r *VideoRepository) CreateVersion(ctx context.Context, v *model.SubtitleVersion) error {
	raw, err := marshalSubtitles(v.Subtitles)
	if err != nil {
		return err
	}
	v.CreatedAt = utils.GetCurrentTime()
	q := `INSERT INTO subtitle_versions (language_id, version_no, is_public, subtitles, created_at)
		  SELECT $1, COALESCE(MAX(version_no), 0) + 1, $2, $3, $4 FROM subtitle_versions WHERE language_id = $1
		  RETURNING id, version_no`
	return r.db.QueryRowContext(ctx, q, v.LanguagePK, v.IsPublic, raw, v.CreatedAt).Scan(&v.ID, &v.VersionNo)
}

func scanVideo(row rowScanner) (*model.Video, error) {
	v := &model.Video{}
	if err := row.Scan(&v.ID, &v.VideoID, &v.Title, &v.TeamSlug, &v.OwnerUsername, &v.CreatedAt); err != nil {
		return nil, err
	}
	return v, nil
}

func scanVideoURLs(rows *sql.Rows) ([]model.VideoURL, error) {
	urls := []model.VideoURL{}
	for rows.Next() {
		var u model.VideoURL
		var t string
		if err := rows.Scan(&u.ID, &u.VideoPK, &u.URL, &t, &u.OwnerUsername, &u.Primary); err != nil {
			return nil, err
		}
		u.Type = model.AccountType(t)
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func scanLanguage(row rowScanner) (*model.SubtitleLanguage, error) {
	l := &model.SubtitleLanguage{}
	if err := row.Scan(&l.ID, &l.VideoPK, &l.LanguageCode, &l.Title, &l.IsForked, &l.IsComplete, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func scanLanguages(rows *sql.Rows) ([]model.SubtitleLanguage, error) {
	langs := []model.SubtitleLanguage{}
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		langs = append(langs, *l)
	}
	return langs, rows.Err()
}

func scanVersion(row rowScanner) (*model.SubtitleVersion, error) {
	v := &model.SubtitleVersion{}
	var raw []byte
	if err := row.Scan(&v.ID, &v.LanguagePK, &v.LanguageCode, &v.VersionNo, &v.IsPublic, &raw, &v.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &v.Subtitles); err != nil {
		return nil, fmt.Errorf("decode subtitles of version %d: %w", v.ID, err)
	}
	return v, nil
}

func marshalSubtitles(subs []model.Subtitle) ([]byte, error) {
	if subs == nil {
		subs = []model.Subtitle{}
	}
	return json.Marshal(subs)
}
