package db

import (
	"database/sql"
	"time"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

func SaveSettings(e Execer, s models.Settings) error {
	_, err := e.Exec(
		`insert into settings (
			did,
			custom_banner,
			banner_scale,
			banner_position_x,
			banner_position_y,
			banner_rotation,
			theme,
			compact_layout,
			created,
			edited
		)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, null)
		on conflict(did) do update set
			custom_banner = excluded.custom_banner,
			banner_scale = excluded.banner_scale,
			banner_position_x = excluded.banner_position_x,
			banner_position_y = excluded.banner_position_y,
			banner_rotation = excluded.banner_rotation,
			theme = excluded.theme,
			compact_layout = excluded.compact_layout,
			edited = ?`,
		s.Did,
		nullString(s.CustomBanner),
		s.BannerAdjustment.Scale,
		s.BannerAdjustment.PositionX,
		s.BannerAdjustment.PositionY,
		s.BannerAdjustment.Rotation,
		nullString(s.Theme),
		s.CompactLayout,
		time.Now().Format(time.RFC3339),
		time.Now().Format(time.RFC3339),
	)
	return err
}

// GetSettings returns the stored settings for a single user;
// sql.ErrNoRows when they have never saved any.
func GetSettings(e Execer, filters ...Filter) (*models.Settings, error) {
	clause, args := whereClause(filters)

	query := `select
			did,
			custom_banner,
			banner_scale,
			banner_position_x,
			banner_position_y,
			banner_rotation,
			theme,
			compact_layout,
			created,
			edited
		from settings` + clause

	row := e.QueryRow(query, args...)

	var s models.Settings
	var customBanner, theme sql.NullString
	var created string
	var edited sql.NullString

	if err := row.Scan(
		&s.Did,
		&customBanner,
		&s.BannerAdjustment.Scale,
		&s.BannerAdjustment.PositionX,
		&s.BannerAdjustment.PositionY,
		&s.BannerAdjustment.Rotation,
		&theme,
		&s.CompactLayout,
		&created,
		&edited,
	); err != nil {
		return nil, err
	}

	s.CustomBanner = customBanner.String
	s.Theme = theme.String

	var err error
	s.Created, err = time.Parse(time.RFC3339, created)
	if err != nil {
		s.Created = time.Now()
	}

	if edited.Valid {
		e, err := time.Parse(time.RFC3339, edited.String)
		if err != nil {
			e = time.Now()
		}
		s.Edited = &e
	}

	return &s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
