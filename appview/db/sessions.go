package db

import (
	"time"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

func PutSession(e Execer, s models.Session) error {
	_, err := e.Exec(
		`insert into sessions (
			id,
			did,
			handle,
			pds_url,
			access_jwt,
			refresh_jwt,
			expiry,
			created
		)
		values (?, ?, ?, ?, ?, ?, ?, ?)
		on conflict(id) do update set
			access_jwt = excluded.access_jwt,
			refresh_jwt = excluded.refresh_jwt,
			expiry = excluded.expiry`,
		s.ID,
		s.Did,
		s.Handle,
		s.PdsUrl,
		s.AccessJwt,
		s.RefreshJwt,
		s.Expiry.Format(time.RFC3339),
		s.Created.Format(time.RFC3339),
	)
	return err
}

func GetSession(e Execer, filters ...Filter) (*models.Session, error) {
	clause, args := whereClause(filters)

	query := `select
			id,
			did,
			handle,
			pds_url,
			access_jwt,
			refresh_jwt,
			expiry,
			created
		from sessions` + clause

	row := e.QueryRow(query, args...)

	var s models.Session
	var expiry, created string
	if err := row.Scan(
		&s.ID,
		&s.Did,
		&s.Handle,
		&s.PdsUrl,
		&s.AccessJwt,
		&s.RefreshJwt,
		&expiry,
		&created,
	); err != nil {
		return nil, err
	}

	var err error
	s.Expiry, err = time.Parse(time.RFC3339, expiry)
	if err != nil {
		s.Expiry = time.Now()
	}
	s.Created, err = time.Parse(time.RFC3339, created)
	if err != nil {
		s.Created = time.Now()
	}

	return &s, nil
}

func DeleteSession(e Execer, filters ...Filter) error {
	clause, args := whereClause(filters)
	_, err := e.Exec(`delete from sessions`+clause, args...)
	return err
}
