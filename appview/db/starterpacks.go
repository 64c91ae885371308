package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

func AddStarterPack(e Execer, pack *models.StarterPack) error {
	result, err := e.Exec(
		`insert into starter_packs (
			did,
			rkey,
			name,
			description,
			category,
			creator_handle,
			created,
			edited
		)
		values (?, ?, ?, ?, ?, ?, ?, null)`,
		pack.Did,
		pack.Rkey,
		pack.Name,
		nullString(pack.Description),
		pack.Category,
		nullString(pack.CreatorHandle),
		pack.Created.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	packId, err := result.LastInsertId()
	if err != nil {
		return err
	}
	pack.ID = packId

	for _, m := range pack.Members {
		_, err := e.Exec(
			`insert into starter_pack_members (
				pack_id,
				did,
				handle,
				display_name,
				avatar,
				added
			)
			values (?, ?, ?, ?, ?, ?)
			on conflict(pack_id, did) do nothing`,
			packId,
			m.Did,
			m.Handle,
			nullString(m.DisplayName),
			nullString(m.Avatar),
			m.Added.Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func GetStarterPacks(e Execer, filters ...Filter) ([]models.StarterPack, error) {
	var all []models.StarterPack

	clause, args := whereClause(filters)

	query := fmt.Sprintf(`select
			id,
			did,
			rkey,
			name,
			description,
			category,
			creator_handle,
			created,
			edited
		from starter_packs
		%s
		order by created desc`,
		clause,
	)

	rows, err := e.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.StarterPack
		var description, creatorHandle, edited sql.NullString
		var created string

		if err := rows.Scan(
			&p.ID,
			&p.Did,
			&p.Rkey,
			&p.Name,
			&description,
			&p.Category,
			&creatorHandle,
			&created,
			&edited,
		); err != nil {
			return nil, err
		}

		p.Description = description.String
		p.CreatorHandle = creatorHandle.String

		p.Created, err = time.Parse(time.RFC3339, created)
		if err != nil {
			p.Created = time.Now()
		}

		if edited.Valid {
			e, err := time.Parse(time.RFC3339, edited.String)
			if err != nil {
				e = time.Now()
			}
			p.Edited = &e
		}

		all = append(all, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range all {
		members, err := getStarterPackMembers(e, all[i].ID)
		if err != nil {
			return nil, err
		}
		all[i].Members = members
	}

	return all, nil
}

func getStarterPackMembers(e Execer, packId int64) ([]models.StarterPackMember, error) {
	rows, err := e.Query(
		`select
			did,
			handle,
			display_name,
			avatar,
			added
		from starter_pack_members
		where pack_id = ?
		order by added asc`,
		packId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.StarterPackMember
	for rows.Next() {
		var m models.StarterPackMember
		var displayName, avatar sql.NullString
		var added string

		if err := rows.Scan(
			&m.Did,
			&m.Handle,
			&displayName,
			&avatar,
			&added,
		); err != nil {
			return nil, err
		}

		m.DisplayName = displayName.String
		m.Avatar = avatar.String

		m.Added, err = time.Parse(time.RFC3339, added)
		if err != nil {
			m.Added = time.Now()
		}

		members = append(members, m)
	}

	return members, rows.Err()
}

func CountStarterPacks(e Execer, filters ...Filter) (int64, error) {
	clause, args := whereClause(filters)

	query := fmt.Sprintf(`select count(1) from starter_packs %s`, clause)
	var count int64
	err := e.QueryRow(query, args...).Scan(&count)

	if !errors.Is(err, sql.ErrNoRows) && err != nil {
		return 0, err
	}

	return count, nil
}

func DeleteStarterPack(e Execer, filters ...Filter) error {
	clause, args := whereClause(filters)
	_, err := e.Exec(`delete from starter_packs`+clause, args...)
	return err
}
