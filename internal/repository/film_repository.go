package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/apifilms/film-ratings/internal/model"
)

// FilmRepo manages persistence for films in the t_e_film_flm table.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

const filmCols = `flm_id, flm_titre, flm_resume, flm_datesortie, flm_duree, flm_genre, row_version`

func scanFilm(rs rowScanner, f *model.Film) error {
	return rs.Scan(&f.FilmID, &f.Titre, &f.Resume, &f.DateSortie, &f.Duree, &f.Genre, &f.RowVersion)
}

// Create validates and inserts a film, assigning the generated ID and the
// initial row version back onto the record.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) (err error) {
	if err = f.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO t_e_film_flm (flm_titre, flm_resume, flm_datesortie, flm_duree, flm_genre)
		 VALUES (?, ?, ?, ?, ?)`,
		f.Titre, f.Resume, f.DateSortie, f.Duree, f.Genre)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.FilmID = id
	err = scanFilm(tx.QueryRowContext(ctx,
		`SELECT `+filmCols+` FROM t_e_film_flm WHERE flm_id = ?`, id), f)
	return err
}

// GetByID fetches a film by id. Returns ErrNotFound when no row matches.
func (r *FilmRepo) GetByID(ctx context.Context, id int64) (*model.Film, error) {
	var f model.Film
	err := scanFilm(r.db.QueryRowContext(ctx,
		`SELECT `+filmCols+` FROM t_e_film_flm WHERE flm_id = ?`, id), &f)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListAll returns every film ordered by id.
func (r *FilmRepo) ListAll(ctx context.Context) ([]model.Film, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+filmCols+` FROM t_e_film_flm ORDER BY flm_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Film, 0)
	for rows.Next() {
		var f model.Film
		if err := scanFilm(rows, &f); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update commits the supplied record only if its RowVersion still matches
// the stored row, advancing the version on success. A failed match is
// diagnosed into ErrNotFound (row deleted) or ErrConcurrency.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film) (err error) {
	if err = f.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE t_e_film_flm
		 SET flm_titre = ?, flm_resume = ?, flm_datesortie = ?, flm_duree = ?, flm_genre = ?,
		     row_version = row_version + 1
		 WHERE flm_id = ? AND row_version = ?`,
		f.Titre, f.Resume, f.DateSortie, f.Duree, f.Genre, f.FilmID, f.RowVersion)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		f.RowVersion++
		return nil
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM t_e_film_flm WHERE flm_id = ? LIMIT 1`, f.FilmID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConcurrency
}

// Delete removes a film unless notations still reference it. The count
// check and the delete share one transaction; fk_not_flm RESTRICT backs the
// check up against a concurrent rating insert.
func (r *FilmRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var refs int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM t_j_notation_not WHERE flm_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrRestrictDelete
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM t_e_film_flm WHERE flm_id = ?`, id)
	if err != nil {
		return mapRestrictDelete(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
