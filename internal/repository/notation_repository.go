package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/apifilms/film-ratings/internal/model"
)

// NotationRepo manages persistence for ratings in the t_j_notation_not
// join table. A notation is identified by the composite key
// (utilisateur, film); the pair is immutable once the row exists.
type NotationRepo struct {
	db *sql.DB
}

// NewNotationRepo constructs a NotationRepo with the given DB handle.
func NewNotationRepo(db *sql.DB) *NotationRepo { return &NotationRepo{db: db} }

const notationCols = `utl_id, flm_id, not_note, row_version`

func scanNotation(rs rowScanner, n *model.Notation) error {
	return rs.Scan(&n.UtilisateurID, &n.FilmID, &n.Note, &n.RowVersion)
}

// Create validates the note range, verifies both referenced rows exist and
// inserts, all in one transaction. A second rating for the same pair yields
// ErrDuplicateNotation; a dangling reference yields ErrMissingReference.
// The composite primary key and the RESTRICT foreign keys close the races
// the in-transaction checks cannot see.
func (r *NotationRepo) Create(ctx context.Context, n *model.Notation) (err error) {
	if !model.NoteInRange(n.Note) {
		return ErrNoteOutOfRange
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

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM t_e_utilisateur_utl WHERE utl_id = ? LIMIT 1`, n.UtilisateurID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMissingReference
	}
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM t_e_film_flm WHERE flm_id = ? LIMIT 1`, n.FilmID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMissingReference
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO t_j_notation_not (utl_id, flm_id, not_note) VALUES (?, ?, ?)`,
		n.UtilisateurID, n.FilmID, n.Note)
	if err != nil {
		return mapForeignKey(mapDuplicateKey(err, ErrDuplicateNotation))
	}
	err = scanNotation(tx.QueryRowContext(ctx,
		`SELECT `+notationCols+` FROM t_j_notation_not WHERE utl_id = ? AND flm_id = ?`,
		n.UtilisateurID, n.FilmID), n)
	return err
}

// GetByID fetches a notation by its composite key.
func (r *NotationRepo) GetByID(ctx context.Context, utilisateurID, filmID int64) (*model.Notation, error) {
	var n model.Notation
	err := scanNotation(r.db.QueryRowContext(ctx,
		`SELECT `+notationCols+` FROM t_j_notation_not WHERE utl_id = ? AND flm_id = ?`,
		utilisateurID, filmID), &n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListAll returns every notation ordered by its composite key.
func (r *NotationRepo) ListAll(ctx context.Context) ([]model.Notation, error) {
	return r.list(ctx, `SELECT `+notationCols+` FROM t_j_notation_not ORDER BY utl_id, flm_id`)
}

// ListByFilm returns the notations referencing one film. This replaces the
// source model's navigation collection with an index lookup.
func (r *NotationRepo) ListByFilm(ctx context.Context, filmID int64) ([]model.Notation, error) {
	return r.list(ctx,
		`SELECT `+notationCols+` FROM t_j_notation_not WHERE flm_id = ? ORDER BY utl_id`, filmID)
}

// ListByUtilisateur returns the notations submitted by one user.
func (r *NotationRepo) ListByUtilisateur(ctx context.Context, utilisateurID int64) ([]model.Notation, error) {
	return r.list(ctx,
		`SELECT `+notationCols+` FROM t_j_notation_not WHERE utl_id = ? ORDER BY flm_id`, utilisateurID)
}

func (r *NotationRepo) list(ctx context.Context, query string, args ...any) ([]model.Notation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Notation, 0)
	for rows.Next() {
		var n model.Notation
		if err := scanNotation(rows, &n); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update changes the note of an existing notation under the optimistic
// version check. The composite key is immutable, so only not_note moves; a
// failed version match is diagnosed into ErrNotFound or ErrConcurrency.
func (r *NotationRepo) Update(ctx context.Context, n *model.Notation) (err error) {
	if !model.NoteInRange(n.Note) {
		return ErrNoteOutOfRange
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
		`UPDATE t_j_notation_not
		 SET not_note = ?, row_version = row_version + 1
		 WHERE utl_id = ? AND flm_id = ? AND row_version = ?`,
		n.Note, n.UtilisateurID, n.FilmID, n.RowVersion)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		n.RowVersion++
		return nil
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM t_j_notation_not WHERE utl_id = ? AND flm_id = ? LIMIT 1`,
		n.UtilisateurID, n.FilmID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConcurrency
}

// Delete removes a notation by its composite key. Nothing references
// notations, so this is a plain delete.
func (r *NotationRepo) Delete(ctx context.Context, utilisateurID, filmID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM t_j_notation_not WHERE utl_id = ? AND flm_id = ?`, utilisateurID, filmID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
