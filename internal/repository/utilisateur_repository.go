package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/apifilms/film-ratings/internal/model"
)

// UtilisateurRepo manages persistence for users in the t_e_utilisateur_utl
// table. Mail addresses are normalized (trimmed, lower-cased) before every
// lookup or write so duplicate detection is case-insensitive.
type UtilisateurRepo struct {
	db *sql.DB
}

// NewUtilisateurRepo constructs a UtilisateurRepo with the given DB handle.
func NewUtilisateurRepo(db *sql.DB) *UtilisateurRepo { return &UtilisateurRepo{db: db} }

const utilisateurCols = `utl_id, utl_nom, utl_prenom, utl_mobile, utl_mail, utl_pwd,
       utl_rue, utl_cp, utl_ville, utl_pays, utl_latitude, utl_longitude,
       utl_datecreation, row_version`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUtilisateur(rs rowScanner, u *model.Utilisateur) error {
	return rs.Scan(
		&u.UtilisateurID, &u.Nom, &u.Prenom, &u.Mobile, &u.Mail, &u.Pwd,
		&u.Rue, &u.CodePostal, &u.Ville, &u.Pays, &u.Latitude, &u.Longitude,
		&u.DateCreation, &u.RowVersion,
	)
}

// Create validates the record, checks mail uniqueness and inserts, all in
// one transaction. The generated ID, the store-assigned DateCreation and
// the initial row version are populated on the given record. A duplicate
// mail yields ErrDuplicateMail; the uq_utl_mail index catches the race
// where a concurrent insert commits between the check and ours.
func (r *UtilisateurRepo) Create(ctx context.Context, u *model.Utilisateur) (err error) {
	u.ApplyDefaults()
	if err = u.Validate(); err != nil {
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

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM t_e_utilisateur_utl WHERE utl_mail = ? LIMIT 1`, u.Mail).Scan(&one)
	if err == nil {
		return ErrDuplicateMail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// utl_datecreation and row_version are left to their column defaults.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO t_e_utilisateur_utl
		 (utl_nom, utl_prenom, utl_mobile, utl_mail, utl_pwd, utl_rue, utl_cp, utl_ville, utl_pays, utl_latitude, utl_longitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Nom, u.Prenom, u.Mobile, u.Mail, u.Pwd, u.Rue, u.CodePostal, u.Ville, u.Pays, u.Latitude, u.Longitude)
	if err != nil {
		return mapDuplicateKey(err, ErrDuplicateMail)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.UtilisateurID = id

	// Query back the full row to pick up DB-assigned defaults.
	err = scanUtilisateur(tx.QueryRowContext(ctx,
		`SELECT `+utilisateurCols+` FROM t_e_utilisateur_utl WHERE utl_id = ?`, id), u)
	return err
}

// GetByID fetches a user by id. Returns ErrNotFound when no row matches.
func (r *UtilisateurRepo) GetByID(ctx context.Context, id int64) (*model.Utilisateur, error) {
	var u model.Utilisateur
	err := scanUtilisateur(r.db.QueryRowContext(ctx,
		`SELECT `+utilisateurCols+` FROM t_e_utilisateur_utl WHERE utl_id = ?`, id), &u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByMail fetches a user by normalized mail address.
func (r *UtilisateurRepo) GetByMail(ctx context.Context, mail string) (*model.Utilisateur, error) {
	var u model.Utilisateur
	err := scanUtilisateur(r.db.QueryRowContext(ctx,
		`SELECT `+utilisateurCols+` FROM t_e_utilisateur_utl WHERE utl_mail = ? LIMIT 1`,
		model.NormalizeMail(mail)), &u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListAll returns every user ordered by id. An empty table yields an empty
// slice and nil error.
func (r *UtilisateurRepo) ListAll(ctx context.Context) ([]model.Utilisateur, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+utilisateurCols+` FROM t_e_utilisateur_utl ORDER BY utl_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Utilisateur, 0)
	for rows.Next() {
		var u model.Utilisateur
		if err := scanUtilisateur(rows, &u); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update commits the supplied record only if its RowVersion still matches
// the stored row. DateCreation is never part of the SET clause, so the
// creation timestamp survives every update. When the version check fails
// the row is re-read to tell a deleted row (ErrNotFound) from a
// concurrently modified one (ErrConcurrency). On success the record's
// RowVersion is advanced to the committed value.
func (r *UtilisateurRepo) Update(ctx context.Context, u *model.Utilisateur) (err error) {
	u.Mail = model.NormalizeMail(u.Mail)
	if err = u.Validate(); err != nil {
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

	// Uniqueness check against the new mail, excluding the row itself.
	var other int64
	err = tx.QueryRowContext(ctx,
		`SELECT utl_id FROM t_e_utilisateur_utl WHERE utl_mail = ? AND utl_id <> ? LIMIT 1`,
		u.Mail, u.UtilisateurID).Scan(&other)
	if err == nil {
		return ErrDuplicateMail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE t_e_utilisateur_utl
		 SET utl_nom = ?, utl_prenom = ?, utl_mobile = ?, utl_mail = ?, utl_pwd = ?,
		     utl_rue = ?, utl_cp = ?, utl_ville = ?, utl_pays = ?, utl_latitude = ?, utl_longitude = ?,
		     row_version = row_version + 1
		 WHERE utl_id = ? AND row_version = ?`,
		u.Nom, u.Prenom, u.Mobile, u.Mail, u.Pwd,
		u.Rue, u.CodePostal, u.Ville, u.Pays, u.Latitude, u.Longitude,
		u.UtilisateurID, u.RowVersion)
	if err != nil {
		return mapDuplicateKey(err, ErrDuplicateMail)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		u.RowVersion++
		return nil
	}

	// No row matched: either it is gone or another writer bumped the version.
	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM t_e_utilisateur_utl WHERE utl_id = ? LIMIT 1`, u.UtilisateurID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConcurrency
}

// Delete removes a user unless notations still reference them. The count
// check and the delete share one transaction; the fk_not_utl RESTRICT
// constraint backs the check up against concurrent rating inserts.
func (r *UtilisateurRepo) Delete(ctx context.Context, id int64) (err error) {
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
		`SELECT COUNT(*) FROM t_j_notation_not WHERE utl_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrRestrictDelete
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM t_e_utilisateur_utl WHERE utl_id = ?`, id)
	if err != nil {
		return mapRestrictDelete(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
