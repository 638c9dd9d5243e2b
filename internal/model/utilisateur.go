// Package model defines the value records persisted by the repository
// layer: films, users (utilisateurs) and ratings (notations). The structs
// mirror the database tables column for column. Validation predicates are
// pure functions; they never touch the database, so checks that need
// current persisted state (mail uniqueness, foreign keys) live in the
// repository layer instead.
package model

import (
	"strings"
	"time"
)

// DefaultPays is applied when a user is created without a country.
const DefaultPays = "France"

// Utilisateur mirrors the t_e_utilisateur_utl table. Optional columns are
// pointers so that NULL survives a round trip. Pwd is an opaque credential
// string; this service neither hashes nor verifies it.
//
// DateCreation and RowVersion are store-assigned: the creation timestamp is
// set once by the database and never updated, and RowVersion increments on
// every successful update to detect concurrent writers.
type Utilisateur struct {
	UtilisateurID int64     `json:"utilisateur_id"` // utl_id
	Nom           *string   `json:"nom"`            // utl_nom
	Prenom        *string   `json:"prenom"`         // utl_prenom
	Mobile        *string   `json:"mobile"`         // utl_mobile (fixed 10 chars)
	Mail          string    `json:"mail"`           // utl_mail (unique)
	Pwd           string    `json:"pwd"`            // utl_pwd (opaque)
	Rue           *string   `json:"rue"`            // utl_rue
	CodePostal    *string   `json:"code_postal"`    // utl_cp (fixed 5 chars)
	Ville         *string   `json:"ville"`          // utl_ville
	Pays          string    `json:"pays"`           // utl_pays (defaults to "France")
	Latitude      *float32  `json:"latitude"`       // utl_latitude
	Longitude     *float32  `json:"longitude"`      // utl_longitude
	DateCreation  time.Time `json:"date_creation"`  // utl_datecreation (set once on insert)
	RowVersion    int64     `json:"row_version"`    // optimistic concurrency token
}

// NormalizeMail trims and lower-cases a mail address. All repository
// lookups and writes go through this so that duplicate detection is
// case-insensitive regardless of column collation.
func NormalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

// ApplyDefaults fills in values the caller may omit. DateCreation is
// deliberately not set here; the database assigns it at insert time.
func (u *Utilisateur) ApplyDefaults() {
	u.Mail = NormalizeMail(u.Mail)
	if strings.TrimSpace(u.Pays) == "" {
		u.Pays = DefaultPays
	}
}

// Validate checks the field-level invariants that do not depend on
// persisted state. It returns a *ValidationError describing the first
// offending field, or nil.
func (u *Utilisateur) Validate() error {
	if strings.TrimSpace(u.Mail) == "" {
		return &ValidationError{Field: "mail", Reason: "required"}
	}
	if len(u.Mail) > 100 {
		return &ValidationError{Field: "mail", Reason: "longer than 100 characters"}
	}
	if u.Pwd == "" {
		return &ValidationError{Field: "pwd", Reason: "required"}
	}
	if len(u.Pwd) > 64 {
		return &ValidationError{Field: "pwd", Reason: "longer than 64 characters"}
	}
	if u.Nom != nil && len(*u.Nom) > 50 {
		return &ValidationError{Field: "nom", Reason: "longer than 50 characters"}
	}
	if u.Prenom != nil && len(*u.Prenom) > 50 {
		return &ValidationError{Field: "prenom", Reason: "longer than 50 characters"}
	}
	if u.Mobile != nil && len(*u.Mobile) != 10 {
		return &ValidationError{Field: "mobile", Reason: "must be exactly 10 characters"}
	}
	if u.Rue != nil && len(*u.Rue) > 200 {
		return &ValidationError{Field: "rue", Reason: "longer than 200 characters"}
	}
	if u.CodePostal != nil && len(*u.CodePostal) != 5 {
		return &ValidationError{Field: "code_postal", Reason: "must be exactly 5 characters"}
	}
	if u.Ville != nil && len(*u.Ville) > 50 {
		return &ValidationError{Field: "ville", Reason: "longer than 50 characters"}
	}
	if len(u.Pays) > 50 {
		return &ValidationError{Field: "pays", Reason: "longer than 50 characters"}
	}
	return nil
}
