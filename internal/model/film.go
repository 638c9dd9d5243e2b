package model

import (
	"strings"
	"time"
)

// Film mirrors the t_e_film_flm table. Only the title is required; all
// other attributes are nullable. Duree is a runtime in minutes, capped at
// three digits by the schema.
type Film struct {
	FilmID     int64      `json:"film_id"`     // flm_id
	Titre      string     `json:"titre"`       // flm_titre
	Resume     *string    `json:"resume"`      // flm_resume
	DateSortie *time.Time `json:"date_sortie"` // flm_datesortie (date only)
	Duree      *int32     `json:"duree"`       // flm_duree (numeric(3,0))
	Genre      *string    `json:"genre"`       // flm_genre
	RowVersion int64      `json:"row_version"` // optimistic concurrency token
}

// Validate checks field-level invariants of a film record.
func (f *Film) Validate() error {
	if strings.TrimSpace(f.Titre) == "" {
		return &ValidationError{Field: "titre", Reason: "required"}
	}
	if len(f.Titre) > 100 {
		return &ValidationError{Field: "titre", Reason: "longer than 100 characters"}
	}
	if f.Duree != nil && (*f.Duree < 0 || *f.Duree > 999) {
		return &ValidationError{Field: "duree", Reason: "must fit in 3 digits"}
	}
	if f.Genre != nil && len(*f.Genre) > 30 {
		return &ValidationError{Field: "genre", Reason: "longer than 30 characters"}
	}
	return nil
}
