package model

// Note bounds enforced on every notation write, matching the ck_not_note
// check constraint.
const (
	NoteMin = 0
	NoteMax = 5
)

// Notation is a user's rating of a film. Its identity is the composite key
// (UtilisateurID, FilmID): a user rates a given film at most once, and
// re-rating is an update of the existing row. Both references are mandatory
// and immutable; re-pointing a rating means deleting and recreating it.
type Notation struct {
	UtilisateurID int64 `json:"utilisateur_id"` // utl_id
	FilmID        int64 `json:"film_id"`        // flm_id
	Note          int   `json:"note"`           // not_note, in [0,5]
	RowVersion    int64 `json:"row_version"`    // optimistic concurrency token
}

// NoteInRange reports whether a note value satisfies the 0..5 bound.
func NoteInRange(note int) bool {
	return note >= NoteMin && note <= NoteMax
}
