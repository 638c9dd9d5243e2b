// Package queue defines the message payloads exchanged over the broker and
// the background consumer that drains them.
package queue

// RatingRecordedEvent is published after a notation is created or updated.
// It carries enough for downstream consumers to log or aggregate without
// querying the primary database.
type RatingRecordedEvent struct {
	UtilisateurID int64  `json:"utilisateur_id"`
	FilmID        int64  `json:"film_id"`
	Note          int    `json:"note"`
	Action        string `json:"action"` // "created" or "updated"
	RecordedAt    string `json:"recorded_at"`
}
