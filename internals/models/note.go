package models

import "time"

type Note struct {
	Id        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	UserId    int64     `db:"user_id" json:"user_id"`
	// Tags flattens the note's tagged_note rows into plain strings.
	Tags []string `db:"-" json:"tags"`
}

// TaggedNote is a single (note, tag) association row. Tag strings are
// free-form and may repeat across notes and within a note.
type TaggedNote struct {
	Id     int64  `db:"id" json:"id"`
	Tag    string `db:"tag" json:"tag"`
	NoteId int64  `db:"note_id" json:"note_id"`
}
