package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"notes-api/internals/models"
)

const dateLayout = "2006-01-02"

// NoteFilter restricts a note listing. Zero-valued fields impose nothing;
// supplied filters combine with logical AND.
type NoteFilter struct {
	// Query keeps notes whose title or body contains the substring.
	Query string
	// After and Before are inclusive bounds on the date component of the
	// note timestamp.
	After  *time.Time
	Before *time.Time
	// Tags keeps notes having at least one tag in the set.
	Tags []string
}

// CreateNote inserts a note and one tagged_note row per tag, preserving
// the caller's tag order without deduplication. Both inserts happen in a
// single transaction, so a note is never observable without its tags.
func (s *Store) CreateNote(ctx context.Context, userID int64, title, body string, tags []string) (*models.Note, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO notes (title, body, user_id) VALUES (?, ?, ?)",
		title, body, userID)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	noteID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("note id: %w", err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tagged_notes (tag, note_id) VALUES (?, ?)", tag, noteID); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.NoteByID(ctx, noteID)
}

// NoteByID returns a note with its tags, or ErrNotFound. Ownership is the
// caller's concern.
func (s *Store) NoteByID(ctx context.Context, noteID int64) (*models.Note, error) {
	var note models.Note
	err := s.db.GetContext(ctx, &note,
		"SELECT id, title, body, timestamp, user_id FROM notes WHERE id = ?", noteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select note: %w", err)
	}
	tags, err := s.loadTags(ctx, []int64{note.Id})
	if err != nil {
		return nil, err
	}
	note.Tags = tags[note.Id]
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return &note, nil
}

// ListNotes returns the user's notes matching the filter, most recent
// first. Equal timestamps are broken by id descending, so the latest
// insert still sorts first.
func (s *Store) ListNotes(ctx context.Context, userID int64, filter NoteFilter) ([]models.Note, error) {
	pred := sq.And{sq.Eq{"user_id": userID}}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		pred = append(pred, sq.Or{sq.Like{"title": like}, sq.Like{"body": like}})
	}
	if filter.After != nil {
		pred = append(pred, sq.Expr("date(timestamp) >= ?", filter.After.Format(dateLayout)))
	}
	if filter.Before != nil {
		pred = append(pred, sq.Expr("date(timestamp) <= ?", filter.Before.Format(dateLayout)))
	}
	if len(filter.Tags) > 0 {
		tagged := sq.Select("1").From("tagged_notes").
			Where("tagged_notes.note_id = notes.id").
			Where(sq.Eq{"tagged_notes.tag": filter.Tags})
		pred = append(pred, sq.Expr("EXISTS (?)", tagged))
	}

	query, args, err := sq.Select("id", "title", "body", "timestamp", "user_id").
		From("notes").
		Where(pred).
		OrderBy("timestamp DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	notes := []models.Note{}
	if err := s.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	if len(notes) == 0 {
		return notes, nil
	}

	ids := make([]int64, len(notes))
	for i, n := range notes {
		ids[i] = n.Id
	}
	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].Tags = tags[notes[i].Id]
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
	}
	return notes, nil
}

// DeleteNote removes a note and its tag rows in one transaction. Deleting
// an id that does not exist is a silent no-op.
func (s *Store) DeleteNote(ctx context.Context, noteID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM tagged_notes WHERE note_id = ?", noteID); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM notes WHERE id = ?", noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return tx.Commit()
}

// loadTags fetches the tag strings for the given note ids, grouped by
// note, in insertion order.
func (s *Store) loadTags(ctx context.Context, noteIDs []int64) (map[int64][]string, error) {
	query, args, err := sq.Select("note_id", "tag").
		From("tagged_notes").
		Where(sq.Eq{"note_id": noteIDs}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tag query: %w", err)
	}
	var rows []models.TaggedNote
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tags: %w", err)
	}
	tags := make(map[int64][]string, len(noteIDs))
	for _, row := range rows {
		tags[row.NoteId] = append(tags[row.NoteId], row.Tag)
	}
	return tags, nil
}
