package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	rlerrs "github.com/jharlow/reelist/internal/errors"
	"github.com/jharlow/reelist/internal/reelist"
)

// listEntryRow is the storage shape of a list entry. Timestamps are unix
// nanoseconds so the canonical (added_at DESC, id DESC) order and the
// keyset comparisons stay exact; genres and actors are JSON arrays.
type listEntryRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	ContentID   string         `db:"content_id"`
	ContentType string         `db:"content_type"`
	AddedAt     int64          `db:"added_at"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Genres      string         `db:"genres"`
	ReleaseDate int64          `db:"release_date"`
	Director    sql.NullString `db:"director"`
	Actors      string         `db:"actors"`
}

var listEntryColumns = []string{
	"id", "user_id", "content_id", "content_type", "added_at",
	"title", "description", "genres", "release_date", "director", "actors",
}

func toListEntryRow(e reelist.ListEntry) (listEntryRow, error) {
	genres, err := json.Marshal(orEmpty(e.Genres))
	if err != nil {
		return listEntryRow{}, fmt.Errorf("error encoding genres: %w", err)
	}
	actors, err := json.Marshal(orEmpty(e.Actors))
	if err != nil {
		return listEntryRow{}, fmt.Errorf("error encoding actors: %w", err)
	}

	return listEntryRow{
		ID:          e.ID,
		UserID:      e.UserID,
		ContentID:   e.ContentID,
		ContentType: string(e.ContentType),
		AddedAt:     e.AddedAt.UnixNano(),
		Title:       e.Title,
		Description: e.Description,
		Genres:      string(genres),
		ReleaseDate: toNanos(e.ReleaseDate),
		Director:    sql.NullString{String: e.Director, Valid: e.Director != ""},
		Actors:      string(actors),
	}, nil
}

func fromListEntryRow(r listEntryRow) (reelist.ListEntry, error) {
	var genres, actors []string
	if err := json.Unmarshal([]byte(r.Genres), &genres); err != nil {
		return reelist.ListEntry{}, fmt.Errorf("error decoding genres: %w", err)
	}
	if err := json.Unmarshal([]byte(r.Actors), &actors); err != nil {
		return reelist.ListEntry{}, fmt.Errorf("error decoding actors: %w", err)
	}

	return reelist.ListEntry{
		ID:          r.ID,
		UserID:      r.UserID,
		ContentID:   r.ContentID,
		ContentType: reelist.ContentType(r.ContentType),
		AddedAt:     time.Unix(0, r.AddedAt).UTC(),
		Title:       r.Title,
		Description: r.Description,
		Genres:      genres,
		ReleaseDate: fromNanos(r.ReleaseDate),
		Director:    r.Director.String,
		Actors:      actors,
	}, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r Repo) InsertEntry(ctx context.Context, entry reelist.ListEntry) error {
	const q = `INSERT INTO list_entries (
		id, user_id, content_id, content_type, added_at,
		title, description, genres, release_date, director, actors
	) VALUES (
		:id, :user_id, :content_id, :content_type, :added_at,
		:title, :description, :genres, :release_date, :director, :actors
	);`

	row, err := toListEntryRow(entry)
	if err != nil {
		return err
	}

	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return rlerrs.E(rlerrs.KindConflict, "item already in list")
		}
		return fmt.Errorf("error inserting list entry: %w", err)
	}

	return nil
}

func (r Repo) DeleteEntry(ctx context.Context, userID string, contentID string) error {
	const q = `DELETE FROM list_entries WHERE user_id = ? AND content_id = ?;`

	res, err := r.db.ExecContext(ctx, q, userID, contentID)
	if err != nil {
		return fmt.Errorf("error deleting list entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return rlerrs.E(rlerrs.KindNotFound, "item not in list")
	}

	return nil
}

func (r Repo) EntryByContent(ctx context.Context, userID string, contentID string) (reelist.ListEntry, error) {
	const q = `SELECT * FROM list_entries WHERE user_id = ? AND content_id = ?;`

	var row listEntryRow
	err := r.db.GetContext(ctx, &row, q, userID, contentID)
	if errors.Is(err, sql.ErrNoRows) {
		return reelist.ListEntry{}, rlerrs.E(rlerrs.KindNotFound, "item not in list")
	}
	if err != nil {
		return reelist.ListEntry{}, fmt.Errorf("error selecting list entry: %w", err)
	}

	return fromListEntryRow(row)
}

// UserEntries returns a slice of a user's list in canonical order,
// either skip/take or filtered to strictly before a cursor position. A
// cursor without an id falls back to the timestamp alone, which can skip
// ties; that is the documented cost of legacy cursors.
func (r Repo) UserEntries(ctx context.Context, userID string, args reelist.UserEntriesArgs) ([]reelist.ListEntry, error) {
	q := sq.Select(listEntryColumns...).
		From("list_entries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("added_at DESC", "id DESC")

	if args.Before != nil {
		at := args.Before.AddedAt.UnixNano()
		if args.Before.ID == "" {
			q = q.Where(sq.Lt{"added_at": at})
		} else {
			q = q.Where(sq.Or{
				sq.Lt{"added_at": at},
				sq.And{
					sq.Eq{"added_at": at},
					sq.Lt{"id": args.Before.ID},
				},
			})
		}
	}
	if args.Limit > 0 {
		q = q.Limit(uint64(args.Limit))
	}
	if args.Offset > 0 {
		q = q.Offset(uint64(args.Offset))
	}

	query, queryArgs, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error generating SQL query: %w", err)
	}

	var rows []listEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, queryArgs...); err != nil {
		return nil, fmt.Errorf("error selecting user list entries: %w", err)
	}

	entries := make([]reelist.ListEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := fromListEntryRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r Repo) CountUserEntries(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM list_entries WHERE user_id = ?;`

	var count int
	if err := r.db.GetContext(ctx, &count, q, userID); err != nil {
		return 0, fmt.Errorf("error counting user list entries: %w", err)
	}

	return count, nil
}
