package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	rlerrs "github.com/jharlow/reelist/internal/errors"
	"github.com/jharlow/reelist/internal/reelist"
)

const (
	movieNamespace   = "-mov"
	showNamespace    = "-shw"
	episodeNamespace = "-epi"
)

type movieRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Genres      string         `db:"genres"`
	ReleaseDate int64          `db:"release_date"`
	Director    sql.NullString `db:"director"`
	Actors      string         `db:"actors"`
}

type showRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Genres      string `db:"genres"`
}

type episodeRow struct {
	ID          string         `db:"id"`
	ShowID      string         `db:"show_id"`
	Season      int            `db:"season"`
	Episode     int            `db:"episode"`
	ReleaseDate int64          `db:"release_date"`
	Director    sql.NullString `db:"director"`
	Actors      string         `db:"actors"`
}

// ResolveContent produces the snapshot that gets denormalized onto a
// list entry. Movies carry everything themselves. A show derives its
// release date and director from the first episode in (season, episode)
// order, and its cast is the union of every episode's cast, deduplicated
// in order of first appearance.
func (r Repo) ResolveContent(ctx context.Context, contentID string, contentType reelist.ContentType) (reelist.ContentSnapshot, error) {
	switch contentType {
	case reelist.ContentTypeMovie:
		return r.movieSnapshot(ctx, contentID)
	case reelist.ContentTypeTVShow:
		return r.showSnapshot(ctx, contentID)
	}

	return reelist.ContentSnapshot{}, rlerrs.E(rlerrs.KindBadRequest, fmt.Sprintf("unknown content type %q", contentType))
}

func (r Repo) movieSnapshot(ctx context.Context, id string) (reelist.ContentSnapshot, error) {
	const q = `SELECT * FROM movies WHERE id = ?;`

	var row movieRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return reelist.ContentSnapshot{}, rlerrs.E(rlerrs.KindNotFound, "movie not found")
	}
	if err != nil {
		return reelist.ContentSnapshot{}, fmt.Errorf("error selecting movie: %w", err)
	}

	genres, err := decodeStrings(row.Genres)
	if err != nil {
		return reelist.ContentSnapshot{}, err
	}
	actors, err := decodeStrings(row.Actors)
	if err != nil {
		return reelist.ContentSnapshot{}, err
	}

	return reelist.ContentSnapshot{
		Title:       row.Title,
		Description: row.Description,
		Genres:      genres,
		ReleaseDate: fromNanos(row.ReleaseDate),
		Director:    row.Director.String,
		Actors:      actors,
	}, nil
}

func (r Repo) showSnapshot(ctx context.Context, id string) (reelist.ContentSnapshot, error) {
	const q = `SELECT * FROM shows WHERE id = ?;`

	var row showRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return reelist.ContentSnapshot{}, rlerrs.E(rlerrs.KindNotFound, "tv-show not found")
	}
	if err != nil {
		return reelist.ContentSnapshot{}, fmt.Errorf("error selecting show: %w", err)
	}

	genres, err := decodeStrings(row.Genres)
	if err != nil {
		return reelist.ContentSnapshot{}, err
	}

	const epq = `SELECT * FROM episodes WHERE show_id = ? ORDER BY season ASC, episode ASC;`

	var episodes []episodeRow
	if err := r.db.SelectContext(ctx, &episodes, epq, id); err != nil {
		return reelist.ContentSnapshot{}, fmt.Errorf("error selecting episodes: %w", err)
	}

	snap := reelist.ContentSnapshot{
		Title:       row.Title,
		Description: row.Description,
		Genres:      genres,
		Actors:      []string{},
	}
	if len(episodes) > 0 {
		snap.ReleaseDate = fromNanos(episodes[0].ReleaseDate)
		snap.Director = episodes[0].Director.String
	}

	seen := make(map[string]bool)
	for _, ep := range episodes {
		cast, err := decodeStrings(ep.Actors)
		if err != nil {
			return reelist.ContentSnapshot{}, err
		}
		for _, actor := range cast {
			if seen[actor] {
				continue
			}
			seen[actor] = true
			snap.Actors = append(snap.Actors, actor)
		}
	}

	return snap, nil
}

func (r Repo) InsertMovie(ctx context.Context, m reelist.Movie) (reelist.Movie, error) {
	const q = `INSERT INTO movies (id, title, description, genres, release_date, director, actors)
	VALUES (:id, :title, :description, :genres, :release_date, :director, :actors);`

	m.ID = uuid.NewString() + movieNamespace
	genres, err := json.Marshal(orEmpty(m.Genres))
	if err != nil {
		return reelist.Movie{}, fmt.Errorf("error encoding genres: %w", err)
	}
	actors, err := json.Marshal(orEmpty(m.Actors))
	if err != nil {
		return reelist.Movie{}, fmt.Errorf("error encoding actors: %w", err)
	}

	row := movieRow{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genres:      string(genres),
		ReleaseDate: toNanos(m.ReleaseDate),
		Director:    sql.NullString{String: m.Director, Valid: m.Director != ""},
		Actors:      string(actors),
	}
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return reelist.Movie{}, fmt.Errorf("error inserting movie: %w", err)
	}

	return m, nil
}

func (r Repo) InsertShow(ctx context.Context, s reelist.Show) (reelist.Show, error) {
	const q = `INSERT INTO shows (id, title, description, genres)
	VALUES (:id, :title, :description, :genres);`

	s.ID = uuid.NewString() + showNamespace
	genres, err := json.Marshal(orEmpty(s.Genres))
	if err != nil {
		return reelist.Show{}, fmt.Errorf("error encoding genres: %w", err)
	}

	row := showRow{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Genres:      string(genres),
	}
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return reelist.Show{}, fmt.Errorf("error inserting show: %w", err)
	}

	return s, nil
}

func (r Repo) InsertEpisode(ctx context.Context, e reelist.Episode) (reelist.Episode, error) {
	const q = `INSERT INTO episodes (id, show_id, season, episode, release_date, director, actors)
	VALUES (:id, :show_id, :season, :episode, :release_date, :director, :actors);`

	e.ID = uuid.NewString() + episodeNamespace
	actors, err := json.Marshal(orEmpty(e.Actors))
	if err != nil {
		return reelist.Episode{}, fmt.Errorf("error encoding actors: %w", err)
	}

	row := episodeRow{
		ID:          e.ID,
		ShowID:      e.ShowID,
		Season:      e.Season,
		Episode:     e.Episode,
		ReleaseDate: toNanos(e.ReleaseDate),
		Director:    sql.NullString{String: e.Director, Valid: e.Director != ""},
		Actors:      string(actors),
	}
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return reelist.Episode{}, fmt.Errorf("error inserting episode: %w", err)
	}

	return e, nil
}

func decodeStrings(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("error decoding string list: %w", err)
	}

	return out, nil
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
