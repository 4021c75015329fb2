package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	rlerrs "github.com/jharlow/reelist/internal/errors"
	"github.com/jharlow/reelist/internal/reelist"
	"github.com/jharlow/reelist/internal/serverutil"
)

type PostListEntryReq struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
}

func validatePostListEntryReq(req PostListEntryReq) error {
	var details []rlerrs.Detail
	if req.ContentID == "" {
		details = append(details, rlerrs.Detail{Field: "content_id", Error: "is required"})
	}
	if !reelist.ContentType(req.ContentType).Valid() {
		details = append(details, rlerrs.Detail{Field: "content_type", Error: "must be movie or tv-show"})
	}
	if len(details) > 0 {
		return rlerrs.E("invalid request", rlerrs.KindBadRequest, details)
	}

	return nil
}

type ListEntryResp struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"`
	ContentType string    `json:"content_type"`
	AddedAt     time.Time `json:"added_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	ReleaseDate time.Time `json:"release_date"`
	Director    string    `json:"director,omitempty"`
	Actors      []string  `json:"actors"`
}

func apiListEntry(e reelist.ListEntry) ListEntryResp {
	return ListEntryResp{
		ID:          e.ID,
		ContentID:   e.ContentID,
		ContentType: string(e.ContentType),
		AddedAt:     e.AddedAt,
		Title:       e.Title,
		Description: e.Description,
		Genres:      e.Genres,
		ReleaseDate: e.ReleaseDate,
		Director:    e.Director,
		Actors:      e.Actors,
	}
}

func (s Server) postListEntry(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = mux.Vars(r)["userID"]
		body   PostListEntryReq
	)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return rlerrs.E(err, rlerrs.KindBadRequest)
	}
	if err := validatePostListEntryReq(body); err != nil {
		return err
	}

	entry, err := s.svc.AddEntry(ctx, userID, body.ContentID, reelist.ContentType(body.ContentType))
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, apiListEntry(entry))
}

func (s Server) deleteListEntry(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx  = r.Context()
		vars = mux.Vars(r)
	)
	if err := s.svc.RemoveEntry(ctx, vars["userID"], vars["contentID"]); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

type ListEntriesResp struct {
	Items      []ListEntryResp    `json:"items"`
	Pagination reelist.Pagination `json:"pagination"`
}

func (s Server) getListEntries(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = mux.Vars(r)["userID"]
	)

	params, err := parseListParams(r)
	if err != nil {
		return err
	}

	result, err := s.svc.ListEntries(ctx, userID, params)
	if err != nil {
		return err
	}

	items := make([]ListEntryResp, 0, len(result.Page.Items))
	for _, entry := range result.Page.Items {
		items = append(items, apiListEntry(entry))
	}

	cacheStatus := "MISS"
	if result.CacheHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("X-Cache", cacheStatus)

	return serverutil.WriteJSON(w, http.StatusOK, ListEntriesResp{
		Items:      items,
		Pagination: result.Page.Pagination,
	})
}
