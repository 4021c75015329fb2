package reelist

import (
	"encoding/base64"
	"encoding/json"
	"time"

	rlerrs "github.com/jharlow/reelist/internal/errors"
)

// Cursor is a position in a user's canonical order: the (AddedAt, ID)
// pair of the last entry a page returned. It travels as an opaque
// base64(JSON) token.
//
// ID may be empty: older clients minted cursors without it. Those are
// still accepted, but the keyset filter then degrades to AddedAt alone
// and can skip entries that share the boundary timestamp.
type Cursor struct {
	AddedAt time.Time
	ID      string
}

type cursorWire struct {
	AddedAt string `json:"added_at"`
	ID      string `json:"id,omitempty"`
}

// EncodeCursor serializes a cursor into its opaque wire form.
func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(cursorWire{
		AddedAt: c.AddedAt.UTC().Format(time.RFC3339Nano),
		ID:      c.ID,
	})

	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCursor reverses EncodeCursor. Any malformed input, whether the
// base64 layer, the JSON layer, or the timestamp, comes back as a bad
// request.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, rlerrs.E(rlerrs.KindBadRequest, "invalid cursor format", err)
	}

	var w cursorWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Cursor{}, rlerrs.E(rlerrs.KindBadRequest, "invalid cursor format", err)
	}

	at, err := time.Parse(time.RFC3339Nano, w.AddedAt)
	if err != nil {
		return Cursor{}, rlerrs.E(rlerrs.KindBadRequest, "invalid cursor format", err)
	}

	return Cursor{AddedAt: at, ID: w.ID}, nil
}
