package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// --- Upstream item shapes ---

// RawFlash is the item shape as sampled from the upstream page state.
// All fields are optional on the wire; the fallback order between them is
// encoded in the classifier, not in ad hoc lookups.
type RawFlash struct {
	ID              string        `json:"id"`
	Time            string        `json:"time"`
	Type            int           `json:"type"`
	VIP             int           `json:"vip"`
	Important       int           `json:"important"`
	Title           string        `json:"title"`
	DisplayDatetime string        `json:"display_datetime"`
	Channel         []int         `json:"channel"`
	Data            *RawFlashData `json:"data"`
}

// RawFlashData is the nested payload of a raw flash item.
type RawFlashData struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Lock     TruthyFlag `json:"lock"`
	VIPLevel int       `json:"vip_level"`
}

// TruthyFlag decodes upstream fields that may arrive as a bool, a number or a
// string but only ever matter as "set or not".
type TruthyFlag bool

func (f *TruthyFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = false
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")):
		*f = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = s != "" && s != "0" && s != "false"
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}

// --- Canonical types ---

// FlashRecord is the canonical news item. Created once by the classifier,
// immutable thereafter. The external id is internal bookkeeping and never
// serialized to clients.
type FlashRecord struct {
	ID        string `json:"-"`
	Time      string `json:"time"`
	Important bool   `json:"important"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Channels  []int  `json:"channel,omitempty"`
}

// InChannel reports whether the record is tagged with the given channel id.
func (r FlashRecord) InChannel(id int) bool {
	for _, c := range r.Channels {
		if c == id {
			return true
		}
	}
	return false
}

// TopListEntry references a flash record by external id. The reference is a
// weak lookup key: the record may or may not still be in the ring buffer.
// All fields are scalar so top lists compare with slices.Equal.
type TopListEntry struct {
	FlashID     string `json:"flash_id"`
	Title       string `json:"title"`
	DisplayTime string `json:"display_time"`
}

// Category is one node of the upstream classification tree. The tree is
// replaced wholesale on change, never merged.
type Category struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	IsNew TruthyFlag `json:"isNew,omitempty"`
	Child []Category `json:"child,omitempty"`
}

// RawSnapshot is one poll's view of the upstream page state. It is diffed
// against the previous poll and then discarded.
type RawSnapshot struct {
	TopList    []TopListEntry    `json:"topList"`
	Flashes    []json.RawMessage `json:"flashs"`
	Categories []Category        `json:"classifyList"`
}

// --- Flexible numeric offset ---

// UTCOffset decodes a timezone offset that may arrive as a number or a string.
type UTCOffset float64

func (o *UTCOffset) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*o = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*o = UTCOffset(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = UTCOffset(v)
	return nil
}
