package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawMovie is a movie record as delivered by an external data source,
// before normalization. Sources disagree on almost everything: the id
// may live under "id", "_id" or "movieId" and arrive as a number or a
// string; genre and cast may be arrays or comma-separated strings;
// most fields may simply be missing.
type RawMovie struct {
	ID          FlexID     `json:"id,omitempty"`
	MongoID     FlexID     `json:"_id,omitempty"`
	MovieID     FlexID     `json:"movieId,omitempty"`
	Title       string     `json:"title,omitempty"`
	Year        FlexInt    `json:"year,omitempty"`
	Director    string     `json:"director,omitempty"`
	Genre       StringList `json:"genre,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Description string     `json:"description,omitempty"`
	Cast        StringList `json:"cast,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Country     string     `json:"country,omitempty"`
	Language    string     `json:"language,omitempty"`
	Poster      string     `json:"poster,omitempty"`
}

// FlexID is an identifier that may arrive as a JSON string or number.
// Numbers are kept in their decimal form so "42" and 42 compare equal
// after normalization.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// FlexInt is an integer that may arrive as a JSON number, a numeric
// string, or an empty string (treated as absent).
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

// StringList is a list that may arrive as a JSON array of strings or
// as a single comma-separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// SplitList splits a comma-separated string into trimmed elements,
// dropping empty segments. Order is preserved and duplicates are kept.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
