package models

// Movie is the canonical, normalized form of a movie record used by
// the store, query engine, scorer and API handlers.
//
// Every external source is mapped into this structure first (see
// internal/catalog), then downstream code only deals with this shape.
type Movie struct {
	ID          string   `json:"id"`                    // canonical ID, always non-empty
	Title       string   `json:"title"`                 // "Untitled" when the source had none
	Year        int      `json:"year,omitempty"`        // release year, 0 when unknown
	Director    string   `json:"director,omitempty"`    // primary director
	Genre       []string `json:"genre"`                 // normalized genre list, never nil
	Rating      float64  `json:"rating"`                // server-aggregate rating, 0 when unknown
	Description string   `json:"description,omitempty"` // synopsis
	Cast        []string `json:"cast"`                  // normalized cast list, never nil
	Duration    string   `json:"duration,omitempty"`    // e.g. "148 min"
	Country     string   `json:"country,omitempty"`
	Language    string   `json:"language,omitempty"`
	Poster      string   `json:"poster,omitempty"` // poster URL (placeholder when missing)
}

// Raw converts a canonical movie back into its wire shape. Feeding the
// result through normalization yields the same movie again.
func (m Movie) Raw() RawMovie {
	return RawMovie{
		ID:          FlexID(m.ID),
		Title:       m.Title,
		Year:        FlexInt(m.Year),
		Director:    m.Director,
		Genre:       StringList(m.Genre),
		Rating:      m.Rating,
		Description: m.Description,
		Cast:        StringList(m.Cast),
		Duration:    m.Duration,
		Country:     m.Country,
		Language:    m.Language,
		Poster:      m.Poster,
	}
}
