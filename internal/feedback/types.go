package feedback

import (
	"strings"
	"time"
)

// MaxRating is the highest star rating.
const MaxRating = 5

const (
	filledStar = "★"
	emptyStar  = "☆"
)

// Entry is one submitted comment.
type Entry struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Stars returns the entry's rating as a fixed-width bar.
func (e Entry) Stars() string { return Stars(e.Rating) }

// Stars renders rating as MaxRating glyphs: rating filled stars followed by
// empty ones. Out-of-range ratings are clamped.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat(filledStar, rating) + strings.Repeat(emptyStar, MaxRating-rating)
}
