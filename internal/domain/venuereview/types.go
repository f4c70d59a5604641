package venuereviews

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrReviewNotFound = errors.New("review not found")

// Review is one user's verdict on a venue, optionally for a specific game.
// At most one exists per (venue, user, game).
type Review struct {
	ID            uuid.UUID  `json:"id"`
	VenueID       uuid.UUID  `json:"venue_id"`
	UserID        uuid.UUID  `json:"user_id"`
	GameID        *uuid.UUID `json:"game_id,omitempty"`
	OverallRating int        `json:"overall_rating"` // 1-5
	FoodRating    *int       `json:"food_rating,omitempty"`
	DrinkRating   *int       `json:"drink_rating,omitempty"`
	ValueRating   *int       `json:"value_rating,omitempty"`
	TVCount       *int       `json:"tv_count,omitempty"`
	SoundOn       *bool      `json:"sound_on,omitempty"`
	ShowedGame    *bool      `json:"showed_game,omitempty"`
	Comment       *string    `json:"comment,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Joined fields
	UserName string `json:"user_name,omitempty"`
}
