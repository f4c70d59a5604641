package venuereviews

import (
	"context"
	"fmt"

	"rbar/internal/db"

	"github.com/google/uuid"
)

type Store interface {
	Upsert(ctx context.Context, review *Review) (created bool, err error)
	GetReviews(ctx context.Context, venueID uuid.UUID, limit, offset int) ([]Review, int, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{db: q}
}

// Upsert inserts the review or, when the user already reviewed this venue for
// the same game (or for no game), overwrites it in place.
func (r *Repository) Upsert(ctx context.Context, review *Review) (bool, error) {
	// xmax = 0 only for freshly inserted tuples
	query := `
        INSERT INTO reviews (
            venue_id, user_id, game_id, overall_rating,
            food_rating, drink_rating, value_rating,
            tv_count, sound_on, showed_game, comment
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (venue_id, user_id, game_id) DO UPDATE SET
            overall_rating = EXCLUDED.overall_rating,
            food_rating    = EXCLUDED.food_rating,
            drink_rating   = EXCLUDED.drink_rating,
            value_rating   = EXCLUDED.value_rating,
            tv_count       = EXCLUDED.tv_count,
            sound_on       = EXCLUDED.sound_on,
            showed_game    = EXCLUDED.showed_game,
            comment        = EXCLUDED.comment,
            updated_at     = NOW()
        RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
    `
	var inserted bool
	err := r.db.QueryRow(ctx, query,
		review.VenueID,
		review.UserID,
		review.GameID,
		review.OverallRating,
		review.FoodRating,
		review.DrinkRating,
		review.ValueRating,
		review.TVCount,
		review.SoundOn,
		review.ShowedGame,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert review: %w", err)
	}
	return inserted, nil
}

func (r *Repository) GetReviews(ctx context.Context, venueID uuid.UUID, limit, offset int) ([]Review, int, error) {
	query := `
        SELECT COUNT(*) OVER () AS total, vr.id, vr.venue_id, vr.user_id, vr.game_id, vr.overall_rating,
               vr.food_rating, vr.drink_rating, vr.value_rating,
               vr.tv_count, vr.sound_on, vr.showed_game, vr.comment,
               vr.created_at, vr.updated_at, u.name
        FROM reviews vr
        JOIN users u ON u.id = vr.user_id
        WHERE vr.venue_id = $1
        ORDER BY vr.created_at DESC, vr.id
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, venueID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	reviews := []Review{}
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&total,
			&review.ID,
			&review.VenueID,
			&review.UserID,
			&review.GameID,
			&review.OverallRating,
			&review.FoodRating,
			&review.DrinkRating,
			&review.ValueRating,
			&review.TVCount,
			&review.SoundOn,
			&review.ShowedGame,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.UserName,
		)
		if err != nil {
			return nil, 0, err
		}

		reviews = append(reviews, review)
	}
	return reviews, total, rows.Err()
}

func (r *Repository) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	query := `
        DELETE FROM reviews 
        WHERE id = $1 AND user_id = $2
    `
	result, err := r.db.Exec(ctx, query, reviewID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%s user_id=%s", ErrReviewNotFound, reviewID, userID)
	}
	return nil
}
