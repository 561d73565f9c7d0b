package catalog

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

const (
	MinScore = 1
	MaxScore = 5
)

var ErrInvalidScore = errors.New("rating must be between 1 and 5")

// AverageRating is the mean score of b, or 0 when it has no ratings.
func AverageRating(b models.Book) float64 {
	if len(b.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range b.Ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(b.Ratings))
}

// UserRating returns the score userID gave b, or 0.
func UserRating(b models.Book, userID string) int {
	for _, r := range b.Ratings {
		if r.UserID == userID {
			return r.Score
		}
	}
	return 0
}

// UpsertRating returns a copy of ratings in which userID has exactly one
// rating with the given score. An existing rating keeps its position.
func UpsertRating(ratings []models.Rating, userID string, score int, now time.Time) ([]models.Rating, error) {
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}
	r := models.Rating{UserID: userID, Score: score, Timestamp: now}

	out := make([]models.Rating, 0, len(ratings)+1)
	replaced := false
	for _, old := range ratings {
		if old.UserID != userID {
			out = append(out, old)
			continue
		}
		if !replaced {
			out = append(out, r)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, r)
	}
	return out, nil
}
