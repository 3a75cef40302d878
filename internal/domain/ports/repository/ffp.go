package repository

import (
	"context"

	"ladder-analytics/internal/domain/model"
)

// FFPRepository loads the Free Financial Plan reference tables. These are
// small dimension tables; callers fetch everything and filter in memory.
type FFPRepository interface {
	Submissions(ctx context.Context) ([]model.FFPSubmission, error)
	Reviews(ctx context.Context) ([]model.FFPReview, error)
}
