package document

import (
	"context"
	"time"
)

type DocumentRepository interface {
	Create(ctx context.Context, d DocumentRequest) (DocumentRequest, error)
	GetByID(ctx context.Context, id string) (DocumentRequest, error)
	List(ctx context.Context, filter ListFilter) ([]DocumentRequest, int64, error)
	Transition(ctx context.Context, id string, status RequestStatus, reviewerID *string, note *string, at time.Time) (DocumentRequest, error)
}
