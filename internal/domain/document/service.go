package document

import "context"

type DocumentService interface {
	Submit(ctx context.Context, req SubmitDocumentRequest) (DocumentRequestResponse, error)
	Get(ctx context.Context, id string) (DocumentRequestResponse, error)
	ListMine(ctx context.Context, filter ListFilter) (ListDocumentRequestsResponse, error)
	ListAssigned(ctx context.Context, filter ListFilter) (ListDocumentRequestsResponse, error)
	ListAll(ctx context.Context, filter ListFilter) (ListDocumentRequestsResponse, error)
	Review(ctx context.Context, req ReviewRequest) (DocumentRequestResponse, error)
	Cancel(ctx context.Context, id string) (DocumentRequestResponse, error)
}
