package ports

import "context"

// StoredResponse contains the response data to replay for a reused key.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	ReceiptID  string
}

// IdempotencyStore lets callers retry receipt submissions safely: a reused
// key replays the original response instead of ingesting a second receipt.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}
