package ingest

import (
	"context"
	"errors"
	"net/http"

	"github.com/AngelCh415/sales-analytics/internal/utils"
)

// FetchWithRetry downloads url, retrying transport errors and 5xx/429
// answers with exponential backoff. Other 4xx answers fail at once.
func FetchWithRetry(ctx context.Context, c HTTPClient, url string, b utils.Backoff, limit int64) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(int) error {
		got, err := getBody(ctx, c, url, limit)
		if errors.Is(err, ErrTooLarge) {
			return utils.Permanent(err)
		}
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code < 500 && se.Code != http.StatusTooManyRequests {
				return utils.Permanent(err)
			}
			return err
		}
		body = got
		return nil
	})
	return body, err
}
