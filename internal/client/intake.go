package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"

	"github.com/imroc/req/v3"
)

var (
	ErrUnsupportedFormat = errors.New("document format is not supported")
	ErrProcessingTimeout = errors.New("document processing timed out")
)

// Intake talks to the document-processing service that extracts page
// and word counts from an uploaded file. Parsing itself lives entirely
// on the other side; this client only consumes the resulting facts.
type Intake struct {
	req *req.Client
}

func NewIntake(baseURL string, timeout time.Duration) *Intake {
	return &Intake{
		req: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

// Inspect fetches the page and word counts for an uploaded document.
// Unsupported files map to ErrUnsupportedFormat, slow processing to
// ErrProcessingTimeout; both block order creation and are surfaced to
// the caller for a user-initiated retry.
func (c *Intake) Inspect(ctx context.Context, documentRef string) (entities.DocumentFacts, error) {
	respBody := struct {
		PageCount int `json:"page_count"`
		WordCount int `json:"word_count"`
	}{}
	resp, err := c.req.R().
		SetContext(ctx).
		SetSuccessResult(&respBody).
		SetPathParam("ref", documentRef).
		Get("/api/documents/{ref}/facts")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return entities.DocumentFacts{}, ErrProcessingTimeout
		}
		return entities.DocumentFacts{}, err
	}

	switch resp.StatusCode {
	case http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return entities.DocumentFacts{}, ErrUnsupportedFormat
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return entities.DocumentFacts{}, ErrProcessingTimeout
	}

	if resp.IsErrorState() {
		return entities.DocumentFacts{}, fmt.Errorf("intake service responded with status code %d", resp.StatusCode)
	}

	return entities.DocumentFacts{
		PageCount: respBody.PageCount,
		WordCount: respBody.WordCount,
	}, nil
}
