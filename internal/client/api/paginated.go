package api

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/iudanet/rulekeeper/internal/metrics"
	"github.com/iudanet/rulekeeper/internal/progress"
	"github.com/iudanet/rulekeeper/pkg/api"
)

const (
	// PageSize размер страницы постраничных запросов
	PageSize = 500

	// MaxPages поисковый индекс сервера не отдаёт страницы дальше 10000 элементов
	MaxPages = 20
)

// PageRequest describes a paginated search endpoint
type PageRequest[P, I any] struct {
	// Parse decodes one page body
	Parse func([]byte) (P, error)
	// Paging extracts paging metadata from a page
	Paging func(P) api.Paging
	// Items extracts the page items in server order
	Items func(P) []I

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// BasePath is the endpoint path with its own query, without ps and p
	BasePath string

	// LimitToTwentyPages stops after MaxPages pages
	LimitToTwentyPages bool
}

// GetPaginated reads pages 1, 2, ... of req.BasePath and hands every item to consume,
// in page order and then in order within the page. It stops after the page on which the
// number of consumed items reaches the reported total, or on an empty page.
// The first failing page aborts the read, as does an item rejected by consume; the
// rejection is reported as a decode failure of the page that carried the item.
func GetPaginated[P, I any](ctx context.Context, getter Getter, req PageRequest[P, I], consume func(I) error, pw *progress.Wrapper) error {
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := endpointOf(req.BasePath)

	consumed := 0
	for page := 1; ; page++ {
		path := pagePath(req.BasePath, page)

		body, err := getter.Get(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to get page %d: %w", page, err)
		}

		parsed, err := req.Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse page %d: %w", page, DecodeError(path, err))
		}
		req.Metrics.PageFetched(endpoint)

		items := req.Items(parsed)
		for _, item := range items {
			if err := consume(item); err != nil {
				return fmt.Errorf("failed to consume page %d: %w", page, DecodeError(path, err))
			}
		}
		consumed += len(items)

		total := req.Paging(parsed).Total
		pw.Set(fraction(consumed, total), "")

		if len(items) == 0 || consumed >= total {
			return nil
		}
		if req.LimitToTwentyPages && page >= MaxPages {
			logger.Warn("Limiting number of requested pages from server. Some elements might be missing",
				"endpoint", endpoint, "consumed", consumed, "total", total)
			return nil
		}
	}
}

func pagePath(basePath string, page int) string {
	path := AppendQuery(basePath, "ps", strconv.Itoa(PageSize))
	return AppendQuery(path, "p", strconv.Itoa(page))
}

func fraction(consumed, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(consumed) / float64(total)
}
