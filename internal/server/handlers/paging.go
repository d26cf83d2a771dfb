package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/iudanet/rulekeeper/internal/server/storage"
)

const (
	// DefaultPageSize используется, если ps не задан
	DefaultPageSize = 100
	// MaxPageSize максимальный ps, который принимает сервер
	MaxPageSize = 500
)

// parsePage reads ps (page size) and p (1-based page index) from the query
func parsePage(r *http.Request) (storage.Page, error) {
	page := storage.Page{Index: 1, Size: DefaultPageSize}
	q := r.URL.Query()

	if ps := q.Get("ps"); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n < 1 || n > MaxPageSize {
			return storage.Page{}, fmt.Errorf("%w: 'ps' must be between 1 and %d", ErrInvalidPaging, MaxPageSize)
		}
		page.Size = n
	}

	if p := q.Get("p"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return storage.Page{}, fmt.Errorf("%w: 'p' must be a positive integer", ErrInvalidPaging)
		}
		page.Index = n
	}

	return page, nil
}
