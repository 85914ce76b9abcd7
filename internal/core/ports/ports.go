package ports

import (
	"context"
	"net/http"

	"github.com/parelius/plinth/internal/core/domain"
)

// ContextRewriter corrects a request scope's view of its mount point and
// origin. Implementations must mutate the scope in place, never fail, and be
// safe for concurrent use across requests.
type ContextRewriter interface {
	Rewrite(scope *domain.RequestScope)
}

// UpstreamService forwards a corrected request to the application server
type UpstreamService interface {
	Forward(w http.ResponseWriter, r *http.Request, scope *domain.RequestScope)
	Target() string
	CheckHealth(ctx context.Context) error
}
