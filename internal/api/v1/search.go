package v1

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/http/request"
	"github.com/Xunop/book-manager/internal/http/response"
	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/search"
)

var errNotXHR = errors.New("search accepts AJAX requests only")

// searchBooks answers the search box of every page.
func (h *Handler) searchBooks(w http.ResponseWriter, r *http.Request) {
	if !request.IsXHR(r) {
		response.BadRequest(w, r, errNotXHR)
		return
	}

	hits, err := h.search.Interactive(r.Context(), request.QueryStringParam(r, "q", ""))
	if err != nil {
		log.Error("Interactive search failed", zap.String("client_ip", request.ClientIP(r)), zap.Error(err))
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	response.OK(w, r, hits)
}
