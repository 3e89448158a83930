package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/currently-core/internal/audit"
)

// handleListActivity returns a page of the caller's activity log, newest
// first. Query parameters: resource, action, limit, offset.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	if s.activity == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "activity log is not enabled")
		return
	}

	q := r.URL.Query()
	f := audit.Filter{
		UserID:   userIDFrom(r.Context()),
		Resource: q.Get("resource"),
		Action:   q.Get("action"),
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "invalid "+name)
			return
		}
		*dst = n
	}

	page, err := s.activity.List(r.Context(), f)
	if err != nil {
		s.logger.Error("listing activity failed", "error", err)
		writeInternalError(w, "failed to list activity")
		return
	}
	writeJSON(w, http.StatusOK, page)
}
