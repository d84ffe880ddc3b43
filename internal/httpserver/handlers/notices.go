package handlers

import (
	"net/http"

	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/httpserver/deps"
)

type noticeListResponse struct {
	Notices []domain.Notice `json:"notices"`
}

// ListNotices returns visible notices, newest first.
func ListNotices(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices, err := d.Notices.Visible(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, noticeListResponse{Notices: notices})
	}
}
