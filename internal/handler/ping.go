package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

type pingResponse struct {
	Okay bool `json:"okay"`
}

// HandlePing handles GET /_ping. It reports whether the database answers on
// the request's leased connection.
func HandlePing(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope) error {
	okay := true

	conn, err := sc.Conn(r.Context())
	if err == nil {
		var one int
		err = conn.QueryRowContext(r.Context(), `SELECT 1`).Scan(&one)
	}
	if err != nil {
		sc.Log().Warn("ping failed", zap.Error(err))
		okay = false
	}

	return writeJSON(w, http.StatusOK, pingResponse{Okay: okay})
}
