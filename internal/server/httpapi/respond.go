package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/fyndrai/fyndr/internal/common"
	"github.com/fyndrai/fyndr/internal/server/users"
)

const (
	detailBadCredentials = "No active account found with the given credentials"
	detailTokenInvalid   = "Given token not valid for any token type"
	detailRefreshInvalid = "Token is invalid or expired"
	detailNoCredentials  = "Authentication credentials were not provided."
	detailServerError    = "A server error occurred."
	codeTokenNotValid    = "token_not_valid"
)

func writeDetail(w http.ResponseWriter, status int, detail, code string) {
	body := map[string]string{"detail": detail}
	if code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

// writeError renders err the way the production backend does: field errors as
// {"field": ["msg"]}, everything else as {"detail": "..."}.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *users.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, detailBadCredentials, "")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeDetail(w, http.StatusUnauthorized, detailRefreshInvalid, codeTokenNotValid)
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		writeDetail(w, http.StatusUnauthorized, detailTokenInvalid, codeTokenNotValid)
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.", "")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, detailServerError, "")
	}
}
