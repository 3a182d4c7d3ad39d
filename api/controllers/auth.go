package controllers

import (
	"net/http"
	"time"

	"github.com/hayyerp/pos-backend/api/responses"
	"github.com/hayyerp/pos-backend/api/validators"
	"github.com/hayyerp/pos-backend/internal/users"
	pkgAuth "github.com/hayyerp/pos-backend/pkg/auth"
	"github.com/hayyerp/pos-backend/pkg/config"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}

// AuthLogin verifies credentials and issues a signed access token.
func AuthLogin(svc users.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Authenticate(r.Context(), body.Username, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), user.ID, user.Username, user.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{AccessToken: token, User: users.FromModel(user)})
	}
}
