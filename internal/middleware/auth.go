package middleware

import (
	"strings"

	"github.com/loyalx-lab/backend/internal/model"
	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/jwt"
	"github.com/loyalx-lab/backend/pkg/router"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

// Authenticate resolves the access token to a user id on the context. It
// accepts a Bearer authorization header or the access token cookie.
func Authenticate(verifier *jwt.Verifier[model.AccessToken]) router.MiddlewareFunc {
	return func(ctx xcontext.Context) error {
		token := accessToken(ctx)
		if token == "" {
			return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := verifier.Verify(token)
		if err != nil {
			return errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		xcontext.SetRequestUserID(ctx, info.ID)
		return nil
	}
}

func accessToken(ctx xcontext.Context) string {
	authorization := ctx.Request().Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	cookie, err := ctx.Request().Cookie(ctx.Configs().Auth.AccessTokenName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
