package middleware

import (
	"errors"
	"fmt"

	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/router"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx xcontext.Context) {
		info := fmt.Sprintf("%s | %s", ctx.Request().Method, ctx.Request().URL.Path)
		if err := xcontext.GetError(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				ctx.Logger().Warnf("%s | %d", info, errx.Code)
			} else {
				ctx.Logger().Errorf("%s | %d", info, -1)
			}
		} else {
			ctx.Logger().Infof(info)
		}
	}
}
