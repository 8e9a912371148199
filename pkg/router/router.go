package router

import (
	"net/http"

	"github.com/loyalx-lab/backend/config"
	"github.com/loyalx-lab/backend/pkg/logger"
	"github.com/loyalx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx xcontext.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. A non-nil error aborts the request
// and becomes the response.
type MiddlewareFunc func(ctx xcontext.Context) error

// CloserFunc runs after the handler, whether it succeeded or not.
type CloserFunc func(ctx xcontext.Context)

type Router struct {
	mux *http.ServeMux

	db      *gorm.DB
	cfg     config.Configs
	logger  logger.Logger
	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Branch returns a router sharing this router's mux but with an independent
// middleware chain seeded from the current one.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		db:      r.db,
		cfg:     r.cfg,
		logger:  r.logger,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodPost, pattern, handler)
}

func register[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc{}, r.befores...)
	closers := append([]CloserFunc{}, r.closers...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.NewContext(req.Context(), req, w, r.cfg, r.logger, r.db)

		run := func() {
			if req.Method != method {
				xcontext.SetError(ctx, errMethodNotAllowed)
				return
			}

			for _, before := range befores {
				if err := before(ctx); err != nil {
					xcontext.SetError(ctx, err)
					return
				}
			}

			var request Request
			if err := bindRequest(ctx, method, &request); err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			resp, err := handler(ctx, &request)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			xcontext.SetResponse(ctx, resp)
		}

		run()

		handleResponse(ctx)
		for _, closer := range closers {
			closer(ctx)
		}
	})
}
