package handle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/ctsync/ctsync/assess"
	"github.com/ctsync/ctsync/internal/signal"
	"github.com/ctsync/ctsync/mint"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/server/dao"
	"github.com/ctsync/ctsync/server/handle/middlewares"
	"github.com/ctsync/ctsync/storage"
	"github.com/gin-gonic/gin"
)

type Options struct {
	addr        string
	engine      *gin.Engine
	db          *dao.DB
	resolver    *storage.Resolver
	assessor    *assess.Assessor
	minter      *mint.Minter
	enablePProf bool
}

type Option func(*Options)

func WithAddr(addr string) func(*Options) {
	return func(options *Options) {
		options.addr = addr
	}
}

func WithEngine(g *gin.Engine) func(*Options) {
	return func(options *Options) {
		options.engine = g
	}
}

func WithDB(db *dao.DB) func(*Options) {
	return func(options *Options) {
		options.db = db
	}
}

func WithResolver(resolver *storage.Resolver) func(*Options) {
	return func(options *Options) {
		options.resolver = resolver
	}
}

func WithAssessor(assessor *assess.Assessor) func(*Options) {
	return func(options *Options) {
		options.assessor = assessor
	}
}

func WithMinter(minter *mint.Minter) func(*Options) {
	return func(options *Options) {
		options.minter = minter
	}
}

func WithEnablePProf(enable bool) func(*Options) {
	return func(options *Options) {
		options.enablePProf = enable
	}
}

type Handler struct {
	options *Options
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	h.options = &Options{}
	for _, opt := range opts {
		opt(h.options)
	}
	if h.options.addr == "" {
		h.options.addr = ":8335"
	}
	if h.options.db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if h.options.resolver == nil {
		h.options.resolver = storage.NewResolver()
	}
	if h.options.engine == nil {
		h.options.engine = gin.New()
		h.options.engine.Use(middlewares.Logger(), gin.Recovery())
	}
	return h, nil
}

func (h *Handler) Engine() *gin.Engine {
	return h.options.engine
}

func (h *Handler) DB() *dao.DB {
	return h.options.db
}

func (h *Handler) Resolver() *storage.Resolver {
	return h.options.resolver
}

func (h *Handler) Run() error {
	h.InitRouter()
	srv := &http.Server{
		Addr:    h.options.addr,
		Handler: h.options.engine,
	}
	signal.AddInterruptHandler(func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Srv.Error("srv.Shutdown", "err", err)
		}
	})
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Srv.Error("srv.ListenAndServe", "err", err)
			os.Exit(1)
		}
	}()
	return nil
}
