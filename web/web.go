// Package web provides the HTTP server of the panel: routing, middleware and
// background job scheduling.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/drsdgdbye/user-panel/config"
	"github.com/drsdgdbye/user-panel/database"
	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/util/common"
	"github.com/drsdgdbye/user-panel/util/metrics"
	"github.com/drsdgdbye/user-panel/web/controller"
	"github.com/drsdgdbye/user-panel/web/entity"
	"github.com/drsdgdbye/user-panel/web/job"
	"github.com/drsdgdbye/user-panel/web/middleware"
	"github.com/drsdgdbye/user-panel/web/service"
	"github.com/drsdgdbye/user-panel/web/validation"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

// Server represents the panel's web server with its controllers, services and scheduled jobs.
type Server struct {
	cfg *config.Config

	httpServer *http.Server
	listener   net.Listener

	userService *service.UserService
	limiter     *middleware.RateLimiter

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, ctx: ctx, cancel: cancel}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() *gin.Engine {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AccessLog())
	if s.cfg.RateLimit.Enable {
		s.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimit.RequestsPerSecond,
			Burst:             s.cfg.RateLimit.Burst,
			SkipPaths:         middleware.DefaultRateLimitConfig().SkipPaths,
		})
		engine.Use(s.limiter.Middleware())
	}
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
	))

	validation.Init()

	s.userService = service.NewUserService(database.GetDB())

	g := engine.Group("/")
	controller.NewUserController(g, s.userService)
	controller.NewHealthController(g)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, entity.Fail("not found"))
	})

	return engine
}

// startTask schedules background jobs.
func (s *Server) startTask() {
	if s.cfg.Database.IsSQLite() {
		s.cron.AddJob("@every 5m", job.NewCheckpointJob())
	}

	usersJob := job.NewUsersGaugeJob(s.userService)
	usersJob.Run()
	s.cron.AddJob("@every 30s", usersJob)

	if s.limiter != nil {
		s.cron.AddJob("@every 10m", job.NewRateLimitCleanupJob(s.limiter, 10*time.Minute))
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithLocation(time.Local), cron.WithSeconds())
	s.cron.Start()

	engine := s.initRouter()

	listenAddr := net.JoinHostPort(s.cfg.Web.Listen, strconv.Itoa(s.cfg.Web.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and the cron scheduler.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if isClosedErr(err2) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}

func isClosedErr(err error) bool {
	return err != nil && errors.Is(err, net.ErrClosed)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
