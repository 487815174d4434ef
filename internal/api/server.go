package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yt-insights/ytstats/internal/metrics"
	"github.com/yt-insights/ytstats/internal/models"
)

// Collector produces a report for one channel.
type Collector interface {
	Collect(ctx context.Context, ident models.Identifier) (*models.Report, error)
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	CORSOrigins       []string
	RequestsPerMinute int
}

// Server represents the API server
type Server struct {
	router    *gin.Engine
	collector Collector
	limiter   *rate.Limiter
	log       *logrus.Logger
}

// NewServer creates a new API server
func NewServer(collector Collector, cfg ServerConfig, log *logrus.Logger) (*Server, error) {
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	server := &Server{
		router:    router,
		collector: collector,
		// shared by all clients
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		log:     log,
	}

	router.Use(server.requestMetrics())
	server.setupRoutes(registry)

	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes(registry *prometheus.Registry) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	s.router.GET("/channel/:id/report", s.rateLimit(), s.getChannelReport)
}

// requestMetrics records request duration by route.
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded, please try again later",
			})
			return
		}
		c.Next()
	}
}

// getChannelReport handles requests for a channel report. The id is a
// channel ID unless mode=username.
func (s *Server) getChannelReport(c *gin.Context) {
	ident := models.Identifier{
		Value: c.Param("id"),
		UseID: c.Query("mode") != "username",
	}

	report, err := s.collector.Collect(c.Request.Context(), ident)
	if err != nil {
		s.log.WithError(err).WithField("identifier", ident.Value).Warn("Channel report failed")
		c.JSON(statusFor(err), gin.H{
			"error": err.Error(),
			"kind":  models.KindOf(err).String(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func statusFor(err error) int {
	// the client went away; transport errors include this case
	if errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	switch models.KindOf(err) {
	case models.KindEmptyResult:
		return http.StatusNotFound
	case models.KindTransport:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	s.log.WithField("port", port).Info("Starting API server")
	return s.router.Run(":" + port)
}
