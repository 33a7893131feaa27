package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const Version = "mock-1.0"

type Options struct {
	Addr          string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

// Server is the fake marketplace backend.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	state  *state
	hub    *hub
	secret []byte
}

func NewServer(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil, errors.New("admin credentials are empty")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(zap.L().Named("mock_http"), time.RFC3339, true),
		ginzap.RecoveryWithZap(zap.L().Named("mock_http"), true),
	)

	s := &Server{
		engine: engine,
		state:  newState(),
		hub:    newHub(),
		secret: []byte(opts.JWTSecret),
	}
	if err := s.seedAdmin(opts.AdminEmail, opts.AdminPassword); err != nil {
		return nil, fmt.Errorf("seeding admin: %w", err)
	}
	s.routes()

	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.health)

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	api.GET("/marketplace/browse", s.browse)
	api.GET("/listings/:id", s.getListing)

	authed := api.Group("", s.requireAuth())
	authed.POST("/listings", s.createListing)
	authed.DELETE("/listings/:id", s.deleteListing)
	authed.GET("/listings/:id/tenders", s.listTenders)
	authed.POST("/listings/:id/tenders", s.placeTender)
	authed.POST("/reviews/create", s.createReview)
	authed.PUT("/baskets/:id", s.updateBasket)
	authed.DELETE("/baskets/:id", s.deleteBasket)
	authed.POST("/baskets/:id/items", s.addBasketItem)

	// reviews are public to any signed-in user
	authed.GET("/user/:id/reviews", s.userReviews)

	self := authed.Group("/user/:id", s.requireSelf())
	self.GET("/baskets", s.listBaskets)
	self.POST("/baskets", s.createBasket)
	self.GET("/notifications", s.listNotifications)
	self.POST("/notifications", s.createNotification)
	self.PUT("/notifications/:nid/read", s.markNotificationRead)

	admin := authed.Group("/admin", s.requireAdmin())
	admin.GET("/users", s.adminUsers)
	admin.PUT("/users/:id/status", s.updateUserStatus)
	admin.POST("/export-pdf", s.exportPDF)
	admin.GET("/ads", s.getAds)
	admin.PUT("/ads", s.updateAds)
	admin.GET("/catalyst/price-settings", s.getPriceSettings)
	admin.PUT("/catalyst/price-settings", s.updatePriceSettings)
	admin.GET("/catalyst/data", s.catalystData)
	admin.GET("/catalyst/calculations", s.catalystCalculations)

	s.engine.GET("/ws/notifications/:id", s.requireAuth(), s.requireSelf(), s.notificationsSocket)
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	zap.S().Named("mock").Infow("mock backend started", "addr", l.Addr().String())

	if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.hub.closeAll()
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": Version})
}

// abort answers with the FastAPI style error body the real backend uses.
func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
