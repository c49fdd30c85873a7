package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/perf"
)

// server exposes a demo over HTTP. The engine is single threaded; every
// handler holds mu while it touches it.
type server struct {
	mu  sync.Mutex
	d   *demo
	log *slog.Logger
	reg *prometheus.Registry
}

func newServer(d *demo, log *slog.Logger) *server {
	s := &server{d: d, log: log, reg: prometheus.NewRegistry()}
	s.reg.MustRegister(
		perf.NewCollector(d.engine.Monitor(), &s.mu),
		collectors.NewGoCollector(),
	)
	return s
}

type viewResponse struct {
	View geom.ViewState `json:"view"`
	Tier string         `json:"tier"`
}

type elementResponse struct {
	ID      string     `json:"id"`
	Kind    string     `json:"kind"`
	Caption string     `json:"caption,omitempty"`
	Screen  geom.Point `json:"screen"`
	// Semantic is the element's payload for the current tier.
	Semantic any `json:"semantic,omitempty"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type zoomRequest struct {
	Factor float64  `json:"factor" binding:"required"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
}

type animateRequest struct {
	View       geom.ViewState `json:"view"`
	DurationMs int            `json:"duration_ms"`
}

func (s *server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := r.Group("/api")
	api.GET("/view", s.getView)
	api.PUT("/view", s.putView)
	api.POST("/view/animate", s.animate)
	api.POST("/pan", s.pan)
	api.POST("/zoom", s.zoom)
	api.GET("/elements", s.elements)
	api.GET("/metrics", s.metrics)
	api.GET("/frame.png", s.frame)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))
	return r
}

func (s *server) viewLocked() viewResponse {
	e := s.d.engine
	return viewResponse{View: e.ViewState(), Tier: e.Tier().Name}
}

func (s *server) getView(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.viewLocked())
}

func (s *server) putView(c *gin.Context) {
	var v geom.ViewState
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.d.engine.SetViewState(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.d.engine.Frame()
	c.JSON(http.StatusOK, s.viewLocked())
}

func (s *server) animate(c *gin.Context) {
	var req animateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := time.Duration(req.DurationMs) * time.Millisecond
	if err := s.d.engine.AnimateToViewState(req.View, d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, s.viewLocked())
}

func (s *server) pan(c *gin.Context) {
	var req panRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.d.engine.Pan(req.DX, req.DY); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.d.engine.Frame()
	c.JSON(http.StatusOK, s.viewLocked())
}

func (s *server) zoom(c *gin.Context) {
	var req zoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if req.X != nil && req.Y != nil {
		err = s.d.engine.ZoomAt(req.Factor, geom.Pt(*req.X, *req.Y))
	} else {
		err = s.d.engine.Zoom(req.Factor)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.d.engine.Frame()
	c.JSON(http.StatusOK, s.viewLocked())
}

func (s *server) elements(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.d.engine
	v := e.ViewState()
	tierName := e.Tier().Name
	els := e.ElementsInView()
	out := make([]elementResponse, 0, len(els))
	for _, el := range els {
		r := elementResponse{
			ID:     el.ID,
			Kind:   el.Kind.String(),
			Screen: e.Mapper().WorldToScreen(el.Position, v),
		}
		if el.Content != nil {
			r.Caption = el.Content.Caption()
		}
		if sem, ok := el.Semantic(tierName); ok {
			r.Semantic = sem
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, gin.H{"tier": tierName, "elements": out})
}

func (s *server) metrics(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.d.engine.Metrics())
}

func (s *server) frame(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.engine.Frame()
	var buf bytes.Buffer
	if err := s.d.canvas.EncodePNG(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// tick drives in-flight view animations at 60 Hz until ctx is done.
func (s *server) tick(ctx context.Context) {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			if s.d.engine.Animating() {
				s.d.engine.Frame()
			}
			s.mu.Unlock()
		}
	}
}

// serve runs the API until ctx is done.
func serve(ctx context.Context, addr string, s *server, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go s.tick(ctx)
	go func() {
		log.Info("http_listen", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("http_shutdown")
	return srv.Shutdown(shutdownCtx)
}
