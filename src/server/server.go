package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"dashboard-builder/src/dashboard"
	"dashboard-builder/src/interfaces"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/orchestrator"
	"dashboard-builder/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config       *models.MConfig
	Logger       *logger.Logger
	Orchestrator *orchestrator.Orchestrator
	Store        interfaces.ILayoutStore // may be nil when persistence is disabled
	engine       *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MPushMessage // Strongly typed and Buffered Queue
	register   chan *Client
	unregister chan *Client

	// Local cache of the last envelope per type, plus recent history for replay
	latest     map[models.WidgetType]*models.MWidgetDataResponse
	history    map[models.WidgetType]*utils.RingBuffer
	stateMutex sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, orch *orchestrator.Orchestrator, store interfaces.ILayoutStore, logger *logger.Logger) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	history := make(map[models.WidgetType]*utils.RingBuffer)
	for _, t := range models.AllWidgetTypes() {
		history[t] = utils.NewRingBuffer(cfg.Generator.HistorySize)
	}

	s := &APIServer{
		Config:       cfg,
		Logger:       logger,
		Orchestrator: orch,
		Store:        store,
		engine:       gin.Default(),
		clients:      make(map[*Client]struct{}),
		// Buffered channel to prevent lock/blocking
		// Queue size of 256 ensures we can handle bursts of updates
		broadcast:  make(chan *models.MPushMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latest:     make(map[models.WidgetType]*models.MWidgetDataResponse),
		history:    history,
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/", s.getInfo)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/data/:type", s.getData)
	s.engine.POST("/api/data/batch", s.postBatch)

	// Layout persistence endpoints
	s.engine.GET("/api/layouts", s.getLayouts)
	s.engine.GET("/api/layouts/:id", s.getLayout)
	s.engine.POST("/api/layouts", s.postLayout)
	s.engine.DELETE("/api/layouts/:id", s.deleteLayout)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop() error {
	// Clean shutdown
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------

// Engine exposes the router for in-process test servers.
func (s *APIServer) Engine() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getInfo(c *gin.Context) {
	c.JSON(200, gin.H{
		"name":    s.Config.Name,
		"version": "1.0.0",
		"endpoints": []string{
			"GET /api/health",
			"GET /api/data/:type",
			"POST /api/data/batch",
			"GET /api/layouts",
			"GET /api/layouts/:id",
			"POST /api/layouts",
			"DELETE /api/layouts/:id",
			"GET /ws",
		},
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
		"env":       s.Config.Env,
	})
}

// -----------------------------------------------------------------------------

// getData serves one freshly generated envelope. An unknown type is a client
// error; generation or validation faults are server errors carrying a code.
func (s *APIServer) getData(c *gin.Context) {
	t := models.WidgetType(c.Param("type"))

	resp, genErr := s.Orchestrator.GenerateOne(t)
	if genErr != nil {
		if genErr.Code == orchestrator.CodeUnknownType {
			c.JSON(400, gin.H{"error": genErr.Message})
		} else {
			c.JSON(500, genErr)
		}
		return
	}

	s.recordResponse(resp)
	c.JSON(200, resp)
}

// -----------------------------------------------------------------------------

type batchRequest struct {
	Types []string `json:"types"`
}

// postBatch generates several types in one round trip. Unrecognized types are
// filtered out silently before dispatch; a request that filters to nothing is
// rejected.
func (s *APIServer) postBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "types must be an array of widget types"})
		return
	}

	var types []models.WidgetType
	for _, raw := range req.Types {
		if models.IsValidWidgetType(raw) {
			types = append(types, models.WidgetType(raw))
		}
	}

	if len(types) == 0 {
		c.JSON(400, gin.H{"error": "types must be an array of widget types"})
		return
	}

	results := s.Orchestrator.GenerateBatch(types)

	body := make(map[models.WidgetType]interface{}, len(results))
	for t, res := range results {
		if res.Err != nil {
			body[t] = res.Err
			continue
		}
		s.recordResponse(res.Response)
		body[t] = res.Response
	}

	c.JSON(200, body)
}

// -----------------------------------------------------------------------------
// Layout Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getLayouts(c *gin.Context) {
	if s.Store == nil {
		c.JSON(503, gin.H{"error": "persistence is disabled"})
		return
	}

	c.JSON(200, s.Store.GetAllLayouts())
}

// -----------------------------------------------------------------------------

func (s *APIServer) getLayout(c *gin.Context) {
	if s.Store == nil {
		c.JSON(503, gin.H{"error": "persistence is disabled"})
		return
	}

	layout := s.Store.LoadLayout(c.Param("id"))
	if layout == nil {
		c.JSON(404, gin.H{"error": "layout not found"})
		return
	}

	c.JSON(200, layout)
}

// -----------------------------------------------------------------------------

type layoutRequest struct {
	Name    string                 `json:"name"`
	Widgets []models.MWidgetConfig `json:"widgets"`
}

// postLayout mints and persists a new layout. Widgets arriving without an id
// get one assigned.
func (s *APIServer) postLayout(c *gin.Context) {
	if s.Store == nil {
		c.JSON(503, gin.H{"error": "persistence is disabled"})
		return
	}

	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(400, gin.H{"error": "layout name is required"})
		return
	}

	layout := dashboard.NewLayout(req.Name)
	for _, w := range req.Widgets {
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		layout.Widgets = append(layout.Widgets, w)
	}

	if !s.Store.SaveLayout(layout) {
		c.JSON(500, gin.H{"error": "failed to persist layout"})
		return
	}

	s.Logger.Info("Saved layout %s (%s) with %d widgets", layout.ID, layout.Name, len(layout.Widgets))
	c.JSON(201, layout)
}

// -----------------------------------------------------------------------------

func (s *APIServer) deleteLayout(c *gin.Context) {
	if s.Store == nil {
		c.JSON(503, gin.H{"error": "persistence is disabled"})
		return
	}

	id := c.Param("id")
	if !s.Store.DeleteLayout(id) {
		c.JSON(500, gin.H{"error": "failed to delete layout"})
		return
	}

	c.JSON(200, gin.H{"deleted": id})
}

// -----------------------------------------------------------------------------
// State Recording
// -----------------------------------------------------------------------------

// recordResponse keeps the last envelope per type and appends it to the replay
// history, so new websocket subscribers catch up immediately.
func (s *APIServer) recordResponse(resp *models.MWidgetDataResponse) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	s.latest[resp.Type] = resp
	if buf, ok := s.history[resp.Type]; ok {
		buf.Append(resp)
	}
}
