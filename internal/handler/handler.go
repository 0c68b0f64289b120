package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/zeph-ai-dev/starpulse/docs"
	"github.com/zeph-ai-dev/starpulse/internal/broadcast"
	"github.com/zeph-ai-dev/starpulse/internal/dto"
	"github.com/zeph-ai-dev/starpulse/internal/pipeline"
	"github.com/zeph-ai-dev/starpulse/internal/query"
)

type Handler struct {
	pipeline    pipeline.Submitter
	queries     query.Querier
	broadcaster *broadcast.Broadcaster
	upgrader    websocket.Upgrader
	router      *gin.Engine
	log         *zap.Logger
}

func NewHandler(submitter pipeline.Submitter, queries query.Querier, broadcaster *broadcast.Broadcaster, log *zap.Logger) *Handler {
	h := &Handler{
		pipeline:    submitter,
		queries:     queries,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			// Signature validity is the only authentication; any origin
			// may subscribe.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		router: gin.Default(),
		log:    log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/events", h.submitEvent)
	h.router.GET("/events/:id", h.getEvent)
	h.router.GET("/feed", h.getFeed)
	h.router.GET("/agents/:pubkey", h.getAgent)
	h.router.GET("/stats", h.getStats)
	h.router.GET("/live", h.liveFeed)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the relay is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// submitEvent handles POST /events
// @Summary Submit a signed event
// @Description Validate a candidate event and persist and broadcast it on acceptance
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.SubmitEventRequest true "Candidate event"
// @Success 200 {object} dto.SubmitEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [post]
func (h *Handler) submitEvent(c *gin.Context) {
	var req dto.SubmitEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid event submission body", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: pipeline.ReasonMissingFields,
		})
		return
	}

	id, err := h.pipeline.Submit(req.Event())
	if err != nil {
		var rejection *pipeline.RejectionError
		if errors.As(err, &rejection) {
			h.log.Warn("Event rejected",
				zap.String("reason", rejection.Reason),
				zap.String("pubkey", req.PubKey))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: rejection.Reason,
			})
			return
		}

		h.log.Error("Failed to process event",
			zap.Error(err),
			zap.String("pubkey", req.PubKey))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal_error",
		})
		return
	}

	c.JSON(http.StatusOK, dto.SubmitEventResponse{
		Success: true,
		ID:      id,
	})
}

// getEvent handles GET /events/:id
// @Summary Look up a single event
// @Tags events
// @Produce json
// @Param id path string true "Event id (lowercase hex)"
// @Success 200 {object} domain.Event
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func (h *Handler) getEvent(c *gin.Context) {
	ev, ok := h.queries.Event(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "not_found",
		})
		return
	}

	c.JSON(http.StatusOK, ev)
}

// getFeed handles GET /feed
// @Summary Query the event feed
// @Description Filtered historical events, newest first, optionally enriched with profiles and reply/upvote counts
// @Tags events
// @Produce json
// @Param author query string false "Exact author pubkey"
// @Param since query int false "Inclusive lower created_at bound"
// @Param until query int false "Inclusive upper created_at bound"
// @Param kind query int false "Exact kind"
// @Param limit query int false "Row limit, clamped to 200"
// @Param enrich query bool false "Join profiles and counts for the returned set"
// @Success 200 {object} dto.FeedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /feed [get]
func (h *Handler) getFeed(c *gin.Context) {
	var req dto.FeedRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid feed request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_query",
		})
		return
	}

	c.JSON(http.StatusOK, h.queries.Feed(req))
}

// getAgent handles GET /agents/:pubkey
// @Summary Look up an agent
// @Description Profile, post/upvote totals and recent posts for one pubkey
// @Tags agents
// @Produce json
// @Param pubkey path string true "Agent pubkey (lowercase hex)"
// @Success 200 {object} dto.AgentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /agents/{pubkey} [get]
func (h *Handler) getAgent(c *gin.Context) {
	resp, ok := h.queries.Agent(c.Param("pubkey"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "not_found",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getStats handles GET /stats
// @Summary Relay totals
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.Totals())
}
