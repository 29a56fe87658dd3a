package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a-mirror/mirror-api/internal/bots"
	"github.com/a-mirror/mirror-api/pkg/logger"
	"github.com/a-mirror/mirror-api/pkg/metrics"
)

// BotsHandler exposes the admin bot-registry CRUD endpoints. All routes are
// expected to be registered behind the admin-auth middleware.
type BotsHandler struct {
	svc *bots.Service
}

func NewBotsHandler(svc *bots.Service) *BotsHandler {
	return &BotsHandler{svc: svc}
}

// Register routes under /api/admin/bots
func (h *BotsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/get", h.Get)
	rg.GET("/getall", h.GetAll)
	rg.PUT("/add", h.Add)
	rg.POST("/update", h.Update)
	rg.DELETE("/delete", h.Delete)
}

type botRequest struct {
	Data struct {
		Username  string `json:"username"`
		Developer string `json:"developer"`
		Token     string `json:"token"`
	} `json:"data"`
}

// Get returns one bot's username, developer and token by exact username match.
func (h *BotsHandler) Get(c *gin.Context) {
	metrics.AdminRequests.WithLabelValues("get").Inc()

	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusNotFound, "Bot not found", gin.H{"error": err.Error()})
		return
	}

	bot, err := h.svc.Get(c.Request.Context(), req.Data.Username)
	if err != nil {
		if err != bots.ErrNotFound {
			logger.Errorf("bot get %q: %v", req.Data.Username, err)
			Respond(c, http.StatusNotFound, "Bot not found", gin.H{"error": err.Error()})
			return
		}
		Respond(c, http.StatusNotFound, "Bot not found", nil)
		return
	}

	Respond(c, http.StatusOK, "OK", gin.H{
		"username":  bot.Username,
		"developer": bot.Developer,
		"token":     bot.Token,
	})
}

// GetAll returns every bot with full field projection, username ascending.
func (h *BotsHandler) GetAll(c *gin.Context) {
	metrics.AdminRequests.WithLabelValues("getall").Inc()

	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("bot list: %v", err)
		Respond(c, http.StatusNotFound, "Bot not found", gin.H{"error": err.Error()})
		return
	}

	botData := make([]gin.H, 0, len(list))
	for _, b := range list {
		botData = append(botData, gin.H{
			"id":        b.ID,
			"username":  b.Username,
			"developer": b.Developer,
			"token":     b.Token,
			"createdAt": b.CreatedAt,
			"updatedAt": b.UpdatedAt,
		})
	}

	Respond(c, http.StatusOK, "OK", gin.H{"bots": botData})
}

// Add registers a new bot; duplicates are rejected without mutation.
func (h *BotsHandler) Add(c *gin.Context) {
	metrics.AdminRequests.WithLabelValues("add").Inc()

	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusNotFound, "Bot not found", gin.H{"error": err.Error()})
		return
	}

	bot, err := h.svc.Add(c.Request.Context(), req.Data.Username, req.Data.Developer, req.Data.Token)
	if err != nil {
		if err == bots.ErrAlreadyRegistered {
			Respond(c, http.StatusBadRequest, "Bot is already registered; please issue an update instead", gin.H{
				"username": req.Data.Username,
			})
			return
		}
		logger.Errorf("bot add %q: %v", req.Data.Username, err)
		Respond(c, http.StatusNotFound, "Bot not found", gin.H{"error": err.Error()})
		return
	}

	Respond(c, http.StatusOK, "Successfully created new bot", gin.H{
		"username":  bot.Username,
		"developer": bot.Developer,
	})
}

// Update applies the supplied developer and/or token fields to an existing
// bot and reports which fields changed.
func (h *BotsHandler) Update(c *gin.Context) {
	metrics.AdminRequests.WithLabelValues("update").Inc()

	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Bot does not exist", gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Update(c.Request.Context(), req.Data.Username, req.Data.Developer, req.Data.Token)
	if err != nil {
		if err == bots.ErrNotFound {
			Respond(c, http.StatusBadRequest, "Bot does not exist", gin.H{"username": req.Data.Username})
			return
		}
		logger.Errorf("bot update %q: %v", req.Data.Username, err)
		Respond(c, http.StatusInternalServerError, "Error saving changes to bot", gin.H{
			"username": req.Data.Username,
			"error":    err.Error(),
		})
		return
	}

	Respond(c, http.StatusOK, res.Message, res.Data)
}

// Delete removes a bot by username.
func (h *BotsHandler) Delete(c *gin.Context) {
	metrics.AdminRequests.WithLabelValues("delete").Inc()

	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Bot does not exist", gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), req.Data.Username); err != nil {
		if err == bots.ErrNotFound {
			Respond(c, http.StatusBadRequest, "Bot does not exist", gin.H{"username": req.Data.Username})
			return
		}
		logger.Errorf("bot delete %q: %v", req.Data.Username, err)
		Respond(c, http.StatusInternalServerError, "Error removing bot", gin.H{
			"username": req.Data.Username,
			"error":    err.Error(),
		})
		return
	}

	Respond(c, http.StatusOK, "Successfully removed bot", gin.H{"username": req.Data.Username})
}
