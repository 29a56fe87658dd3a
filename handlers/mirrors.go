package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a-mirror/mirror-api/internal/mirrors"
	"github.com/a-mirror/mirror-api/internal/models"
	"github.com/a-mirror/mirror-api/pkg/logger"
)

// successMsg reminds bot callers that a separate process reconciles the
// Reddit comment after the record changes.
const successMsg = "a-mirror-bot will update the associated comment shortly."

// MirrorsHandler exposes the bot-facing mirrored-video endpoints. Requests
// are self-authorizing: every body carries the shared API secret plus the
// calling bot's token.
type MirrorsHandler struct {
	svc *mirrors.Service
}

func NewMirrorsHandler(svc *mirrors.Service) *MirrorsHandler {
	return &MirrorsHandler{svc: svc}
}

// Register routes under /api/bot/mirroredvideos
func (h *MirrorsHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/update", h.Update)
	rg.DELETE("/delete", h.Delete)
}

type mirrorRequest struct {
	Auth struct {
		Token    string `json:"token"`
		BotToken string `json:"botToken"`
	} `json:"auth"`
	Data struct {
		RedditPostID string `json:"redditPostId"`
		URL          string `json:"url"`
	} `json:"data"`
}

// authorize binds the request body and runs the two-factor check. On
// failure it writes the 401 response and returns nil.
func (h *MirrorsHandler) authorize(c *gin.Context) (*models.RegisteredBot, *mirrorRequest) {
	var req mirrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusUnauthorized, "Auth parameters not provided", nil)
		return nil, nil
	}

	bot, err := h.svc.Authorize(c.Request.Context(), req.Auth.Token, req.Auth.BotToken)
	if err != nil {
		logger.Debugf("mirror auth rejected: %v", err)
		switch {
		case errors.Is(err, mirrors.ErrAuthMissing):
			Respond(c, http.StatusUnauthorized, "Auth parameters not provided", nil)
		case errors.Is(err, mirrors.ErrInvalidToken):
			Respond(c, http.StatusUnauthorized, "Invalid access token", nil)
		case errors.Is(err, mirrors.ErrInvalidBotToken):
			Respond(c, http.StatusUnauthorized, "Invalid bot access token", nil)
		default:
			// persistence failure during the bot-token lookup, not an
			// auth decision
			logger.Errorf("mirror auth: %v", err)
			Respond(c, http.StatusInternalServerError, "An error occurred verifying your bot credentials", nil)
		}
		return nil, nil
	}
	return bot, &req
}

// Update creates or updates the caller's mirror record for a Reddit post.
func (h *MirrorsHandler) Update(c *gin.Context) {
	bot, req := h.authorize(c)
	if bot == nil {
		return
	}

	created, err := h.svc.Upsert(c.Request.Context(), bot, req.Data.RedditPostID, req.Data.URL)
	if err != nil {
		logger.Errorf("mirror upsert post=%s bot=%s: %v", req.Data.RedditPostID, bot.Username, err)
		Respond(c, http.StatusInternalServerError, "An error occurred updating your mirror in the database", nil)
		return
	}

	if created {
		Respond(c, http.StatusOK, "Successfully created mirror in database. "+successMsg, nil)
		return
	}
	Respond(c, http.StatusOK, "Successfully updated mirror in database. "+successMsg, nil)
}

// Delete removes the caller's mirror record matching the exact
// (redditPostId, url) pair.
func (h *MirrorsHandler) Delete(c *gin.Context) {
	bot, req := h.authorize(c)
	if bot == nil {
		return
	}

	err := h.svc.Delete(c.Request.Context(), bot, req.Data.RedditPostID, req.Data.URL)
	switch {
	case err == nil:
		Respond(c, http.StatusOK, "Successfully removed mirror from database. "+successMsg, nil)
	case errors.Is(err, mirrors.ErrNotFound):
		Respond(c, http.StatusNotFound, "Mirror not found in database", nil)
	case errors.Is(err, mirrors.ErrLookup):
		logger.Errorf("mirror lookup post=%s bot=%s: %v", req.Data.RedditPostID, bot.Username, err)
		Respond(c, http.StatusInternalServerError, "An error occurred trying to retrieve your mirror's data", nil)
	default:
		logger.Errorf("mirror delete post=%s bot=%s: %v", req.Data.RedditPostID, bot.Username, err)
		Respond(c, http.StatusInternalServerError, "An error occurred trying to remove your mirror", nil)
	}
}
