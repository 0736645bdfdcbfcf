package http

import (
	"net/http"

	"subtitle-widget/domain/model"
	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/interfaces/middleware"
	"subtitle-widget/usecase"

	"github.com/gin-gonic/gin"
)

type ISyncRuleHandler interface {
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
}

type SyncRuleHandler struct {
	syncRuleUsecase usecase.ISyncRuleUsecase
}

func NewSyncRuleHandler(syncRuleUsecase usecase.ISyncRuleUsecase) ISyncRuleHandler {
	return &SyncRuleHandler{syncRuleUsecase: syncRuleUsecase}
}

type syncRuleRequest struct {
	Team  string `json:"team"`
	User  string `json:"user"`
	Video string `json:"video"`
}

// Get handles GET /api/sync-rule
func (h *SyncRuleHandler) Get(ctx *gin.Context) {
	rule, err := h.syncRuleUsecase.Get(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to load youtube sync rule")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sync rule"})
		return
	}
	ctx.JSON(http.StatusOK, rule)
}

// Update handles PUT /api/sync-rule
func (h *SyncRuleHandler) Update(ctx *gin.Context) {
	var req syncRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rule, err := h.syncRuleUsecase.Save(ctx.Request.Context(), &model.SyncRule{
		Team:  req.Team,
		User:  req.User,
		Video: req.Video,
	})
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.GetLogger().WithField("error", err).Error("Failed to save youtube sync rule")
			ctx.JSON(status, gin.H{"error": "Failed to save sync rule"})
			return
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logger.GetLogger().WithField("user_name", ctx.GetString(middleware.UserNameKey)).Info("Youtube sync rule updated")
	ctx.JSON(http.StatusOK, rule)
}
