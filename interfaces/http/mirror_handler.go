package http

import (
	"net/http"

	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/usecase"

	"github.com/gin-gonic/gin"
)

type IMirrorHandler interface {
	SyncToYouTube(ctx *gin.Context)
}

type MirrorHandler struct {
	mirrorUsecase usecase.IMirrorUsecase
}

func NewMirrorHandler(mirrorUsecase usecase.IMirrorUsecase) IMirrorHandler {
	return &MirrorHandler{mirrorUsecase: mirrorUsecase}
}

// SyncToYouTube handles POST /api/videos/:videoId/languages/:languageCode/youtube-sync
func (h *MirrorHandler) SyncToYouTube(ctx *gin.Context) {
	videoID := ctx.Param("videoId")
	languageCode := ctx.Param("languageCode")

	result, err := h.mirrorUsecase.SyncToYouTube(ctx.Request.Context(), videoID, languageCode)
	if err != nil {
		status := statusForError(err)
		log := logger.GetLogger().WithField("video_id", videoID).WithField("language", languageCode).WithField("error", err.Error())
		if status == http.StatusInternalServerError {
			log.Error("Forced youtube sync failed")
			ctx.JSON(status, gin.H{"error": "youtube sync failed"})
			return
		}
		log.Warn("Forced youtube sync rejected")
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
