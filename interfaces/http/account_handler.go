package http

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"subtitle-widget/domain/model"
	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/usecase"

	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

// IAccountHandler links YouTube channels and manages linked third party accounts.
type IAccountHandler interface {
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
	List(ctx *gin.Context)
	Unlink(ctx *gin.Context)
}

type AccountHandler struct {
	accountUsecase usecase.IAccountUsecase
}

func NewAccountHandler(accountUsecase usecase.IAccountUsecase) IAccountHandler {
	return &AccountHandler{accountUsecase: accountUsecase}
}

// GetAuthURL handles GET /auth/youtube
func (h *AccountHandler) GetAuthURL(ctx *gin.Context) {
	state, err := generateRandomState()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to start authorization"})
		return
	}
	ctx.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)

	ctx.JSON(http.StatusOK, gin.H{
		"auth_url": h.accountUsecase.AuthURL(state),
	})
}

// HandleCallback handles GET /auth/youtube/callback
func (h *AccountHandler) HandleCallback(ctx *gin.Context) {
	if errorParam := ctx.Query("error"); errorParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": ctx.Query("error_description"),
		})
		return
	}

	state := ctx.Query("state")
	expected, err := ctx.Cookie(oauthStateCookie)
	if state == "" || err != nil || expected != state {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid state parameter",
			"action": "Visit /auth/youtube to start over",
		})
		return
	}
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	account, err := h.accountUsecase.Link(ctx.Request.Context(), ctx.Query("code"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.GetLogger().WithField("error", err).Error("Failed to link YouTube account")
			ctx.JSON(status, gin.H{"error": "Failed to link account"})
			return
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"account": account,
	})
}

// List handles GET /api/accounts
func (h *AccountHandler) List(ctx *gin.Context) {
	accounts, err := h.accountUsecase.List(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to list accounts")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}
	if accounts == nil {
		accounts = []model.ThirdPartyAccount{}
	}
	ctx.JSON(http.StatusOK, gin.H{"data": accounts})
}

// Unlink handles DELETE /api/accounts/:type/:username
func (h *AccountHandler) Unlink(ctx *gin.Context) {
	accountType := model.AccountType(ctx.Param("type"))
	username := ctx.Param("username")
	if err := h.accountUsecase.Unlink(ctx.Request.Context(), accountType, username); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// generateRandomState generates a random state parameter for OAuth2
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
