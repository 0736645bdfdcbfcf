package server

import (
	"time"

	httpHandler "subtitle-widget/interfaces/http"
	"subtitle-widget/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultOrigins = []string{"http://localhost:4200", "http://localhost:4201"}

// RouterOptions carries the configuration the router needs.
type RouterOptions struct {
	Origins         []string
	SecretKey       string
	BrowserIDCookie string
	MetricsEnabled  bool
}

func InitiateRouter(
	widgetRPCHandler httpHandler.IWidgetRPCHandler,
	accountHandler httpHandler.IAccountHandler,
	syncRuleHandler httpHandler.ISyncRuleHandler,
	mirrorHandler httpHandler.IMirrorHandler,
	healthHandler httpHandler.IHealthHandler,
	opts RouterOptions,
) *gin.Engine {
	origins := opts.Origins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)
	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Widget endpoints, live and null providers
	widget := router.Group("/widget")
	widget.Use(middleware.BrowserID(opts.BrowserIDCookie))
	{
		widget.POST("/rpc/:method", widgetRPCHandler.RPC)
		widget.POST("/xd_rpc/:method", widgetRPCHandler.XdRPC)
		widget.GET("/jsonp/:method", widgetRPCHandler.JSONP)
		widget.POST("/null_rpc/:method", widgetRPCHandler.NullRPC)
		widget.POST("/null_xd_rpc/:method", widgetRPCHandler.NullXdRPC)
		widget.GET("/null_jsonp/:method", widgetRPCHandler.NullJSONP)
	}

	// OAuth authentication routes
	router.GET("/auth/youtube", accountHandler.GetAuthURL)
	router.GET("/auth/youtube/callback", accountHandler.HandleCallback)

	api := router.Group("api")
	api.Use(middleware.Auth(opts.SecretKey))
	{
		api.GET("/accounts", accountHandler.List)
		api.DELETE("/accounts/:type/:username", accountHandler.Unlink)

		api.GET("/sync-rule", syncRuleHandler.Get)
		api.PUT("/sync-rule", syncRuleHandler.Update)

		api.POST("/videos/:videoId/languages/:languageCode/youtube-sync", mirrorHandler.SyncToYouTube)
	}

	return router
}
