package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/infrastructure/metrics"
	"subtitle-widget/interfaces/middleware"
	"subtitle-widget/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

const (
	transportRPC   = "rpc"
	transportXdRPC = "xd_rpc"
	transportJSONP = "jsonp"

	xdParamPrefix    = "xdp:"
	xdRequestIDField = "xdpe:request-id"
	xdDummyURIField  = "xdpe:dummy-uri"

	defaultJSONPCallback = "callback"
)

var jsonpCallbackPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)

// The page posts the response to the embedding window, or falls back to the dummy uri
// fragment for browsers without postMessage.
var xdResponseTemplate = template.Must(template.New("xd_rpc_response").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body>
<script type="text/javascript">
(function() {
  var message = {request_id: {{.RequestID}}, response: {{.ResponseJSON}}};
  if (window.parent && window.parent !== window && window.parent.postMessage) {
    window.parent.postMessage(JSON.stringify(message), "*");
  } else {
    window.location.replace({{.DummyURI}} + "#" + encodeURIComponent(JSON.stringify(message)));
  }
})();
</script>
</body>
</html>
`))

type xdResponse struct {
	RequestID    string
	DummyURI     string
	ResponseJSON string
}

type IWidgetRPCHandler interface {
	RPC(ctx *gin.Context)
	XdRPC(ctx *gin.Context)
	JSONP(ctx *gin.Context)
	NullRPC(ctx *gin.Context)
	NullXdRPC(ctx *gin.Context)
	NullJSONP(ctx *gin.Context)
}

type WidgetRPCHandler struct {
	dispatcher     usecase.IRPCDispatcher
	metrics        metrics.Recorder
	userMessageTTL time.Duration
}

func NewWidgetRPCHandler(dispatcher usecase.IRPCDispatcher, recorder metrics.Recorder, userMessageTTL time.Duration) IWidgetRPCHandler {
	return &WidgetRPCHandler{dispatcher: dispatcher, metrics: recorder, userMessageTTL: userMessageTTL}
}

// RPC handles POST /widget/rpc/:method
func (h *WidgetRPCHandler) RPC(ctx *gin.Context) { h.rpc(ctx, false) }

// NullRPC handles POST /widget/null_rpc/:method
func (h *WidgetRPCHandler) NullRPC(ctx *gin.Context) { h.rpc(ctx, true) }

// XdRPC handles POST /widget/xd_rpc/:method
func (h *WidgetRPCHandler) XdRPC(ctx *gin.Context) { h.xdRPC(ctx, false) }

func (h *WidgetRPCHandler) NullXdRPC(ctx *gin.Context) { h.xdRPC(ctx, true) }

// JSONP handles GET /widget/jsonp/:method
func (h *WidgetRPCHandler) JSONP(ctx *gin.Context) { h.jsonp(ctx, false) }

func (h *WidgetRPCHandler) NullJSONP(ctx *gin.Context) { h.jsonp(ctx, true) }

func (h *WidgetRPCHandler) rpc(ctx *gin.Context, null bool) {
	h.metrics.RecordRPCCall(transportRPC)
	if err := ctx.Request.ParseForm(); err != nil {
		ctx.String(http.StatusBadRequest, "invalid request")
		return
	}
	form := ctx.Request.PostForm
	body, ok := h.dispatch(ctx, usecase.DispatchRequest{
		Method:  ctx.Param("method"),
		Params:  lastValues(form, ""),
		RawArgs: form,
		Null:    null,
	})
	if !ok {
		return
	}
	ctx.Data(http.StatusOK, "application/json", body)
}

func (h *WidgetRPCHandler) xdRPC(ctx *gin.Context, null bool) {
	h.metrics.RecordRPCCall(transportXdRPC)
	if err := ctx.Request.ParseForm(); err != nil {
		ctx.String(http.StatusBadRequest, "invalid request")
		return
	}
	form := ctx.Request.PostForm
	method := ctx.Param("method")
	requestID, dummyURI := form.Get(xdRequestIDField), form.Get(xdDummyURIField)
	// Private methods are refused by the dispatcher, envelope or not.
	if (requestID == "" || dummyURI == "") && !strings.HasPrefix(method, "_") {
		ctx.String(http.StatusBadRequest, "invalid request")
		return
	}
	body, ok := h.dispatch(ctx, usecase.DispatchRequest{
		Method:  method,
		Params:  lastValues(form, xdParamPrefix),
		RawArgs: form,
		Null:    null,
	})
	if !ok {
		return
	}
	ctx.Render(http.StatusOK, render.HTML{
		Template: xdResponseTemplate,
		Name:     "xd_rpc_response",
		Data: xdResponse{
			RequestID:    requestID,
			DummyURI:     dummyURI,
			ResponseJSON: string(body),
		},
	})
}

func (h *WidgetRPCHandler) jsonp(ctx *gin.Context, null bool) {
	h.metrics.RecordRPCCall(transportJSONP)
	query := ctx.Request.URL.Query()
	callback := query.Get("callback")
	if callback == "" {
		callback = defaultJSONPCallback
	}
	if !jsonpCallbackPattern.MatchString(callback) {
		ctx.String(http.StatusBadRequest, "invalid callback")
		return
	}
	query.Del("callback")
	body, ok := h.dispatch(ctx, usecase.DispatchRequest{
		Method:  ctx.Param("method"),
		Params:  lastValues(query, ""),
		RawArgs: query,
		Null:    null,
	})
	if !ok {
		return
	}
	ctx.Data(http.StatusOK, "text/javascript; charset=utf-8", []byte(fmt.Sprintf("%s(%s);", callback, body)))
}

// dispatch runs the call and writes the error response itself when it fails.
func (h *WidgetRPCHandler) dispatch(ctx *gin.Context, req usecase.DispatchRequest) ([]byte, bool) {
	req.BrowserID = ctx.GetString(middleware.BrowserIDKey)
	resp, err := h.dispatcher.Dispatch(ctx.Request.Context(), req)
	if err != nil {
		var rpcErr *usecase.RPCError
		if errors.As(err, &rpcErr) {
			ctx.String(rpcErr.Status, rpcErr.Message)
			return nil, false
		}
		logger.GetLogger().WithField("method", req.Method).WithField("error", err).Error("Widget call failed")
		ctx.String(http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if resp.UserMessage != nil {
		h.setUserMessage(ctx, *resp.UserMessage)
	}
	body, err := usecase.EncodeResult(resp.Result)
	if err != nil {
		logger.GetLogger().WithField("method", req.Method).WithField("error", err).Error("Unable to encode widget result")
		ctx.String(http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return body, true
}

func (h *WidgetRPCHandler) setUserMessage(ctx *gin.Context, message string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:    usecase.UserMessageKey,
		Value:   url.PathEscape(message),
		Path:    "/",
		MaxAge:  int(h.userMessageTTL / time.Second),
		Expires: time.Now().Add(h.userMessageTTL),
	})
}

// lastValues keeps the last value sent for every key carrying prefix, with the prefix removed.
func lastValues(values url.Values, prefix string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) == 0 || !strings.HasPrefix(k, prefix) {
			continue
		}
		out[strings.TrimPrefix(k, prefix)] = v[len(v)-1]
	}
	return out
}
