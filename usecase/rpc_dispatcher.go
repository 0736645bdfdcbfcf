package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"
)

// RPCError is a request level failure answered with a plain text body.
type RPCError struct {
	Status  int
	Message string
}

func (e *RPCError) Error() string { return e.Message }

// DispatchRequest is a widget call after the transport removed its own fields.
type DispatchRequest struct {
	Method string
	// Params holds the JSON encoded argument values.
	Params map[string]string
	// RawArgs is what the caller sent, kept for the audit log.
	RawArgs   map[string][]string
	BrowserID string
	Null      bool
}

type DispatchResponse struct {
	Result Result
	// UserMessage is set when the method produced a message for the cookie side channel.
	UserMessage *string
}

type IRPCDispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResponse, error)
}

type RPCDispatcher struct {
	live        RPCProvider
	null        RPCProvider
	dialogCalls repository.IDialogCall
	loggable    map[string]struct{}
}

// NewRPCDispatcher validates the providers and returns a dispatcher. dialogCalls may be nil,
// in which case audited calls are only written to the log.
func NewRPCDispatcher(live, null RPCProvider, dialogCalls repository.IDialogCall, loggableMethods []string) (IRPCDispatcher, error) {
	if err := ValidateProviders(live, null); err != nil {
		return nil, err
	}
	loggable := make(map[string]struct{}, len(loggableMethods))
	for _, m := range loggableMethods {
		loggable[m] = struct{}{}
	}
	return &RPCDispatcher{live: live, null: null, dialogCalls: dialogCalls, loggable: loggable}, nil
}

func (d *RPCDispatcher) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResponse, error) {
	if len(req.Method) > 0 && req.Method[0] == '_' {
		return nil, &RPCError{Status: http.StatusInternalServerError, Message: "cant call private method"}
	}
	d.logCall(ctx, req)

	args := Args{}
	for k, v := range req.Params {
		if !isASCII(k) {
			return nil, &RPCError{Status: http.StatusInternalServerError, Message: "non-ascii chars received"}
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			continue
		}
		args[k] = decoded
	}

	provider := d.live
	if req.Null {
		provider = d.null
	}
	method, ok := provider.Methods()[req.Method]
	if !ok {
		return nil, &RPCError{Status: http.StatusInternalServerError, Message: "no method named " + req.Method}
	}

	if err := method.checkArity(req.Method, args); err != nil {
		return &DispatchResponse{Result: Result{
			"error":     "Incorrect number of arguments",
			"traceback": "TypeError: " + err.Error(),
		}}, nil
	}

	result, err := method.Handler(ctx, &CallContext{BrowserID: req.BrowserID}, args)
	if err != nil {
		if isClientError(err) {
			return &DispatchResponse{Result: Result{"error": err.Error()}}, nil
		}
		logger.GetLogger().WithField("method", req.Method).WithField("error", err).Error("Widget rpc method failed")
		return nil, &RPCError{Status: http.StatusInternalServerError, Message: "internal error"}
	}

	resp := &DispatchResponse{Result: result}
	if msg, ok := result[UserMessageKey]; ok {
		delete(result, UserMessageKey)
		if body, ok := userMessageBody(msg); ok {
			resp.UserMessage = &body
		}
	}
	return resp, nil
}

// logCall persists audited calls whatever their outcome.
func (d *RPCDispatcher) logCall(ctx context.Context, req DispatchRequest) {
	if _, ok := d.loggable[req.Method]; !ok {
		return
	}
	raw, err := json.Marshal(req.RawArgs)
	if err != nil {
		raw = []byte("{}")
	}
	entry := logger.GetLogger().
		WithField("browserId", req.BrowserID).
		WithField("method", req.Method)
	if d.dialogCalls == nil {
		entry.WithField("args", string(raw)).Info("Widget dialog call")
		return
	}
	call := &model.WidgetDialogCall{BrowserID: req.BrowserID, Method: req.Method, RequestArgs: string(raw)}
	if err := d.dialogCalls.Save(ctx, call); err != nil {
		entry.WithField("error", err).Error("Failed to save widget dialog call")
	}
}

func isClientError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrVideoNotFound) ||
		errors.Is(err, model.ErrLanguageNotFound) ||
		errors.Is(err, model.ErrVersionNotFound) ||
		errors.Is(err, model.ErrUnsupportedURL)
}

func userMessageBody(v any) (string, bool) {
	switch m := v.(type) {
	case map[string]any:
		body, ok := m["body"]
		if !ok {
			return "", false
		}
		return fmt.Sprint(body), true
	case map[string]string:
		body, ok := m["body"]
		return body, ok
	}
	return "", false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
