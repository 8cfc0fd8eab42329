// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/dashboard"
	"github.com/tomtom215/opsboard/internal/datasource"
	"github.com/tomtom215/opsboard/internal/logging"
)

// Error codes carried by error messages. They match the HTTP envelope codes.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
)

// ErrorData is sent with error messages.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, message string) Message {
	return Message{Type: MessageTypeError, Data: ErrorData{Code: code, Message: message}}
}

// RefreshNotifier is told about every successful forced reload.
type RefreshNotifier interface {
	BroadcastDatasetRefreshed(rows int, source string)
}

// DashboardSession adapts a dashboard.Session to the message protocol.
type DashboardSession struct {
	session  *dashboard.Session
	source   string
	notifier RefreshNotifier

	mu      sync.Mutex
	started bool
}

// NewDashboardSession wraps session. notifier may be nil.
func NewDashboardSession(session *dashboard.Session, source string, notifier RefreshNotifier) *DashboardSession {
	return &DashboardSession{session: session, source: source, notifier: notifier}
}

// Handle implements Handler.
func (s *DashboardSession) Handle(ctx context.Context, msg InboundMessage) []Message {
	switch msg.Type {
	case MessageTypeControls:
		return s.handleControls(ctx, msg.Data)
	case MessageTypeRefresh:
		return s.handleRefresh(ctx)
	case MessageTypeExport:
		return s.handleExport(ctx)
	default:
		return []Message{errorMessage(ErrCodeBadRequest, "Unknown message type: "+msg.Type)}
	}
}

func (s *DashboardSession) handleControls(ctx context.Context, data json.RawMessage) []Message {
	var controls analytics.Controls
	if len(data) > 0 {
		if err := json.Unmarshal(data, &controls); err != nil {
			return []Message{errorMessage(ErrCodeBadRequest, "Invalid controls: "+err.Error())}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		update *dashboard.Update
		err    error
	)
	if s.started {
		update, err = s.session.SetControls(ctx, controls)
	} else {
		update, err = s.session.Start(ctx, controls)
		s.started = err == nil
	}
	if err != nil {
		return []Message{failure(ctx, "controls", err)}
	}
	return []Message{{Type: MessageTypeOutputs, Data: update}}
}

func (s *DashboardSession) handleRefresh(ctx context.Context) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return []Message{errorMessage(ErrCodeBadRequest, "Session not started: send controls first")}
	}

	update, err := s.session.Refresh(ctx)
	if err != nil {
		return []Message{failure(ctx, "refresh", err)}
	}
	if s.notifier != nil {
		s.notifier.BroadcastDatasetRefreshed(len(s.session.Rows()), s.source)
	}
	return []Message{{Type: MessageTypeOutputs, Data: update}}
}

func (s *DashboardSession) handleExport(ctx context.Context) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return []Message{errorMessage(ErrCodeBadRequest, "Session not started: send controls first")}
	}

	update, err := s.session.Export(ctx)
	if err != nil {
		return []Message{failure(ctx, "export", err)}
	}
	if update.Download == nil {
		return []Message{errorMessage(ErrCodeInternal, "Export produced no file")}
	}
	return []Message{{Type: MessageTypeDownload, Data: update.Download}}
}

func failure(ctx context.Context, op string, err error) Message {
	var perr *datasource.ProviderError
	if errors.As(err, &perr) {
		logging.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("Data provider failed during websocket session")
		return errorMessage(ErrCodeExternalServiceFail, "Data source unavailable")
	}
	logging.Ctx(ctx).Error().Err(err).Str("op", op).Msg("Websocket session update failed")
	return errorMessage(ErrCodeInternal, "Dashboard update failed")
}
