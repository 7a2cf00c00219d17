// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/mushaf/internal/platform/constants"
	"github.com/taibuivan/mushaf/internal/platform/respond"
)

// HealthCheck is a named dependency probe for the /ready endpoint.
type HealthCheck struct {
	// Name labels the dependency in the response (e.g. "sqlite", "redis").
	Name string

	// Check returns nil when the dependency is reachable.
	Check func(context.Context) error
}

type healthHandler struct {
	checks []HealthCheck
	logger *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
// Checks with a nil func are skipped.
func NewHealthHandlers(checks []HealthCheck, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: checks, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, check := range handler.checks {
		if check.Check == nil {
			continue
		}
		result := checkResult{Name: check.Name, IsOK: true}
		if err := check.Check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", check.Name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	}})
}
