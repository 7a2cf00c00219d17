// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/mushaf/internal/platform/request"
	"github.com/taibuivan/mushaf/internal/platform/respond"
)

// Handler implements the HTTP layer for settings.
type Handler struct {
	service *Service
}

// NewHandler constructs a new setting [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with settings endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listSettings)
	router.Post("/", handler.setSetting)

	return router
}

/*
GET /api/settings.

Response:
  - 200: map[string]string
*/
func (handler *Handler) listSettings(writer http.ResponseWriter, request *http.Request) {
	settings, err := handler.service.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, settings)
}

/*
POST /api/settings.

Description: Creates or overwrites one setting.

Request (Body):
  - key: string
  - value: string

Response:
  - 200: SetInput: The stored pair
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) setSetting(writer http.ResponseWriter, request *http.Request) {
	var input SetInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Set(request.Context(), input.Key, input.Value); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Key = strings.TrimSpace(input.Key)
	respond.OK(writer, input)
}
