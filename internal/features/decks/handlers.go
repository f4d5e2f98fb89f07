// Package decks: handlers.go содержит REST-обработчики колод.
package decks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/ghostcards/internal/common"
)

// Handler обрабатывает запросы колод.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик колод.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/decks", h.handleList)
	r.Post("/decks", h.handleCreate)
	r.Get("/decks/{deckID}", h.handleGet)
	r.Put("/decks/{deckID}", h.handleUpdate)
	r.Delete("/decks/{deckID}", h.handleDelete)
}

// ParseID достаёт UUID из URL-параметра. Некорректный ID отдаётся как 404.
func ParseID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, common.ErrNotFound
	}
	return id, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	decks, err := h.service.List(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, decks)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	var in Input
	if !common.DecodeJSON(w, r, &in) {
		return
	}
	d, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	id, err := ParseID(r, "deckID")
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	d, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	id, err := ParseID(r, "deckID")
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	var in Input
	if !common.DecodeJSON(w, r, &in) {
		return
	}
	d, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	id, err := ParseID(r, "deckID")
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		common.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
