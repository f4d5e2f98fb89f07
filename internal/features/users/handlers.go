// Package users: handlers.go отдаёт профиль текущего пользователя.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/ghostcards/internal/common"
)

// Handler обрабатывает запросы профиля.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик профиля.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Put("/me/telegram", h.handleLinkTelegram)
}

type linkTelegramRequest struct {
	ChatID *int64 `json:"chatId" validate:"required"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleLinkTelegram(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	var req linkTelegramRequest
	if !common.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.LinkTelegram(r.Context(), userID, *req.ChatID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}
