// Package cards: handlers.go содержит REST-обработчики карточек, очереди и импорта.
package cards

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
	"serotonyl.ru/ghostcards/internal/features/decks"
)

// Handler обрабатывает запросы карточек.
type Handler struct {
	service        *Service
	importMaxBytes int64
}

// NewHandler создаёт новый обработчик карточек.
func NewHandler(service *Service, importMaxBytes int64) *Handler {
	return &Handler{service: service, importMaxBytes: importMaxBytes}
}

// Register вешает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/decks/{deckID}/cards", h.handleList)
	r.Post("/decks/{deckID}/cards", h.handleCreate)
	r.Get("/decks/{deckID}/due", h.handleDue)
	r.Post("/decks/{deckID}/import", h.handleImport)

	r.Get("/cards/{cardID}", h.handleGet)
	r.Put("/cards/{cardID}", h.handleUpdate)
	r.Delete("/cards/{cardID}", h.handleDelete)
	r.Post("/cards/{cardID}/review", h.handleReview)
}

// target достаёт пользователя и UUID из URL. При ошибке ответ уже записан.
func target(w http.ResponseWriter, r *http.Request, param string) (int64, uuid.UUID, bool) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return 0, uuid.Nil, false
	}
	id, err := decks.ParseID(r, param)
	if err != nil {
		common.WriteDomainError(w, err)
		return 0, uuid.Nil, false
	}
	return userID, id, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := target(w, r, "deckID")
	if !ok {
		return
	}
	cards, err := h.service.List(r.Context(), userID, deckID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, cards)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := target(w, r, "deckID")
	if !ok {
		return
	}
	var in Input
	if !common.DecodeJSON(w, r, &in) {
		return
	}
	c, err := h.service.Create(r.Context(), userID, deckID, in)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleDue(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := target(w, r, "deckID")
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a number")
			return
		}
		limit = n
	}
	cards, err := h.service.Due(r.Context(), userID, deckID, limit)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, cards)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := target(w, r, "deckID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.importMaxBytes)
	if err := r.ParseMultipartForm(h.importMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File is too large")
			return
		}
		common.WriteError(w, http.StatusBadRequest, "INVALID_FORM", "Expected multipart form with a file field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "INVALID_FORM", "Expected multipart form with a file field")
		return
	}
	defer file.Close()

	result, err := h.service.Import(r.Context(), userID, deckID, header.Filename, file)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"filename": header.Filename,
		"size":     header.Size,
	}).Debug("Файл импорта обработан")
	common.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := target(w, r, "cardID")
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := target(w, r, "cardID")
	if !ok {
		return
	}
	var in Input
	if !common.DecodeJSON(w, r, &in) {
		return
	}
	c, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := target(w, r, "cardID")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		common.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := target(w, r, "cardID")
	if !ok {
		return
	}
	var in ReviewInput
	if !common.DecodeJSON(w, r, &in) {
		return
	}
	c, err := h.service.Review(r.Context(), userID, id, *in.Quality)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, c)
}
