// Package streak: handlers.go отдаёт прогресс стрика и галерею прошлых серий по HTTP.
package streak

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
	"serotonyl.ru/ghostcards/internal/features/gallery"
)

// Handler обрабатывает запросы стрик-системы и галереи.
type Handler struct {
	service  *Service
	sessions *gallery.Sessions
}

// NewHandler создаёт новый обработчик стрик-запросов.
func NewHandler(service *Service, sessions *gallery.Sessions) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Register вешает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/streak", h.handleStatus)
	r.Get("/streak/history", h.handleHistory)

	r.Route("/gallery", func(r chi.Router) {
		r.Post("/", h.handleOpenGallery)
		r.Get("/{galleryID}", h.handleGetGallery)
		r.Post("/{galleryID}/select", h.handleSelect)
		r.Delete("/{galleryID}", h.handleCloseGallery)
	})
}

type galleryResponse struct {
	GalleryID uuid.UUID    `json:"galleryId"`
	View      gallery.View `json:"view"`
}

type selectRequest struct {
	Index *int `json:"index" validate:"required"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	status, err := h.service.GetStatus(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	history, err := h.service.History(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, history)
}

func (h *Handler) handleOpenGallery(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return
	}
	history, err := h.service.History(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}

	id := h.sessions.Open(userID)
	view, err := h.render(userID, id, history, nil)
	if err != nil {
		_ = h.sessions.Close(userID, id)
		writeGalleryError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"gallery_id": id,
		"entries":    len(view.Entries),
	}).Debug("Галерея открыта")
	common.WriteJSON(w, http.StatusCreated, galleryResponse{GalleryID: id, View: view})
}

func (h *Handler) handleGetGallery(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.galleryRequest(w, r)
	if !ok {
		return
	}
	history, err := h.service.History(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}
	view, err := h.render(userID, id, history, nil)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, galleryResponse{GalleryID: id, View: view})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.galleryRequest(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if !common.DecodeJSON(w, r, &req) {
		return
	}
	history, err := h.service.History(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, err)
		return
	}

	view, err := h.render(userID, id, history, func(g *gallery.Gallery) error {
		return g.Select(*req.Index)
	})
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, galleryResponse{GalleryID: id, View: view})
}

func (h *Handler) handleCloseGallery(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.galleryRequest(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Close(userID, id); err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// render перерисовывает галерею под замком реестра. Жест применяется после
// отрисовки свежего архива, чтобы индекс проверялся по актуальному числу серий.
func (h *Handler) render(userID int64, id uuid.UUID, history History, gesture func(*gallery.Gallery) error) (gallery.View, error) {
	var view gallery.View
	err := h.sessions.With(userID, id, func(g *gallery.Gallery) error {
		var err error
		view, err = g.Render(history.PastStreaks, history.Longest, history.Current)
		if err != nil || gesture == nil {
			return err
		}
		if err := gesture(g); err != nil {
			return err
		}
		view, err = g.Render(history.PastStreaks, history.Longest, history.Current)
		return err
	})
	return view, err
}

func (h *Handler) galleryRequest(w http.ResponseWriter, r *http.Request) (int64, uuid.UUID, bool) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteDomainError(w, common.ErrUnauthorized)
		return 0, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "galleryID"))
	if err != nil {
		common.WriteError(w, http.StatusNotFound, "GALLERY_NOT_FOUND", "Gallery not found")
		return 0, uuid.Nil, false
	}
	return userID, id, true
}

func writeGalleryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrGalleryNotFound), errors.Is(err, gallery.ErrGalleryClosed):
		common.WriteError(w, http.StatusNotFound, "GALLERY_NOT_FOUND", "Gallery not found")
	case errors.Is(err, gallery.ErrSelectionOutOfRange):
		common.WriteError(w, http.StatusBadRequest, "SELECTION_OUT_OF_RANGE", err.Error())
	default:
		common.WriteDomainError(w, err)
	}
}
