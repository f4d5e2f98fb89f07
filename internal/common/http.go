// Package common: http.go содержит общие помощники для JSON-ответов,
// разбора тела запроса и валидации (validator/v10).
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// WriteJSON пишет payload с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("Ошибка записи JSON-ответа")
	}
}

// WriteError пишет ошибку в едином формате {"error":{"code","message"}}.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// WriteDomainError сопоставляет доменную ошибку HTTP-статусу.
// Неизвестные ошибки логируются и отдаются как 500 без подробностей.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user")
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidQuality),
		errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrEmptyImport),
		errors.Is(err, ErrNoTelegramChat):
		WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.WithError(err).Error("Внутренняя ошибка обработчика")
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

// DecodeJSON читает тело запроса в dst и валидирует его по тегам validate.
// При ошибке сам пишет ответ 400 и возвращает false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	if err := Validate(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// Validate проверяет структуру по тегам validate и возвращает ErrValidation
// с перечнем полей, не прошедших проверку.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}
