// Package common: errors.go определяет доменные ошибки,
// которые используются во всех модулях сервиса.
// Обработчики различают их через errors.Is и отдают клиенту понятный код.
package common

import "errors"

// Общие ошибки
var (
	// ErrNotFound: запись не найдена или принадлежит другому пользователю
	ErrNotFound = errors.New("запись не найдена")
	// ErrUnauthorized: запрос без идентификатора пользователя
	ErrUnauthorized = errors.New("пользователь не определён")
	// ErrValidation: тело запроса не прошло валидацию
	ErrValidation = errors.New("некорректные данные запроса")
)

// Ошибки карточек
var (
	// ErrInvalidQuality: оценка ответа вне диапазона 0..5
	ErrInvalidQuality = errors.New("оценка должна быть от 0 до 5")
	// ErrUnsupportedFile: импорт поддерживает только .xlsx и .csv
	ErrUnsupportedFile = errors.New("поддерживаются только файлы .xlsx и .csv")
	// ErrEmptyImport: в файле нет ни одной строки с карточками
	ErrEmptyImport = errors.New("файл не содержит карточек")
)

// Ошибки напоминаний
var (
	// ErrNoTelegramChat: пользователь не привязал Telegram
	ErrNoTelegramChat = errors.New("telegram не привязан")
)
