package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"serotonyl.ru/ghostcards/internal/common"
)

type fakeAPI struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

type chats map[int64]int64

func (c chats) TelegramChat(_ context.Context, userID int64) (int64, error) {
	id, ok := c[userID]
	if !ok {
		return 0, common.ErrNoTelegramChat
	}
	return id, nil
}

func TestTelegramSender(t *testing.T) {
	api := &fakeAPI{}
	s := &TelegramSender{api: api, chats: chats{1: 555}}

	if err := s.Send(context.Background(), 1, "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.sent) != 1 || api.sent[0].ChatID != 555 || api.sent[0].Text != "hello" {
		t.Fatalf("unexpected messages: %+v", api.sent)
	}

	if err := s.Send(context.Background(), 2, "hello"); !errors.Is(err, common.ErrNoTelegramChat) {
		t.Fatalf("expected ErrNoTelegramChat, got %v", err)
	}

	api.err = errors.New("bot was blocked by the user")
	if err := s.Send(context.Background(), 1, "hello"); err == nil {
		t.Fatal("expected send error")
	}
}

func TestLogSender(t *testing.T) {
	var s Sender = LogSender{}
	if err := s.Send(context.Background(), 1, "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
