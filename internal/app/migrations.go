package app

import "serotonyl.ru/ghostcards/internal/db/postgres"

// Схема встроена в бинарник, отдельных .sql файлов при деплое не нужно.
var migrations = []postgres.Migration{
	{Version: 1, Name: "users", SQL: migration001Users},
	{Version: 2, Name: "decks", SQL: migration002Decks},
	{Version: 3, Name: "cards", SQL: migration003Cards},
	{Version: 4, Name: "streaks", SQL: migration004Streaks},
	{Version: 5, Name: "past_streaks", SQL: migration005PastStreaks},
}

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    external_id VARCHAR(128) UNIQUE NOT NULL,
    telegram_chat_id BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration002Decks = `
CREATE TABLE IF NOT EXISTS decks (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(120) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_decks_user_id ON decks(user_id, created_at DESC);
`

var migration003Cards = `
CREATE TABLE IF NOT EXISTS cards (
    id UUID PRIMARY KEY,
    deck_id UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    easiness_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
    interval_days INTEGER NOT NULL DEFAULT 0,
    repetitions INTEGER NOT NULL DEFAULT 0,
    last_quality INTEGER,
    due_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_reviewed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_cards_deck_due ON cards(deck_id, due_at);
`

var migration004Streaks = `
CREATE TABLE IF NOT EXISTS streaks (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    reviews_today INTEGER NOT NULL DEFAULT 0,
    quota_completed_today BOOLEAN NOT NULL DEFAULT FALSE,
    streak_started_on DATE,
    last_quota_completion DATE,
    last_review_at TIMESTAMPTZ,
    total_quotas_completed INTEGER NOT NULL DEFAULT 0,
    reminder_sent_today BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_streaks_current ON streaks(current_streak);
`

var migration005PastStreaks = `
CREATE TABLE IF NOT EXISTS past_streaks (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    streak_length INTEGER NOT NULL CHECK (streak_length > 0),
    start_date DATE NOT NULL,
    end_date DATE NOT NULL CHECK (end_date >= start_date),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_past_streaks_user ON past_streaks(user_id, end_date);
`
