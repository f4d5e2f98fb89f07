package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migration: одна версия схемы.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrate применяет миграции по возрастанию версии.
// Уже применённые версии (schema_migrations) пропускаются.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations []Migration) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	ordered, err := sortMigrations(migrations)
	if err != nil {
		return err
	}

	for _, m := range ordered {
		applied, err := execMigration(ctx, pool, m)
		if err != nil {
			return fmt.Errorf("миграция %d (%s): %w", m.Version, m.Name, err)
		}
		if applied {
			log.WithField("version", m.Version).Infof("Миграция %s применена", m.Name)
		}
	}
	return nil
}

// sortMigrations возвращает копию, отсортированную по версии, и ловит дубли.
func sortMigrations(migrations []Migration) ([]Migration, error) {
	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Version == ordered[i-1].Version {
			return nil, fmt.Errorf("повторяющаяся версия миграции %d", ordered[i].Version)
		}
	}
	return ordered, nil
}

// execMigration выполняет миграцию в транзакции вместе с записью версии.
func execMigration(ctx context.Context, pool *pgxpool.Pool, m Migration) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return false, fmt.Errorf("ошибка выполнения: %w", err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.Version); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}
	return true, tx.Commit(ctx)
}
