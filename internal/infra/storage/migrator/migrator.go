package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migrator обёртка над goose для встроенных миграций
type Migrator struct {
	db     *sql.DB
	logger Logger
}

// New создаёт мигратор для PostgreSQL
func New(db *sql.DB, fsys fs.FS, logger Logger) (*Migrator, error) {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetLogger(gooseLogger{logger})

	return &Migrator{db: db, logger: logger}, nil
}

// Up применяет все pending миграции
func (m *Migrator) Up(ctx context.Context) error {
	m.logger.Info("Migrator: applying database migrations")

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("Migrator: migrations applied, version=%d", version)
	return nil
}

// Down откатывает последнюю миграцию
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// Version текущая версия схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// gooseLogger адаптер логгера сервиса к goose.Logger
type gooseLogger struct {
	l Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Info("goose: "+format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	panic(fmt.Sprintf("goose: "+format, v...))
}
