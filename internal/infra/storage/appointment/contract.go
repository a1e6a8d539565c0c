package appointment

import "github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// scanner общий интерфейс *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
