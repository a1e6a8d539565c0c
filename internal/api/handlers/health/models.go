package health

const (
	statusOK       = "ok"
	statusDegraded = "unavailable"
)

// Response статус сервиса и его зависимостей
type Response struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}
