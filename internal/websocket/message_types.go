package websocket

// Типы сообщений потока состояния попытки
const (
	// ATTEMPT_STATUS — периодический срез состояния (раз в TickInterval)
	ATTEMPT_STATUS = "ATTEMPT_STATUS"

	// ATTEMPT_ENDED отправляется один раз после завершения попытки, затем соединение закрывается
	ATTEMPT_ENDED = "ATTEMPT_ENDED"

	// SESSION_CLOSED — сессия удалена или истекла
	SESSION_CLOSED = "SESSION_CLOSED"
)

// Event — конверт исходящего сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
