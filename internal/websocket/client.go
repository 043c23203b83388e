// Package websocket отдает клиенту поток состояния попытки через WebSocket.
package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Клиент ничего не присылает, кроме control-фреймов
	maxMessageSize = 512

	// Таймер в интерфейсе обновляется раз в секунду
	defaultTickInterval = time.Second
)

// ClientConfig содержит настройки для клиента
type ClientConfig struct {
	// TickInterval определяет частоту отправки состояния
	TickInterval time.Duration

	// PingInterval определяет интервал между ping-сообщениями
	PingInterval time.Duration

	// PongWait определяет время ожидания pong-ответа
	PongWait time.Duration

	// WriteWait определяет тайм-аут для записи сообщений
	WriteWait time.Duration

	// MaxMessageSize определяет максимальный размер сообщения
	MaxMessageSize int64
}

// DefaultClientConfig возвращает конфигурацию клиента по умолчанию
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		TickInterval:   defaultTickInterval,
		PingInterval:   pingPeriod,
		PongWait:       pongWait,
		WriteWait:      writeWait,
		MaxMessageSize: maxMessageSize,
	}
}

// StatusFunc возвращает очередное событие. final == true закрывает поток после отправки.
type StatusFunc func() (event Event, final bool)

// Client является посредником между WebSocket соединением и сессией.
type Client struct {
	// ID сессии
	SessionID string

	// Уникальный ID для каждого соединения
	ConnectionID string

	conn   *websocket.Conn
	config ClientConfig

	// Закрывается readPump при разрыве соединения
	done chan struct{}
}

// NewClient создает клиента для установленного соединения
func NewClient(conn *websocket.Conn, sessionID string, config ClientConfig) *Client {
	if config.TickInterval <= 0 {
		config.TickInterval = defaultTickInterval
	}
	if config.PingInterval <= 0 {
		config.PingInterval = pingPeriod
	}
	if config.PongWait <= 0 {
		config.PongWait = pongWait
	}
	if config.WriteWait <= 0 {
		config.WriteWait = writeWait
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = maxMessageSize
	}
	return &Client{
		SessionID:    sessionID,
		ConnectionID: uuid.NewString(),
		conn:         conn,
		config:       config,
		done:         make(chan struct{}),
	}
}

// Stream запускает чтение control-фреймов и блокируется в цикле записи до разрыва
// соединения или финального события.
func (c *Client) Stream(status StatusFunc) {
	go c.readPump()
	c.writePump(status)
}

// readPump обрабатывает pong и close. Данные от клиента игнорируются.
func (c *Client) readPump() {
	defer close(c.done)

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("WebSocket Client Read Error (SessionID: %s, ConnID: %s): %v", c.SessionID, c.ConnectionID, err)
			}
			return
		}
	}
}

// writePump отправляет состояние по таймеру и ping для поддержания соединения
func (c *Client) writePump(status StatusFunc) {
	ticker := time.NewTicker(c.config.TickInterval)
	pinger := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		pinger.Stop()
		c.conn.Close()
		log.Printf("WebSocket Client Write Pump STOPPED for SessionID: %s, ConnID: %s", c.SessionID, c.ConnectionID)
	}()

	log.Printf("WebSocket Client Write Pump STARTED for SessionID: %s, ConnID: %s", c.SessionID, c.ConnectionID)

	// Первое состояние уходит сразу, не дожидаясь тика
	if done := c.sendStatus(status); done {
		return
	}

	for {
		select {
		case <-c.done:
			return

		case <-ticker.C:
			if done := c.sendStatus(status); done {
				return
			}

		case <-pinger.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket Client Ping Error (SessionID: %s, ConnID: %s): %v", c.SessionID, c.ConnectionID, err)
				return
			}
		}
	}
}

// sendStatus пишет одно событие и сообщает, нужно ли завершить поток
func (c *Client) sendStatus(status StatusFunc) bool {
	event, final := status()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WebSocket Client Marshal Error (SessionID: %s): %v", c.SessionID, err)
		return true
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
		return true
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("WebSocket Client Write Error (SessionID: %s, ConnID: %s): %v", c.SessionID, c.ConnectionID, err)
		return true
	}

	if final {
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, event.Type))
	}
	return final
}
