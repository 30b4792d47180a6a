package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/yourorg/arriveontime/internal/models"
)

// Tipos de evento del feed de asistencia
const (
	TypeRecorded = "asistencia_registrada"
	TypeDeleted  = "asistencia_eliminada"
)

// Event es el mensaje que reciben los clientes conectados a /ws/asistencias
type Event struct {
	Type   string                  `json:"type"`
	Record models.AttendanceRecord `json:"record"`
	SentAt time.Time               `json:"sent_at"`
}

// Publisher publica eventos de asistencia. Lo implementa *Hub.
type Publisher interface {
	Publish(ev Event)
}

// client es lo mínimo que el hub necesita de una conexión websocket
type client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub mantiene las conexiones del feed y reparte los eventos
type Hub struct {
	clients    map[client]bool
	broadcast  chan []byte
	register   chan client
	unregister chan client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub crea un hub sin clientes. Run debe correr en su propia goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan client),
		unregister: make(chan client),
		done:       make(chan struct{}),
	}
}

// Run procesa registros, bajas y broadcasts hasta que ctx se cancela
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Feed de asistencia: cliente conectado. Total clientes: %d", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Feed de asistencia: cliente desconectado. Total clientes: %d", total)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Printf("Error enviando evento al cliente: %v", err)
					c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Handle atiende una conexión websocket hasta que el cliente se desconecta
func (h *Hub) Handle(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()

	// Los clientes no envían comandos; solo se lee para detectar el cierre
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount retorna el número de clientes conectados
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish encola el evento para todos los clientes. Sin clientes, o con el
// buffer lleno, el evento se descarta.
func (h *Hub) Publish(ev Event) {
	if h.ClientCount() == 0 {
		return
	}
	if ev.SentAt.IsZero() {
		ev.SentAt = time.Now()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error al serializar evento %s: %v", ev.Type, err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// buffer lleno, saltar evento
	}
}
