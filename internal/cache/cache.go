package cache

import (
	"strings"
	"sync"
	"time"
)

// ============================================================================
// CACHÉ EN MEMORIA CON TTL
// ============================================================================
// Guarda respuestas de historial de asistencia por empleado. Las escrituras
// (registro o eliminación) invalidan la key del empleado afectado.
//
// Uso:
//   c := New(30*time.Second, time.Minute)
//   c.Set("historial:E123", records)
//   if v, ok := c.Get("historial:E123"); ok { ... }

type entry struct {
	value     interface{}
	expiresAt int64 // UnixNano, 0 = sin expiración
}

// Cache es un almacén key-value thread-safe con expiración
type Cache struct {
	mu       sync.RWMutex
	items    map[string]entry
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// Stats resume el contenido actual del caché
type Stats struct {
	TotalItems   int `json:"total_items"`
	ExpiredItems int `json:"expired_items"`
	ValidItems   int `json:"valid_items"`
}

// New crea un caché con TTL por defecto y una goroutine de limpieza
// que corre cada cleanupInterval.
func New(ttl, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]entry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go c.janitor(cleanupInterval)
	return c
}

// Set guarda value con el TTL por defecto
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL guarda value con un TTL propio. ttl <= 0 no expira.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	c.mu.Lock()
	c.items[key] = entry{value: value, expiresAt: exp}
	c.mu.Unlock()
}

// Get retorna (valor, true) si la key existe y no expiró
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(time.Now().UnixNano()) {
		c.Delete(key)
		return nil, false
	}
	return it.value, true
}

// Delete elimina una key
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix elimina todas las keys con el prefijo dado y retorna cuántas borró
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			n++
		}
	}
	return n
}

// Clear vacía el caché
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]entry)
	c.mu.Unlock()
}

// Count retorna el número de items (incluye expirados aún no limpiados)
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// GetStats cuenta items válidos y expirados
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{TotalItems: len(c.items)}
	now := time.Now().UnixNano()
	for _, it := range c.items {
		if it.expired(now) {
			s.ExpiredItems++
		} else {
			s.ValidItems++
		}
	}
	return s
}

// Stop detiene la limpieza periódica. Es seguro llamarlo más de una vez.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) janitor(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
		}
	}
}

func (e entry) expired(now int64) bool {
	return e.expiresAt > 0 && now > e.expiresAt
}
