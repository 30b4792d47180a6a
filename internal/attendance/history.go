package attendance

import (
	"sync"

	"github.com/yourorg/arriveontime/internal/cache"
	"github.com/yourorg/arriveontime/internal/models"
)

// historyCache guarda el historial por empleado con un contador de generación.
// Una lectura solo se cachea si ninguna escritura invalidó al empleado
// mientras se consultaba la base de datos.
type historyCache struct {
	mu    sync.Mutex
	items *cache.Cache
	gen   map[string]uint64
}

func newHistoryCache(items *cache.Cache) *historyCache {
	return &historyCache{items: items, gen: make(map[string]uint64)}
}

func (h *historyCache) get(employeeID string) (models.AttendanceHistoryResponse, bool) {
	if h.items == nil {
		return models.AttendanceHistoryResponse{}, false
	}
	v, ok := h.items.Get(HistoryKey(employeeID))
	if !ok {
		return models.AttendanceHistoryResponse{}, false
	}
	resp, ok := v.(models.AttendanceHistoryResponse)
	return resp, ok
}

// generation se lee antes de consultar el store
func (h *historyCache) generation(employeeID string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen[employeeID]
}

// storeIfCurrent cachea resp solo si la generación no cambió desde gen
func (h *historyCache) storeIfCurrent(employeeID string, gen uint64, resp models.AttendanceHistoryResponse) bool {
	if h.items == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen[employeeID] != gen {
		return false
	}
	h.items.Set(HistoryKey(employeeID), resp)
	return true
}

func (h *historyCache) invalidate(employeeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen[employeeID]++
	if h.items != nil {
		h.items.Delete(HistoryKey(employeeID))
	}
}

// employeeLocks serializa las marcas de un mismo empleado
type employeeLocks struct {
	mu    sync.Mutex
	locks map[string]*employeeLock
}

type employeeLock struct {
	mu   sync.Mutex
	refs int
}

// lock bloquea al empleado y retorna la función que lo libera
func (l *employeeLocks) lock(employeeID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*employeeLock)
	}
	el, ok := l.locks[employeeID]
	if !ok {
		el = &employeeLock{}
		l.locks[employeeID] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()
	return func() {
		el.mu.Unlock()
		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, employeeID)
		}
		l.mu.Unlock()
	}
}
