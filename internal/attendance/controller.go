package attendance

import (
	"errors"
	"log"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/yourorg/arriveontime/internal/cache"
	"github.com/yourorg/arriveontime/internal/events"
	"github.com/yourorg/arriveontime/internal/models"
)

// HistoryKeyPrefix es el prefijo de las entradas de historial en el caché
const HistoryKeyPrefix = "historial:"

// HistoryKey es la key del historial cacheado de un empleado
func HistoryKey(employeeID string) string {
	return HistoryKeyPrefix + employeeID
}

// Controller atiende el registro, historial y eliminación de asistencias
type Controller struct {
	store    Store
	history  *historyCache
	locks    employeeLocks
	events   events.Publisher
	validate *validator.Validate
	now      func() time.Time
}

// NewController crea el controlador. history y pub pueden ser nil.
func NewController(store Store, history *cache.Cache, pub events.Publisher) *Controller {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Controller{
		store:    store,
		history:  newHistoryCache(history),
		events:   pub,
		validate: v,
		now:      time.Now,
	}
}

// RecordAssistance handles POST /record.
func (h *Controller) RecordAssistance(c *fiber.Ctx) error {
	var req models.AttendanceCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(validationResponse(err))
	}

	ctx := c.UserContext()

	// Última marca e inserción no se intercalan para un mismo empleado
	unlock := h.locks.lock(req.EmployeeID)
	defer unlock()

	kind := models.AttendanceType(req.Type)
	if kind == "" {
		// Sin tipo explícito: alterna respecto a la última marca
		last, err := h.store.Last(ctx, req.EmployeeID)
		switch {
		case errors.Is(err, ErrNotFound):
			kind = models.AttendanceEntry
		case err != nil:
			log.Printf("❌ Error consultando última asistencia de %s: %v", req.EmployeeID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
		default:
			kind = last.Type.Next()
		}
	}

	ts := h.now()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		ts = *req.Timestamp
	}

	rec := models.AttendanceRecord{
		EmployeeID: req.EmployeeID,
		Type:       kind,
		Timestamp:  ts,
	}
	if err := h.store.Create(ctx, &rec); err != nil {
		log.Printf("❌ Error registrando asistencia de %s: %v", req.EmployeeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	h.invalidate(rec.EmployeeID)
	h.publish(events.TypeRecorded, rec)
	log.Printf("✅ Asistencia registrada: id=%d, empleado=%s, tipo=%s", rec.ID, rec.EmployeeID, rec.Type)

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetAssistanceHistory handles GET /:employeeId.
func (h *Controller) GetAssistanceHistory(c *fiber.Ctx) error {
	// Params apunta al buffer del request; la copia puede quedar en el caché
	employeeID := utils.CopyString(strings.TrimSpace(c.Params("employeeId")))
	if employeeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "employee id required"})
	}

	if cached, ok := h.history.get(employeeID); ok {
		return c.JSON(cached)
	}
	gen := h.history.generation(employeeID)

	records, err := h.store.ListByEmployee(c.UserContext(), employeeID)
	if err != nil {
		log.Printf("❌ Error consultando historial de %s: %v", employeeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	resp := models.AttendanceHistoryResponse{
		EmployeeID: employeeID,
		Records:    records,
		Count:      len(records),
	}
	h.history.storeIfCurrent(employeeID, gen, resp)
	return c.JSON(resp)
}

// DeleteAssistanceRecord handles DELETE /delete/:id.
func (h *Controller) DeleteAssistanceRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid id"})
	}

	rec, err := h.store.Delete(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "record not found"})
		}
		log.Printf("❌ Error eliminando asistencia %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	h.invalidate(rec.EmployeeID)
	h.publish(events.TypeDeleted, *rec)
	log.Printf("🗑️  Asistencia eliminada: id=%d, empleado=%s", rec.ID, rec.EmployeeID)

	return c.JSON(fiber.Map{
		"message": "Registro de asistencia eliminado",
		"id":      rec.ID,
	})
}

func (h *Controller) invalidate(employeeID string) {
	h.history.invalidate(employeeID)
}

func (h *Controller) publish(kind string, rec models.AttendanceRecord) {
	if h.events != nil {
		h.events.Publish(events.Event{Type: kind, Record: rec})
	}
}

func validationResponse(err error) models.ValidationErrorResponse {
	resp := models.ValidationErrorResponse{Error: "validation failed"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fe.Tag()
		}
	}
	return resp
}
