package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

type AuditHandler struct {
	auditService ports.AuditService
}

func NewAuditHandler(auditService ports.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

type listEventsQuery struct {
	Subject string `query:"subject" validate:"required"`
	Limit   int64  `query:"limit"`
}

// ListEvents returns recent auth events for a subject, newest first.
// Admins only.
//
// @Summary      List auth audit events
// @Tags         audit
// @Produce      json
// @Param        subject  query     string  true   "Subject email"
// @Param        limit    query     int     false  "Maximum events to return"
// @Success      200      {array}   domain.AuthEvent
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /audit/events [get]
func (h *AuditHandler) ListEvents(c echo.Context) error {
	var q listEventsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	events, err := h.auditService.ListBySubject(c.Request().Context(), q.Subject, q.Limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.AuthEvent{}
	}
	return c.JSON(http.StatusOK, events)
}
