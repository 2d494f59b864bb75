package httpt

import (
	"errors"
	"fmt"
	"net/http"

	"phonebook/internal/entity"
	"phonebook/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	_statusHealthy   = "healthy"
	_statusUnhealthy = "unhealthy"
)

var errMissingAddress = errors.New("address object is required")

func (h *PhonebookHandler) welcomeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, WelcomeResponse{Message: "Welcome to the " + h.appName})
}

func (h *PhonebookHandler) healthHandler(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "health check failed",
			logger.Err(err),
		)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: _statusUnhealthy, APIVersion: h.apiVersion})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: _statusHealthy, APIVersion: h.apiVersion})
}

func (h *PhonebookHandler) createAddressHandler(c *gin.Context) {
	const op = "transport.createAddressHandler"

	fields, err := bindAddress(c)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	result, err := h.svc.CreateAddress(c.Request.Context(), c.Param("phone"), *fields)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *PhonebookHandler) getAddressHandler(c *gin.Context) {
	const op = "transport.getAddressHandler"

	result, err := h.svc.GetAddress(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PhonebookHandler) updateAddressHandler(c *gin.Context) {
	const op = "transport.updateAddressHandler"

	fields, err := bindAddress(c)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	result, err := h.svc.UpdateAddress(c.Request.Context(), c.Param("phone"), *fields)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PhonebookHandler) deleteAddressHandler(c *gin.Context) {
	const op = "transport.deleteAddressHandler"

	if err := h.svc.DeleteAddress(c.Request.Context(), c.Param("phone")); err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindAddress decodes the request body. Decoding failures are reported as
// invalid address data.
func bindAddress(c *gin.Context) (*entity.AddressFields, error) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidAddressData, err)
	}
	if req.Address == nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidAddressData, errMissingAddress)
	}
	return req.Address, nil
}
