package httpt

import (
	"context"
	"errors"
	"net/http"

	"phonebook/internal/entity"
	"phonebook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func (h *PhonebookHandler) handleServiceError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	var phoneErr *entity.PhoneFormatError

	switch {
	case errors.As(err, &phoneErr):
		log.LogAttrs(ctx, logger.InfoLevel, "invalid phone number",
			logger.String("op", op),
			logger.String("value", phoneErr.Raw),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: phoneErr.Error()})
	case errors.Is(err, entity.ErrInvalidAddressData):
		log.LogAttrs(ctx, logger.InfoLevel, "invalid address data",
			logger.String("op", op),
			logger.Err(err),
		)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Invalid address data: " + addressDetail(err)})
	case errors.Is(err, entity.ErrPhoneAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Phone number already exists"})
	case errors.Is(err, entity.ErrPhoneNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Phone number not found"})
	case errors.Is(err, context.DeadlineExceeded):
		log.LogAttrs(ctx, logger.WarnLevel, "request timeout",
			logger.String("op", op),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	default:
		log.LogAttrs(ctx, logger.ErrorLevel, "internal server error",
			logger.String("op", op),
			logger.Err(err),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal service error"})
	}
}

// addressDetail extracts the user facing part of an address validation error.
func addressDetail(err error) string {
	var (
		fieldErr     *entity.FieldLengthError
		formattedErr *entity.FormattedLengthError
	)

	switch {
	case errors.As(err, &fieldErr):
		return fieldErr.Error()
	case errors.As(err, &formattedErr):
		return formattedErr.Error()
	case errors.Is(err, errMissingAddress):
		return errMissingAddress.Error()
	default:
		return "request body must be a JSON object with an address"
	}
}
