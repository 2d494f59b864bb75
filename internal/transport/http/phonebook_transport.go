package httpt

import (
	"context"

	"phonebook/internal/config"
	"phonebook/internal/entity"
	"phonebook/pkg/logger"
	"phonebook/pkg/metric"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=phonebook_transport.go -destination=mock/service.go -package=mock_httpt

type AddressService interface {
	CreateAddress(ctx context.Context, rawPhone string, fields entity.AddressFields) (*entity.PhoneAddress, error)
	GetAddress(ctx context.Context, rawPhone string) (*entity.PhoneAddress, error)
	UpdateAddress(ctx context.Context, rawPhone string, fields entity.AddressFields) (*entity.PhoneAddress, error)
	DeleteAddress(ctx context.Context, rawPhone string) error
	Ping(ctx context.Context) error
}

type PhonebookHandler struct {
	svc        AddressService
	log        logger.Logger
	metrics    metric.HTTP
	router     *gin.Engine
	appName    string
	apiVersion string
}

func NewPhonebookHandler(
	svc AddressService,
	app *config.App,
	log logger.Logger,
	metrics metric.HTTP,
) *PhonebookHandler {
	h := &PhonebookHandler{
		svc:        svc,
		log:        log,
		metrics:    metrics,
		appName:    app.Name,
		apiVersion: app.APIVersion,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router

	h.setupRoutes()

	return h
}

func (h *PhonebookHandler) Engine() *gin.Engine {
	return h.router
}
