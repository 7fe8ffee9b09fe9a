package controller

import (
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, log logrus.FieldLogger) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	handler.Use(requestLogger(log))

	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newJobRoutesHandler(api, services, validate)
	newBidRoutesHandler(api, services, validate)
	newProgressRoutesHandler(api, services, validate)
	newMaterialRoutesHandler(api, services, validate)
	newOrderRoutesHandler(api, services, validate)
}
