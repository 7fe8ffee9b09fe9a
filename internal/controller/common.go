package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Reason string `json:"reason"`
}

// Pagination is embedded in list inputs. It stays exported so echo's binder fills it.
type Pagination struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

func (p Pagination) pagination() *entity.PaginationInput {
	return entity.NewPaginationInput(p.Limit, p.Offset)
}

func newPagination() Pagination {
	return Pagination{Limit: entity.DefaultPageLimit}
}

// bind decodes the request into input and validates it. On failure the 400 is
// already written and the returned error is for the middleware.
func bind(c echo.Context, v *validator.Validate, input any) error {
	if err := c.Bind(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	return validate(c, v, input)
}

func validate(c echo.Context, v *validator.Validate, input any) error {
	if err := v.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	return nil
}

// pathId parses a uuid path parameter, writing a 400 when it isn't one.
func pathId(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{fmt.Sprintf("'%s': should be a uuid", name)}); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	return id, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}

	return &t
}

func optionalString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}

	return &s
}

// respondError maps service error kinds to status codes.
func respondError(c echo.Context, err error) error {
	status, reason := http.StatusInternalServerError, "Internal error"
	switch {
	case errors.Is(err, service.ErrValidation):
		status, reason = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, reason = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrPrecondition):
		status, reason = http.StatusConflict, err.Error()
	}

	if e := c.JSON(status, errorResponse{reason}); e != nil {
		return e
	}

	return err
}

func respond(c echo.Context, status int, body any) error {
	if e := c.JSON(status, body); e != nil {
		return e
	}

	return nil
}

func getAllErrorMessages(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var builder strings.Builder
	for _, fe := range ve {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return getMessageForNumber(fe)
	case reflect.Slice, reflect.Map:
		return getMessageForCollection(fe)
	}

	if fe.Tag() == "required" {
		return "this field is required"
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "uuid":
		return "should be a uuid"
	case "datetime":
		return "should be a date formatted as " + fe.Param()
	case "url":
		return "should be a url"
	}

	return "incorrect value passed"
}

func getMessageForCollection(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "should have at least " + fe.Param() + " element(s)"
	case "max":
		return "should have at most " + fe.Param() + " element(s)"
	}

	return "incorrect value passed"
}
