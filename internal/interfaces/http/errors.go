package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errorStatus traduce un error de dominio a código HTTP y código de error.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrStorageFailure):
		return fiber.StatusInternalServerError, "STORAGE_FAILURE"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe {success:false, message, error}. Los 500 no exponen el detalle interno.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno del almacén, intente nuevamente"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Message: msg, Error: code})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Message: msg, Error: code})
}

func ok(c *fiber.Ctx, status int, msg string, data interface{}) error {
	return c.Status(status).JSON(dto.SuccessResponse{Success: true, Message: msg, Data: data})
}

// decodeBody decodifica JSON rechazando campos desconocidos y valida los tags `validate`.
func decodeBody(c *fiber.Ctx, dst interface{}) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: cuerpo vacío", domain.ErrInvalidInput)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: cuerpo inválido: %v", domain.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: cuerpo inválido: contenido adicional", domain.ErrInvalidInput)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// ErrorHandler handler de errores de fiber (rutas inexistentes, pánicos recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest:
			code = "INVALID_ARGUMENT"
		}
		return fail(c, fe.Code, code, fe.Message)
	}
	return respondError(c, err)
}
