package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON (o query) del campo, igual que el cuerpo que envió el cliente.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct ejecuta las reglas `validate` y devuelve la primera falla como *domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("body", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fieldPath(fe), validationMessage(fe))
}

// fieldPath quita el nombre del struct raíz: "CreateMovementRequest.lines[0].item_id" -> "lines[0].item_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "requerido"
	case "uuid":
		return "debe ser un UUID"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe tener al menos " + fe.Param() + " elemento(s)"
		}
		return "debe ser al menos " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "máximo " + fe.Param() + " caracteres"
		}
		return "debe ser como máximo " + fe.Param()
	default:
		return "valor inválido"
	}
}

// Formatos aceptados en filtros de fecha.
const dateOnly = "2006-01-02"

// parseTimeQuery lee un parámetro de fecha en RFC3339 o AAAA-MM-DD. Con endOfDay, una fecha
// sin hora se toma hasta el último instante de ese día.
func parseTimeQuery(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "fecha inválida, use RFC3339 o AAAA-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// pathID lee el parámetro :id y exige que sea un UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.NewValidationError("id", "debe ser un UUID")
	}
	return id, nil
}

// optionalUUID lee un parámetro de query que, si viene, debe ser un UUID.
func optionalUUID(c *fiber.Ctx, name string) (string, error) {
	v := c.Query(name)
	if v == "" {
		return "", nil
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", domain.NewValidationError(name, "debe ser un UUID")
	}
	return v, nil
}
