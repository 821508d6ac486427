package http

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &id)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: %s: %w", ErrBadRequest, name, err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func pathString(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBadRequest, name, err)
	}
	return value, nil
}

// optionalQuery binds a query parameter into a pointer; absent parameters stay nil.
func optionalQuery[T any](c echo.Context, name string) (*T, error) {
	var value *T
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &value); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadRequest, name, err)
	}
	return value, nil
}

func optionalUUID(field string, value *string) (*kernel.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil //nolint:nilnil // absent optional id
	}
	id, err := kernel.UUIDFromString(*value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadRequest, field, err)
	}
	return &id, nil
}

func requiredUUID(field, value string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: %s: %w", ErrBadRequest, field, err)
	}
	return id, nil
}

func bindBody(c echo.Context, dest any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	if err := (&echo.DefaultBinder{}).BindBody(c, dest); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
