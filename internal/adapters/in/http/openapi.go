package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yml
var openAPIDocument []byte

var registerSwagger sync.Once

// OpenAPI is the loaded API description. It validates incoming requests and
// backs the swagger UI.
type OpenAPI struct {
	doc    *openapi3.T
	router routers.Router
	json   []byte
}

func LoadOpenAPI(ctx context.Context) (*OpenAPI, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	o := &OpenAPI{doc: doc, router: router, json: data}
	registerSwagger.Do(func() {
		swag.Register(swag.Name, &swag.Spec{
			Version:          doc.Info.Version,
			Title:            doc.Info.Title,
			Description:      doc.Info.Description,
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(data),
		})
	})
	return o, nil
}

func (o *OpenAPI) JSON() []byte {
	return o.json
}

func (o *OpenAPI) Operations() int {
	n := 0
	for _, item := range o.doc.Paths.Map() {
		n += len(item.Operations())
	}
	return n
}

// Validator checks path, query and body against the document. Requests the
// document does not describe pass through untouched.
func (o *OpenAPI) Validator(skip func(c echo.Context) bool) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			req := c.Request()
			route, pathParams, err := o.router.FindRoute(req)
			if err != nil {
				var routeErr *routers.RouteError
				if errors.As(err, &routeErr) {
					return next(c)
				}
				return err
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return fmt.Errorf("%w: %s", ErrBadRequest, validationMessage(err))
			}
			return next(c)
		}
	}
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			reason := reqErr.Reason
			if reason == "" && reqErr.Err != nil {
				reason = reqErr.Err.Error()
			}
			return fmt.Sprintf("parameter %q: %s", reqErr.Parameter.Name, reason)
		}
		if reqErr.Err != nil {
			return fmt.Sprintf("request body: %s", reqErr.Err.Error())
		}
		return reqErr.Error()
	}
	return err.Error()
}
