package controller

import (
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger parses the embedded OpenAPI document used by the request
// validator middleware.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, err
	}
	if err := swagger.Validate(loader.Context); err != nil {
		return nil, err
	}
	return swagger, nil
}
