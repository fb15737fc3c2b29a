package dto

import "github.com/go-playground/validator/v10"

// ErrorResponse respuesta estándar de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New()

// Validate valida un DTO según sus tags `validate`. Devuelve el error del
// validador para que el handler responda 400 con el detalle.
func Validate(v any) error {
	return validate.Struct(v)
}
