package dto

import "github.com/shopspring/decimal"

// CrearClienteRequest mirrors the minimal customer record the engine needs;
// the CRM collaborator owns the rest of the profile.
type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,max=120"`
	Telefono *string `json:"telefono" validate:"omitempty,max=30"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
	Activo   bool    `json:"activo"`
}

type CrearEquipoRequest struct {
	Marca       string          `json:"marca"        validate:"required,max=60"`
	Modelo      string          `json:"modelo"       validate:"required,max=80"`
	IMEI        string          `json:"imei"         validate:"required,min=14,max=20"`
	PrecioLista decimal.Decimal `json:"precio_lista" validate:"required,gt=0"`
}

type EquipoResponse struct {
	ID          string          `json:"id"`
	Marca       string          `json:"marca"`
	Modelo      string          `json:"modelo"`
	IMEI        string          `json:"imei"`
	PrecioLista decimal.Decimal `json:"precio_lista"`
	Vendido     bool            `json:"vendido"`
}
