package service

// errors.go — domain error taxonomy shared by all services.
// Handlers map these to HTTP statuses; everything else is treated as a 500.
// The split the caller cares about: validation and not-found are correctable,
// estado-inválido may be a lost race (retry can help), integridad means the
// stored data is wrong (retry cannot help).

import (
	"errors"
	"fmt"
)

// ErrNoEncontrado wraps lookups of contracts/payments/discounts that do not
// exist. Use with fmt.Errorf("%w: …") to carry the id.
var ErrNoEncontrado = errors.New("registro no encontrado")

// ErrorValidacion is malformed input. Nothing was persisted.
type ErrorValidacion struct {
	Campos map[string]string
}

func (e *ErrorValidacion) Error() string {
	return fmt.Sprintf("validacion fallida: %v", e.Campos)
}

func validacion(campo, motivo string) *ErrorValidacion {
	return &ErrorValidacion{Campos: map[string]string{campo: motivo}}
}

// ErrorEstadoInvalido is an illegal transition: verifying an already-verified
// payment, discounting a closed contract, regenerating an existing schedule.
// Reintentable is true only when the failure can be a lost race.
type ErrorEstadoInvalido struct {
	Motivo       string
	Reintentable bool
}

func (e *ErrorEstadoInvalido) Error() string { return e.Motivo }

// ErrorIntegridad is detected corruption (e.g. a renta contract with zero
// cuotas). The computation that found it must fail rather than report a
// default balance; retrying will not help.
type ErrorIntegridad struct {
	Motivo string
}

func (e *ErrorIntegridad) Error() string { return "integridad de datos: " + e.Motivo }
