package handler

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"telcuotas/internal/apierror"
	"telcuotas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so validator tags like
	// gt=0, min=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs validator tags. Returns false
// and writes the error response if either step fails — the caller should
// return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy to HTTP statuses:
// validación 422, no-encontrado 404, estado-inválido 409 (retryable when the
// failure may be a lost race), integridad 500. Unknown errors become an
// opaque 500 — details stay in the logs.
func respondError(c *gin.Context, err error) {
	var valErr *service.ErrorValidacion
	if errors.As(err, &valErr) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(valErr.Campos))
		return
	}
	if errors.Is(err, service.ErrNoEncontrado) {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	var estadoErr *service.ErrorEstadoInvalido
	if errors.As(err, &estadoErr) {
		if estadoErr.Reintentable {
			c.JSON(http.StatusConflict, apierror.NewRetryable(estadoErr.Motivo))
		} else {
			c.JSON(http.StatusConflict, apierror.New(estadoErr.Motivo))
		}
		return
	}
	var intErr *service.ErrorIntegridad
	if errors.As(err, &intErr) {
		c.JSON(http.StatusInternalServerError, apierror.New(intErr.Error()))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
}

// parseCorte reads the optional ?corte=YYYY-MM-DD evaluation date. Balances
// are pure functions of the cut-off, so reports can be replayed for any day.
func parseCorte(c *gin.Context) (time.Time, bool) {
	raw := c.Query("corte")
	if raw == "" {
		return time.Now(), true
	}
	corte, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
			"corte": "formato esperado YYYY-MM-DD",
		}))
		return time.Time{}, false
	}
	return corte, true
}
