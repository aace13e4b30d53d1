package handler

import (
	"net/http"
	"time"

	"telcuotas/internal/apierror"
	"telcuotas/internal/dto"
	"telcuotas/internal/middleware"
	"telcuotas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar pago
// @Description  Registra un pago pendiente de verificación. No valida saldo: el pago adelantado o en exceso se resuelve al verificar.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarPagoRequest true "Datos del pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Verificar godoc
// @Summary      Verificar pago
// @Description  Aprueba o rechaza un pago pendiente. La aprobación reasigna el cronograma y puede cerrar el contrato. Transición única: un pago ya verificado responde 409.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del pago"
// @Param        body body dto.VerificarPagoRequest true "Decisión"
// @Success      200  {object} dto.VerificarPagoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pagos/{id}/verificar [post]
func (h *PagosHandler) Verificar(c *gin.Context) {
	pagoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de pago inválido"))
		return
	}
	var req dto.VerificarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Verificar(c.Request.Context(), pagoID, req.Decision, adminID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
