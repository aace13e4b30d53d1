package handler

import (
	"net/http"

	"telcuotas/internal/dto"
	"telcuotas/internal/service"

	"github.com/gin-gonic/gin"
)

type ContratosHandler struct{ svc service.ContratoService }

func NewContratosHandler(svc service.ContratoService) *ContratosHandler {
	return &ContratosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear contrato
// @Description  Crea un contrato renta (con cronograma de cuotas) o contado (cerrado al firmarse). Atómico: contrato y cronograma se crean juntos o no se crean.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearContratoRequest true "Términos del contrato"
// @Success      201  {object} dto.ContratoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/contratos [post]
func (h *ContratosHandler) Crear(c *gin.Context) {
	var req dto.CrearContratoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerDetalle godoc
// @Summary      Detalle de contrato
// @Description  Retorna el contrato con cronograma, pagos, descuentos y saldo evaluado a la fecha de corte (query corte, default hoy).
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "ID de contrato (CT00001)"
// @Param        corte query string false "Fecha de corte YYYY-MM-DD"
// @Success      200  {object} dto.DetalleContratoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      500  {object} apierror.APIError
// @Router       /v1/contratos/{id} [get]
func (h *ContratosHandler) ObtenerDetalle(c *gin.Context) {
	corte, ok := parseCorte(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerDetalle(c.Request.Context(), c.Param("id"), corte)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
