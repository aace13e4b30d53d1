package handler

import (
	"net/http"

	"telcuotas/internal/apierror"
	"telcuotas/internal/dto"
	"telcuotas/internal/service"

	"github.com/gin-gonic/gin"
)

type SeguimientoHandler struct{ svc service.SeguimientoService }

func NewSeguimientoHandler(svc service.SeguimientoService) *SeguimientoHandler {
	return &SeguimientoHandler{svc: svc}
}

// Listar godoc
// @Summary      Seguimiento de contratos
// @Description  Lista paginada de contratos con saldo, meses vencidos y cuotas pendientes evaluados a la fecha de corte. Filtros por texto, estado, rangos de saldo/cuotas, día de facturación y ventana de vencimiento.
// @Tags         seguimiento
// @Produce      json
// @Security     BearerAuth
// @Param        q           query string false "Texto libre: cliente o equipo"
// @Param        estado      query string false "activo | pagado | all"
// @Param        vence_desde query string false "YYYY-MM-DD"
// @Param        vence_hasta query string false "YYYY-MM-DD"
// @Param        saldo_min   query string false "Saldo mínimo"
// @Param        saldo_max   query string false "Saldo máximo"
// @Param        cuotas_min  query int    false "Cuotas pendientes mínimas"
// @Param        cuotas_max  query int    false "Cuotas pendientes máximas"
// @Param        dia         query int    false "Día de facturación (1-31)"
// @Param        corte       query string false "Fecha de corte YYYY-MM-DD"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.SeguimientoResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/seguimiento [get]
func (h *SeguimientoHandler) Listar(c *gin.Context) {
	var filter dto.SeguimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Parámetros de filtro inválidos"))
		return
	}
	corte, ok := parseCorte(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter, corte)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
