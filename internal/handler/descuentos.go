package handler

import (
	"net/http"

	"telcuotas/internal/dto"
	"telcuotas/internal/middleware"
	"telcuotas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DescuentosHandler struct{ svc service.DescuentoService }

func NewDescuentosHandler(svc service.DescuentoService) *DescuentosHandler {
	return &DescuentosHandler{svc: svc}
}

// Agregar godoc
// @Summary      Agregar descuento
// @Description  Agrega un eslabón a la cadena de descuentos del contrato. La cadena es append-only: cada descuento rebaja el monto final vigente, nunca el original.
// @Tags         descuentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "ID de contrato"
// @Param        body body dto.AgregarDescuentoRequest true "Descuento"
// @Success      201  {object} dto.DescuentoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/contratos/{id}/descuentos [post]
func (h *DescuentosHandler) Agregar(c *gin.Context) {
	var req dto.AgregarDescuentoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Agregar(c.Request.Context(), c.Param("id"), req, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
