package handler

import (
	"net/http"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"
	"telcuotas/internal/repository"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler exposes the minimal cliente/equipo registration the engine
// needs. Thin enough to sit directly on the repository: no derived state, no
// transactions, just inserts.
type CatalogoHandler struct{ repo repository.CatalogoRepository }

func NewCatalogoHandler(repo repository.CatalogoRepository) *CatalogoHandler {
	return &CatalogoHandler{repo: repo}
}

// CrearCliente godoc
// @Summary      Registrar cliente
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearClienteRequest true "Datos del cliente"
// @Success      201 {object} dto.ClienteResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/clientes [post]
func (h *CatalogoHandler) CrearCliente(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente := model.Cliente{
		Nombre:   req.Nombre,
		Telefono: req.Telefono,
		Email:    req.Email,
		Activo:   true,
	}
	if err := h.repo.CreateCliente(c.Request.Context(), &cliente); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ClienteResponse{
		ID:       cliente.ID.String(),
		Nombre:   cliente.Nombre,
		Telefono: cliente.Telefono,
		Email:    cliente.Email,
		Activo:   cliente.Activo,
	})
}

// CrearEquipo godoc
// @Summary      Registrar equipo
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearEquipoRequest true "Datos del equipo"
// @Success      201 {object} dto.EquipoResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/equipos [post]
func (h *CatalogoHandler) CrearEquipo(c *gin.Context) {
	var req dto.CrearEquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	equipo := model.Equipo{
		Marca:       req.Marca,
		Modelo:      req.Modelo,
		IMEI:        req.IMEI,
		PrecioLista: req.PrecioLista,
	}
	if err := h.repo.CreateEquipo(c.Request.Context(), &equipo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.EquipoResponse{
		ID:          equipo.ID.String(),
		Marca:       equipo.Marca,
		Modelo:      equipo.Modelo,
		IMEI:        equipo.IMEI,
		PrecioLista: equipo.PrecioLista,
		Vendido:     equipo.Vendido,
	})
}
