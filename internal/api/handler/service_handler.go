package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

type createServiceRequest struct {
	ID          string `json:"id"          validate:"omitempty,max=16"`
	Name        string `json:"name"        validate:"required,max=128"`
	Description string `json:"description" validate:"max=1024"`
}

type updateServiceRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=128"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

type serviceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toServiceResponse(s *domain.Service) serviceResponse {
	return serviceResponse{ID: s.ID, Name: s.Name, Description: s.Description}
}

// ServiceHandler exposes the service catalog.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// List handles GET /v1/services.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   serviceResponse
// @Router       /v1/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	services, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/services/:id.
//
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service code"
// @Success      200  {object}  serviceResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	s, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceResponse(s))
}

// Create handles POST /v1/services.
//
// @Summary      Create a service
// @Description  Without an id, a code is derived from the name.
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service"
// @Success      201   {object}  serviceResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	s, err := h.catalog.Create(c.Request().Context(), actor, ports.CreateServiceInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toServiceResponse(s))
}

// Update handles PUT /v1/services/:id.
//
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service code"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  serviceResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	s, err := h.catalog.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateServiceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceResponse(s))
}

// Delete handles DELETE /v1/services/:id.
//
// @Summary      Delete a service
// @Description  Dossiers keep their reference; it is displayed as the raw code.
// @Tags         services
// @Security     BearerAuth
// @Param        id   path  string  true  "Service code"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
