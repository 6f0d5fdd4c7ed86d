package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// DossierHandler handles HTTP requests for dossier operations.
type DossierHandler struct {
	service ports.DossierService
}

func NewDossierHandler(service ports.DossierService) *DossierHandler {
	return &DossierHandler{service: service}
}

// Create handles POST /v1/dossiers.
//
// @Summary      Create a dossier
// @Tags         dossiers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createDossierRequest  true   "Dossier details"
// @Success      201              {object}  dossierResponse
// @Success      200              {object}  dossierResponse  "Replay of an earlier request with the same key"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/dossiers [post]
func (h *DossierHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createDossierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in, err := toCreateDossierInput(req, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toDossierResponse(result.Dossier))
}

// Get handles GET /v1/dossiers/:id.
//
// @Summary      Get a dossier with its history
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dossier id"
// @Success      200  {object}  dossierDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/dossiers/{id} [get]
func (h *DossierHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// List handles GET /v1/dossiers.
//
// @Summary      Search and page through dossiers
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Param        search   query     string  false  "Matches number, subject or sender"
// @Param        status   query     string  false  "in_progress, closed or urgent"
// @Param        service  query     string  false  "Service id"
// @Param        sort     query     string  false  "date, number, status or created_at"
// @Param        order    query     string  false  "asc or desc"
// @Param        page     query     int     false  "Page number, from 1"
// @Param        limit    query     int     false  "Page size, at most 100"
// @Success      200      {object}  dossierListResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/dossiers [get]
func (h *DossierHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var q listDossiersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.List(c.Request().Context(), actor, toListInput(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Update handles PATCH /v1/dossiers/:id.
//
// @Summary      Update a dossier
// @Description  A status change appends a history entry. Unknown ids answer 204 unless strict not-found handling is enabled.
// @Tags         dossiers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Dossier id"
// @Param        body  body      updateDossierRequest  true  "Fields to change"
// @Success      200   {object}  dossierResponse
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/dossiers/{id} [patch]
func (h *DossierHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateDossierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in, err := toUpdateDossierInput(req)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	if updated == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toDossierResponse(updated))
}

// Delete handles DELETE /v1/dossiers/:id.
//
// @Summary      Delete a dossier
// @Tags         dossiers
// @Security     BearerAuth
// @Param        id   path  string  true  "Dossier id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/dossiers/{id} [delete]
func (h *DossierHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard handles GET /v1/dashboard.
//
// @Summary      Dossier counts, urgent and recent dossiers
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DossierHandler) Dashboard(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Dashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(stats))
}

// Observations handles GET /v1/observations.
//
// @Summary      List the observation vocabulary
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  observationsResponse
// @Router       /v1/observations [get]
func (h *DossierHandler) Observations(c echo.Context) error {
	out := make([]string, 0, len(domain.Observations))
	for _, o := range domain.Observations {
		out = append(out, string(o))
	}
	return c.JSON(http.StatusOK, observationsResponse{Observations: out})
}
