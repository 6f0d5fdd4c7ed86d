package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// --- Request → Service input ---

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "date must match the layout "+dateLayout)
	}
	return t.UTC(), nil
}

func toCreateDossierInput(req createDossierRequest, idempotencyKey string) (ports.CreateDossierInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ports.CreateDossierInput{}, err
	}
	return ports.CreateDossierInput{
		Number:         req.Number,
		Date:           date,
		Sender:         req.Sender,
		Subject:        req.Subject,
		Services:       req.Services,
		Status:         req.Status,
		Observations:   req.Observations,
		Note:           req.Note,
		IdempotencyKey: idempotencyKey,
	}, nil
}

func toUpdateDossierInput(req updateDossierRequest) (ports.UpdateDossierInput, error) {
	in := ports.UpdateDossierInput{
		Number:       req.Number,
		Sender:       req.Sender,
		Subject:      req.Subject,
		Services:     req.Services,
		Status:       req.Status,
		Observations: req.Observations,
		Note:         req.Note,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return ports.UpdateDossierInput{}, err
		}
		in.Date = &date
	}
	return in, nil
}

func toListInput(q listDossiersQuery) ports.ListDossiersInput {
	return ports.ListDossiersInput{
		Status:  q.Status,
		Service: q.Service,
		Search:  q.Search,
		SortBy:  q.Sort,
		Order:   q.Order,
		Page:    q.Page,
		Limit:   q.Limit,
	}
}

// --- Service result → HTTP response ---

func toDossierResponse(d *domain.Dossier) dossierResponse {
	history := make([]historyEntryResponse, 0, len(d.History))
	for _, h := range d.History {
		history = append(history, historyEntryResponse{
			ID:        h.ID,
			Timestamp: h.Timestamp.UTC(),
			Action:    h.Action,
			ActorID:   h.ActorID,
			Details:   h.Details,
		})
	}

	observations := make([]string, 0, len(d.Observations))
	for _, o := range d.Observations {
		observations = append(observations, string(o))
	}

	return dossierResponse{
		ID:           d.ID,
		Number:       d.Number,
		Date:         d.Date.UTC().Format(dateLayout),
		Sender:       d.Sender,
		Subject:      d.Subject,
		Services:     append([]string{}, d.Services...),
		Status:       string(d.Status),
		Observations: observations,
		Note:         d.Note,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		History:      history,
	}
}

func toDetailResponse(detail *ports.DossierDetail) dossierDetailResponse {
	refs := make([]serviceRefResponse, 0, len(detail.Services))
	for _, r := range detail.Services {
		refs = append(refs, serviceRefResponse{ID: r.ID, Name: r.Name, Missing: r.Missing})
	}
	return dossierDetailResponse{
		dossierResponse: toDossierResponse(detail.Dossier),
		ServiceRefs:     refs,
	}
}

func toSummaries(items []*domain.Dossier) []dossierSummaryResponse {
	out := make([]dossierSummaryResponse, 0, len(items))
	for _, d := range items {
		out = append(out, dossierSummaryResponse{
			ID:        d.ID,
			Number:    d.Number,
			Date:      d.Date.UTC().Format(dateLayout),
			Subject:   d.Subject,
			Status:    string(d.Status),
			Services:  append([]string{}, d.Services...),
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out
}

func toListResponse(r *ports.ListDossiersResult) dossierListResponse {
	return dossierListResponse{
		Items:      toSummaries(r.Items),
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

func toDashboardResponse(s *ports.DashboardStats) dashboardResponse {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for st, n := range s.ByStatus {
		byStatus[string(st)] = n
	}
	return dashboardResponse{
		Total:    s.Total,
		ByStatus: byStatus,
		Urgent:   toSummaries(s.Urgent),
		Recent:   toSummaries(s.Recent),
	}
}
