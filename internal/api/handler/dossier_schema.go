package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// dateLayout is the wire format of a dossier date.
const dateLayout = "2006-01-02"

// --- Request types ---

type createDossierRequest struct {
	Number       string   `json:"number"       validate:"required,max=64"`
	Date         string   `json:"date"         validate:"required,datetime=2006-01-02"`
	Sender       string   `json:"sender"       validate:"required,max=256"`
	Subject      string   `json:"subject"      validate:"required,max=512"`
	Services     []string `json:"services"     validate:"required,min=1,dive,required"`
	Status       string   `json:"status"       validate:"omitempty,oneof=in_progress closed urgent"`
	Observations []string `json:"observations" validate:"omitempty,dive,required"`
	Note         string   `json:"note"         validate:"max=4096"`
}

// updateDossierRequest is a partial update: absent fields are left untouched.
// An explicit empty observations array clears them.
type updateDossierRequest struct {
	Number       *string  `json:"number"       validate:"omitempty,min=1,max=64"`
	Date         *string  `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	Sender       *string  `json:"sender"       validate:"omitempty,min=1,max=256"`
	Subject      *string  `json:"subject"      validate:"omitempty,min=1,max=512"`
	Services     []string `json:"services"     validate:"omitempty,dive,required"`
	Status       *string  `json:"status"       validate:"omitempty,oneof=in_progress closed urgent"`
	Observations []string `json:"observations" validate:"omitempty,dive,required"`
	Note         *string  `json:"note"         validate:"omitempty,max=4096"`
}

type listDossiersQuery struct {
	Search  string `query:"search"`
	Status  string `query:"status"  validate:"omitempty,oneof=in_progress closed urgent"`
	Service string `query:"service"`
	Sort    string `query:"sort"    validate:"omitempty,oneof=date number status created_at"`
	Order   string `query:"order"   validate:"omitempty,oneof=asc desc"`
	Page    int    `query:"page"    validate:"omitempty,min=1"`
	Limit   int    `query:"limit"   validate:"omitempty,min=1,max=100"`
}

// --- Response types ---
// Kept apart from domain types so the JSON contract does not follow
// internal changes.

type historyEntryResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Details   string    `json:"details,omitempty"`
}

type dossierResponse struct {
	ID           string                 `json:"id"`
	Number       string                 `json:"number"`
	Date         string                 `json:"date"`
	Sender       string                 `json:"sender"`
	Subject      string                 `json:"subject"`
	Services     []string               `json:"services"`
	Status       string                 `json:"status"`
	Observations []string               `json:"observations"`
	Note         string                 `json:"note,omitempty"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	History      []historyEntryResponse `json:"history"`
}

type serviceRefResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Missing bool   `json:"missing,omitempty"`
}

type dossierDetailResponse struct {
	dossierResponse
	ServiceRefs []serviceRefResponse `json:"service_refs"`
}

type dossierSummaryResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Date      string    `json:"date"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Services  []string  `json:"services"`
	CreatedAt time.Time `json:"created_at"`
}

type dossierListResponse struct {
	Items      []dossierSummaryResponse `json:"items"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

type dashboardResponse struct {
	Total    int64                    `json:"total"`
	ByStatus map[string]int64         `json:"by_status"`
	Urgent   []dossierSummaryResponse `json:"urgent"`
	Recent   []dossierSummaryResponse `json:"recent"`
}

type observationsResponse struct {
	Observations []string `json:"observations"`
}
