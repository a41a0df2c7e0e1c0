package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/m0th3rfkr/ejecucion-publica/internal/application/lookup"
	domain "github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/types/rights"
)

// LookupHandler serves the lookup and territory endpoints.
type LookupHandler struct {
	service *lookup.Service
	logger  logging.Logger
}

func NewLookupHandler(service *lookup.Service, log logging.Logger) *LookupHandler {
	return &LookupHandler{service: service, logger: log.Named("http.lookup")}
}

// Lookup handles POST /api/v1/lookups.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req rights.LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, errors.New(errors.CodeInvalidParam, "malformed request body"))
		return
	}

	resp, err := h.service.Execute(r.Context(), lookup.Request{
		TrackIDs:  req.TrackIDs,
		Territory: req.Territory,
		AsOf:      req.AsOf,
	})
	if err != nil {
		h.logger.Warn("lookup failed",
			logging.String("territory", req.Territory),
			logging.Err(err),
		)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLookupResponse(resp))
}

// Territories handles GET /api/v1/territories.
func (h *LookupHandler) Territories(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Territories(r.Context())
	if err != nil {
		h.logger.Error("territory listing failed", logging.Err(err))
		writeAppError(w, err)
		return
	}

	out := rights.TerritoriesResponse{Territories: make([]rights.Territory, 0, len(list))}
	for _, t := range list {
		out.Territories = append(out.Territories, rights.Territory{Code: t.Code, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func toLookupResponse(resp *lookup.Response) rights.LookupResponse {
	out := rights.LookupResponse{
		Territory:        resp.Territory,
		AsOf:             resp.AsOf,
		Rows:             make([]rights.ResolvedRow, 0, len(resp.Result.Rows)),
		Summary:          make([]rights.SummaryEntry, 0, len(resp.Result.Summary)),
		Unresolved:       make([]string, 0, len(resp.Result.Unresolved)),
		MalformedSkipped: resp.Result.MalformedSkipped,
	}
	for _, row := range resp.Result.Rows {
		out.Rows = append(out.Rows, toResolvedRow(row))
	}
	for _, entry := range resp.Result.Summary {
		out.Summary = append(out.Summary, rights.SummaryEntry{
			RightType: string(entry.Type),
			Count:     entry.Count,
		})
	}
	for _, id := range resp.Result.Unresolved {
		out.Unresolved = append(out.Unresolved, string(id))
	}
	return out
}

func toResolvedRow(row domain.ResultRow) rights.ResolvedRow {
	return rights.ResolvedRow{
		ISRC:            string(row.TrackID),
		RightType:       string(row.RightType),
		EffectiveFrom:   row.EffectiveFrom,
		EffectiveTo:     row.EffectiveTo,
		Territories:     row.Territories,
		OwnerName:       row.OwnerName,
		ArtistName:      row.ArtistName,
		ProductTitle:    row.ProductTitle,
		ImprintDesc:     row.ImprintDesc,
		CreditText:      row.CreditText,
		RepertoireOwner: row.RepertoireOwner,
	}
}
