package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ripixel/checkin-server/pkg/models"
	"github.com/ripixel/checkin-server/pkg/processor"
)

// optionsFromQuery reads the shared pipeline flags.
func optionsFromQuery(r *http.Request) processor.Options {
	concat, _ := strconv.ParseBool(r.URL.Query().Get("concatResults"))
	force, _ := strconv.ParseBool(r.URL.Query().Get("forceProcessing"))
	return processor.Options{
		ConcatResults:   concat,
		ForceProcessing: force,
		Delimiter:       r.URL.Query().Get("delimiter"),
	}
}

// handleProcessSavedResults re-encodes previously finalized items.
// GET /api/checkin?dates=2024-03-27,2024-03-28&concatResults=true
func (s *Server) handleProcessSavedResults(w http.ResponseWriter, r *http.Request) {
	datesParam := r.URL.Query().Get("dates")
	if datesParam == "" {
		s.writeError(w, http.StatusBadRequest, "dates query parameter is required")
		return
	}

	dates := strings.Split(datesParam, ",")
	response := s.processor.ProcessSavedResults(r.Context(), dates, optionsFromQuery(r))
	s.writeJSON(w, http.StatusOK, response)
}

// handleProcessQueue runs a submitted batch through the pipeline.
// POST /api/checkin/process?concatResults=&forceProcessing=&delimiter=
func (s *Server) handleProcessQueue(w http.ResponseWriter, r *http.Request) {
	var request models.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}
	if len(request.Queue) == 0 {
		s.writeError(w, http.StatusBadRequest, "no items in check-in queue")
		return
	}

	// Archive the raw request before processing; failure is log-only.
	if err := s.repo.SaveCheckinRequest(r.Context(), &request); err != nil {
		s.logger.Error("Error archiving check-in request", "error", err)
	}

	response := s.processor.ProcessQueue(r.Context(), request.Queue, optionsFromQuery(r))
	s.writeJSON(w, http.StatusOK, response)
}

// handleProcessSingleItem runs a one-item queue through the pipeline.
// POST /api/checkin/single
func (s *Server) handleProcessSingleItem(w http.ResponseWriter, r *http.Request) {
	var item models.CheckinItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	response := s.processor.ProcessQueue(r.Context(), []models.CheckinItem{item}, optionsFromQuery(r))
	s.writeJSON(w, http.StatusOK, response)
}

// handleGetLists returns the checklists currently in effect.
func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.lists.Snapshot())
}

// handleUpdateLists merges a partial checklist update; nil fields keep their
// current value.
func (s *Server) handleUpdateLists(w http.ResponseWriter, r *http.Request) {
	var request models.Checklist
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	updated, err := s.lists.Update(r.Context(), request)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "error persisting check-in lists")
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

// handleGetItemByDate returns the stored finalized item for one date.
// GET /api/checkin/date/{date}
func (s *Server) handleGetItemByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	item, err := s.repo.GetCheckinItem(r.Context(), date)
	if err != nil {
		s.logger.Error("Unable to retrieve check-in item", "date", date, "error", err)
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no check-in results for %s", date))
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

// handleGetItemsByMonth lists the stored dates for a year/month.
// GET /api/checkin/{year}/{month}?reverse=true
func (s *Server) handleGetItemsByMonth(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	month := chi.URLParam(r, "month")

	dates, err := s.repo.GetAllCheckinDates(r.Context())
	if err != nil {
		s.logger.Error("Unable to list check-in dates", "error", err)
		s.writeError(w, http.StatusInternalServerError, "error listing check-in results")
		return
	}

	prefix := year + "-" + month
	var matches []string
	for _, date := range dates {
		if strings.HasPrefix(date, prefix) {
			matches = append(matches, date)
		}
	}
	if len(matches) == 0 {
		s.writeError(w, http.StatusNotFound, "no check-in results for provided query")
		return
	}

	if reverse, _ := strconv.ParseBool(r.URL.Query().Get("reverse")); reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	} else {
		sort.Strings(matches)
	}

	s.writeJSON(w, http.StatusOK, map[string][]string{"files": matches})
}
