// Package reports implements the work report endpoints: CRUD, bulk
// delete, cascading filter options, and document export.
package reports

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/worklog-hq/worklog/internal/api/middleware"
	"github.com/worklog-hq/worklog/internal/export"
	"github.com/worklog-hq/worklog/internal/metrics"
	"github.com/worklog-hq/worklog/internal/models"
	"github.com/worklog-hq/worklog/internal/storage"
	"github.com/worklog-hq/worklog/internal/timesheet"
)

// Response helpers (local to avoid import cycle)
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeUnauthorized     = "UNAUTHORIZED"
	errCodeForbidden        = "FORBIDDEN"
	errCodeNotFound         = "NOT_FOUND"
	errCodeInternalError    = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func jsonNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ReportResponse is the wire shape for a work report, including the
// client display label resolved at read time.
type ReportResponse struct {
	ID                  string  `json:"id"`
	Date                string  `json:"date"`
	EmployeeUsername    string  `json:"employee_username"`
	EmployeeDisplayName string  `json:"employee_display_name"`
	ClientSlug          string  `json:"client_slug"`
	ClientName          string  `json:"client_name"`
	ProjectName         string  `json:"project_name"`
	TaskDescription     string  `json:"task_description"`
	Hours               float64 `json:"hours"`
	Notes               string  `json:"notes,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// Handler handles work report endpoints.
type Handler struct {
	storage storage.Storage
}

// NewHandler creates a new report handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// ReportRequest is the request body for creating or updating a report.
// The employee fields are only honored for admin callers; employee
// callers always have the attribution overwritten with their own
// identity.
type ReportRequest struct {
	Date             string  `json:"date"`
	EmployeeUsername string  `json:"employee_username"`
	ClientSlug       string  `json:"client_slug"`
	ProjectName      string  `json:"project_name"`
	TaskDescription  string  `json:"task_description"`
	Hours            float64 `json:"hours"`
	Notes            string  `json:"notes"`
}

// BulkDeleteRequest is the request body for deleting many reports.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResponse reports how many rows the bulk delete removed.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

func filterFromQuery(r *http.Request) timesheet.Filter {
	q := r.URL.Query()
	return timesheet.Filter{
		ClientSlug:       q.Get("client"),
		ProjectName:      q.Get("project"),
		EmployeeUsername: q.Get("employee"),
		StartDate:        q.Get("start_date"),
		EndDate:          q.Get("end_date"),
	}
}

// listForUser fetches the caller's visible reports. Employee scoping is
// pushed down to the store rather than filtered in memory.
func (h *Handler) listForUser(r *http.Request, user *models.User) ([]*models.Report, error) {
	if user.IsAdmin() {
		return h.storage.Reports().List(r.Context())
	}
	return h.storage.Reports().ListByEmployee(r.Context(), user.Username)
}

// List returns the caller's visible reports, filtered by the optional
// client, project, employee, start_date, and end_date query parameters.
// The employee filter only takes effect for admin callers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	reports, err := h.listForUser(r, user)
	if err != nil {
		log.Printf("list reports error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	reports = filterFromQuery(r).Apply(user, reports)

	clients, err := h.storage.Clients().List(r.Context())
	if err != nil {
		log.Printf("list reports error: clients: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	annotated := timesheet.Annotate(reports, clients)
	resp := make([]*ReportResponse, len(annotated))
	for i, a := range annotated {
		resp[i] = reportToResponse(a)
	}
	jsonOK(w, resp)
}

// Create logs a new work report. The client slug must reference a
// registered client, and the attribution must resolve to an existing
// account.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	report, errMsg := h.buildReport(r, user, &req, nil)
	if errMsg != "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, errMsg)
		return
	}

	report.ID = uuid.New().String()
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	if err := h.storage.Reports().Create(r.Context(), report); err != nil {
		log.Printf("create report error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	metrics.ReportsCreatedTotal.Inc()
	log.Printf("report created: %s by %s (%s / %s)", report.ID, report.EmployeeUsername, report.ClientSlug, report.ProjectName)
	jsonCreated(w, reportToResponse(h.annotateOne(r, report)))
}

// Update modifies an existing report. Employees may only touch reports
// attributed to them.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "report id required")
		return
	}

	existing, err := h.storage.Reports().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("update report error: get: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "report not found")
		return
	}
	if !timesheet.CanMutate(user, existing) {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "insufficient permissions")
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	report, errMsg := h.buildReport(r, user, &req, existing)
	if errMsg != "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, errMsg)
		return
	}

	report.ID = existing.ID
	report.CreatedAt = existing.CreatedAt
	report.UpdatedAt = time.Now()

	if err := h.storage.Reports().Update(r.Context(), report); err != nil {
		log.Printf("update report error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("report updated: %s by %s", report.ID, user.Username)
	jsonOK(w, reportToResponse(h.annotateOne(r, report)))
}

// Delete removes a single report. Employees may only delete their own.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "report id required")
		return
	}

	existing, err := h.storage.Reports().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("delete report error: get: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "report not found")
		return
	}
	if !timesheet.CanMutate(user, existing) {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "insufficient permissions")
		return
	}

	if err := h.storage.Reports().Delete(r.Context(), id); err != nil {
		log.Printf("delete report error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	metrics.ReportsDeletedTotal.Inc()
	log.Printf("report deleted: %s by %s", id, user.Username)
	jsonNoContent(w)
}

// BulkDelete removes many reports in one operation (admin only).
// Missing IDs are skipped; the response carries the actual count
// removed.
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "ids is required")
		return
	}

	deleted, err := h.storage.Reports().DeleteMany(r.Context(), req.IDs)
	if err != nil {
		log.Printf("bulk delete reports error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	metrics.ReportsDeletedTotal.Add(float64(deleted))
	log.Printf("reports bulk deleted: %d of %d requested", deleted, len(req.IDs))
	jsonOK(w, BulkDeleteResponse{Deleted: deleted})
}

// Projects returns the distinct project names among the caller's
// visible reports, optionally narrowed to one client via ?client=.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	reports, err := h.listForUser(r, user)
	if err != nil {
		log.Printf("list projects error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonOK(w, timesheet.ProjectsForClient(user, reports, r.URL.Query().Get("client")))
}

// Employees returns the distinct employee identities among reports
// matching the ?client= and ?project= constraints (admin only).
func (h *Handler) Employees(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	reports, err := h.listForUser(r, user)
	if err != nil {
		log.Printf("list report employees error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	q := r.URL.Query()
	jsonOK(w, timesheet.EmployeesForProject(user, reports, q.Get("client"), q.Get("project")))
}

// Export streams the caller's filtered view as a downloadable document.
// ?mode selects the table shape (grouped is the default), ?format the
// serialization (xlsx is the default). The same filter parameters as
// List apply.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "authentication required")
		return
	}

	q := r.URL.Query()
	mode, ok := timesheet.ParseExportMode(q.Get("mode"))
	if !ok {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "mode must be grouped or flat")
		return
	}
	format, ok := export.ParseFormat(q.Get("format"))
	if !ok {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "format must be xlsx or csv")
		return
	}

	reports, err := h.listForUser(r, user)
	if err != nil {
		log.Printf("export reports error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	reports = filterFromQuery(r).Apply(user, reports)

	clients, err := h.storage.Clients().List(r.Context())
	if err != nil {
		log.Printf("export reports error: clients: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	annotated := timesheet.Annotate(reports, clients)

	start := time.Now()
	var table *timesheet.Table
	switch mode {
	case timesheet.ModeFlat:
		table = timesheet.BuildFlat(annotated)
	default:
		table = timesheet.BuildGrouped(annotated)
	}

	filename := export.Filename(format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.NewWriter(format, w).WriteTable(table); err != nil {
		// Headers are already out; all we can do is log.
		log.Printf("export reports error: write: %v", err)
		return
	}

	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	metrics.ExportsTotal.WithLabelValues(string(format), string(mode)).Inc()
	log.Printf("reports exported: %s %s, %d reports, by %s", mode, format, len(annotated), user.Username)
}

// buildReport validates the request and assembles the report to store,
// with attribution enforced. For updates, existing carries the current
// row. A non-empty return string is the validation error message.
func (h *Handler) buildReport(r *http.Request, user *models.User, req *ReportRequest, existing *models.Report) (*models.Report, string) {
	date, err := NormalizeDate(req.Date)
	if err != nil {
		return nil, err.Error()
	}
	if err := ValidateProjectName(req.ProjectName); err != nil {
		return nil, err.Error()
	}
	if err := ValidateTaskDescription(req.TaskDescription); err != nil {
		return nil, err.Error()
	}
	if err := ValidateHours(req.Hours); err != nil {
		return nil, err.Error()
	}
	if err := ValidateNotes(req.Notes); err != nil {
		return nil, err.Error()
	}

	client, cerr := h.storage.Clients().GetBySlug(r.Context(), strings.TrimSpace(req.ClientSlug))
	if cerr != nil {
		log.Printf("build report error: client lookup: %v", cerr)
		return nil, "client could not be verified"
	}
	if client == nil {
		return nil, "unknown client"
	}

	report := &models.Report{
		Date:             date,
		EmployeeUsername: strings.TrimSpace(req.EmployeeUsername),
		ClientSlug:       client.Slug,
		ProjectName:      strings.TrimSpace(req.ProjectName),
		TaskDescription:  strings.TrimSpace(req.TaskDescription),
		Hours:            req.Hours,
		Notes:            strings.TrimSpace(req.Notes),
	}

	// Employee callers get their own identity stamped on regardless of
	// the request body. Admin attribution must resolve to a real account
	// so the display label stays in sync.
	timesheet.ApplyAttribution(user, report)
	if user.IsAdmin() {
		if report.EmployeeUsername == "" {
			if existing != nil {
				report.EmployeeUsername = existing.EmployeeUsername
			} else {
				report.EmployeeUsername = user.Username
			}
		}
		owner, oerr := h.storage.Users().GetByUsername(r.Context(), report.EmployeeUsername)
		if oerr != nil {
			log.Printf("build report error: owner lookup: %v", oerr)
			return nil, "employee could not be verified"
		}
		if owner == nil {
			return nil, "unknown employee"
		}
		report.EmployeeDisplayName = owner.DisplayName
	}

	return report, ""
}

// annotateOne resolves the client label for a single report response.
// A dangling reference falls back to the raw slug; a store failure is
// logged and falls back the same way rather than failing the response.
func (h *Handler) annotateOne(r *http.Request, report *models.Report) *timesheet.AnnotatedReport {
	label := report.ClientSlug
	client, err := h.storage.Clients().GetBySlug(r.Context(), report.ClientSlug)
	if err != nil {
		log.Printf("annotate report %s: client lookup: %v", report.ID, err)
	} else if client != nil {
		label = client.Name
	}
	return &timesheet.AnnotatedReport{Report: *report, DisplayClientName: label}
}

func reportToResponse(a *timesheet.AnnotatedReport) *ReportResponse {
	return &ReportResponse{
		ID:                  a.ID,
		Date:                a.Date,
		EmployeeUsername:    a.EmployeeUsername,
		EmployeeDisplayName: a.EmployeeDisplayName,
		ClientSlug:          a.ClientSlug,
		ClientName:          a.DisplayClientName,
		ProjectName:         a.ProjectName,
		TaskDescription:     a.TaskDescription,
		Hours:               a.Hours,
		Notes:               a.Notes,
		CreatedAt:           a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           a.UpdatedAt.Format(time.RFC3339),
	}
}
