/*
handlers.go - HTTP request handlers

PURPOSE:
  Implements all HTTP endpoints for the attendance engine. Handlers follow
  a consistent pattern:
  1. Parse request (URL params, query params, JSON body)
  2. Load the snapshots the domain call needs from the store
  3. Call domain logic (validator, day builder, rule engine)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad punch type, malformed dates, bad config)
  - 404: Resource not found
  - 409: Conflict (duplicate punch at the storage layer)
  - 422: Punch rejected by the validator (rejection reasons in the body)
  - 500: Internal errors

PUNCH FLOW:
  A submitted punch is validated against the employee's recent punch
  window and scheduled shift BEFORE it is written. A rejected punch is
  never recorded. An accepted clock-out additionally synthesizes pending
  exception records for the day just closed.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shiftwise/attendance-engine/attendance"
	"github.com/shiftwise/attendance-engine/compliance"
	"github.com/shiftwise/attendance-engine/factory"
	"github.com/shiftwise/attendance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Validator *attendance.Validator
	Engine    *compliance.Engine
	Factory   *factory.RuleFactory
	Logger    *slog.Logger
}

// NewHandler creates a new handler with the given store. A nil logger
// defaults to slog's package default.
func NewHandler(store *sqlite.Store, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine := compliance.NewDefaultEngine(logger)
	exprRule, err := compliance.NewExpressionRule()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression rule: %w", err)
	}
	engine.RegisterRule(exprRule)

	return &Handler{
		Store:     store,
		Validator: attendance.NewValidator(),
		Engine:    engine,
		Factory:   factory.NewRuleFactory(),
		Logger:    logger,
	}, nil
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees for a tenant.
// GET /api/employees?tenant_id=X
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id query parameter is required", nil)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.TenantID == "" || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id and employee_id are required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	emp := attendance.Employee{
		ID:         req.ID,
		TenantID:   req.TenantID,
		EmployeeID: req.EmployeeID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// =============================================================================
// TEMPLATE ENDPOINTS
// =============================================================================

// SaveTemplate replaces the employee's active weekly template.
// PUT /api/employees/{id}/template
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	var req SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Shifts) == 0 {
		writeError(w, http.StatusBadRequest, "template requires at least one shift", nil)
		return
	}

	tmpl := attendance.WeeklyTemplate{
		ID:         req.ID,
		EmployeeID: emp.ID,
		Active:     true,
	}
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	for _, s := range req.Shifts {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("day_of_week %d out of range", s.DayOfWeek), nil)
			return
		}
		if !validClock(s.StartTime) || !validClock(s.EndTime) {
			writeError(w, http.StatusBadRequest, "shift times must be HH:MM", nil)
			return
		}
		tmpl.Shifts = append(tmpl.Shifts, attendance.ShiftWindow{
			DayOfWeek:    s.DayOfWeek,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			BreakMinutes: s.BreakMinutes,
		})
	}

	if err := h.Store.SaveTemplate(r.Context(), tmpl); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save template", err)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateDTO(tmpl))
}

// GetTemplate returns the employee's active weekly template.
// GET /api/employees/{id}/template
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	templates, err := h.Store.ActiveTemplates(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load templates", err)
		return
	}
	if len(templates) == 0 {
		writeError(w, http.StatusNotFound, "no active template", nil)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateDTO(templates[0]))
}

// =============================================================================
// PUNCH ENDPOINTS
// =============================================================================

// SubmitPunch validates and records one clock event.
// POST /api/employees/{id}/punches
//
// The validator sees a snapshot of the employee's recent punches and the
// shift scheduled for the punch date. On rejection nothing is written and
// the response carries every rejection reason. On an accepted clock-out,
// exception proposals for the closed day are persisted as pending records
// and echoed in the response.
func (h *Handler) SubmitPunch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	var req SubmitPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	punchType := attendance.PunchType(req.PunchType)
	if !punchType.Valid() {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown punch_type %q", req.PunchType), attendance.ErrUnknownPunchType)
		return
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "timestamp must be RFC 3339", err)
			return
		}
		timestamp = t
	}

	shift, err := h.scheduledShift(r, emp.ID, timestamp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load templates", err)
		return
	}

	recent, err := h.Store.RecentPunches(ctx, emp.ID, timestamp, attendance.RecentPunchLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load recent punches", err)
		return
	}

	verrs := h.Validator.Validate(attendance.PunchContext{
		EmployeeID:    emp.ID,
		TenantID:      emp.TenantID,
		PunchType:     punchType,
		Timestamp:     timestamp,
		Shift:         shift,
		RecentPunches: recent,
	})
	if len(verrs) > 0 {
		resp := PunchRejectedResponse{Accepted: false}
		for _, ve := range verrs {
			resp.Errors = append(resp.Errors, ValidationErrorDTO{Code: ve.Code, Message: ve.Message})
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	punch := attendance.PunchEvent{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		TenantID:   emp.TenantID,
		Type:       punchType,
		Timestamp:  timestamp,
	}
	if err := h.Store.AppendPunch(ctx, punch); err != nil {
		if errors.Is(err, attendance.ErrDuplicatePunch) {
			writeError(w, http.StatusConflict, "duplicate punch", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to record punch", err)
		return
	}

	resp := PunchAcceptedResponse{Accepted: true, Punch: toPunchDTO(punch)}

	// A clock-out closes the day: derive and persist exception proposals.
	if punchType == attendance.PunchOut {
		saved, err := h.closeDay(r, emp, timestamp, shift)
		if err != nil {
			// The punch is already recorded; log and return it anyway.
			h.Logger.Error("failed to synthesize exceptions",
				"employee_id", emp.ID, "error", err)
		}
		for _, e := range saved {
			resp.Exceptions = append(resp.Exceptions, toExceptionDTO(e))
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListPunches returns the employee's punches in a date range.
// GET /api/employees/{id}/punches?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) ListPunches(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err)
		return
	}

	punches, err := h.Store.PunchesInRange(r.Context(), emp.ID, start, endOfDay(end))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load punches", err)
		return
	}

	dtos := make([]PunchDTO, 0, len(punches))
	for _, p := range punches {
		dtos = append(dtos, toPunchDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// closeDay runs exception generation for the calendar day a clock-out
// just closed and persists the proposals as pending records.
func (h *Handler) closeDay(
	r *http.Request,
	emp *attendance.Employee,
	clockOut time.Time,
	shift *attendance.ShiftWindow,
) ([]attendance.Exception, error) {
	ctx := r.Context()

	dayStart := time.Date(clockOut.Year(), clockOut.Month(), clockOut.Day(), 0, 0, 0, 0, clockOut.Location())
	todays, err := h.Store.PunchesInRange(ctx, emp.ID, dayStart, endOfDay(dayStart))
	if err != nil {
		return nil, err
	}

	proposals := h.Validator.GenerateExceptions(emp.ID, emp.TenantID, clockOut, todays, shift)

	var saved []attendance.Exception
	for _, p := range proposals {
		exc := attendance.Exception{
			ID:         uuid.NewString(),
			EmployeeID: emp.ID,
			TenantID:   emp.TenantID,
			Type:       p.Type,
			Date:       dayStart,
			Status:     attendance.ExceptionPending,
			Reason:     p.Reason,
		}
		if err := h.Store.SaveException(ctx, exc); err != nil {
			return saved, err
		}
		saved = append(saved, exc)
	}
	return saved, nil
}

// =============================================================================
// EXCEPTION ENDPOINTS
// =============================================================================

// ListExceptions returns the employee's exceptions in a date range.
// GET /api/employees/{id}/exceptions?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err)
		return
	}

	exceptions, err := h.Store.ExceptionsInRange(r.Context(), emp.ID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exceptions", err)
		return
	}

	dtos := make([]ExceptionDTO, 0, len(exceptions))
	for _, e := range exceptions {
		dtos = append(dtos, toExceptionDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveException marks an exception approved.
// POST /api/exceptions/{id}/approve
func (h *Handler) ApproveException(w http.ResponseWriter, r *http.Request) {
	h.setExceptionStatus(w, r, attendance.ExceptionApproved)
}

// RejectException marks an exception rejected.
// POST /api/exceptions/{id}/reject
func (h *Handler) RejectException(w http.ResponseWriter, r *http.Request) {
	h.setExceptionStatus(w, r, attendance.ExceptionRejected)
}

func (h *Handler) setExceptionStatus(w http.ResponseWriter, r *http.Request, status attendance.ExceptionStatus) {
	id := chi.URLParam(r, "id")
	if err := h.Store.SetExceptionStatus(r.Context(), id, status); err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "exception not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update exception", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

// =============================================================================
// RULE PACKAGE ENDPOINTS
// =============================================================================

// SaveRulePackage stores a package configuration. The config is parsed
// before storage so broken packages are rejected at write time.
// PUT /api/rule-packages/{id}
func (h *Handler) SaveRulePackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SaveRulePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.TenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required", nil)
		return
	}
	req.Config.ID = id

	if _, err := h.Factory.FromJSON(req.Config); err != nil {
		writeError(w, http.StatusBadRequest, "invalid package config", err)
		return
	}

	configJSON, err := json.Marshal(req.Config)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode config", err)
		return
	}

	record := sqlite.RulePackageRecord{
		ID:         id,
		TenantID:   req.TenantID,
		ConfigJSON: string(configJSON),
	}
	if err := h.Store.SaveRulePackage(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save rule package", err)
		return
	}

	writeJSON(w, http.StatusOK, RulePackageDTO{
		ID:       id,
		TenantID: req.TenantID,
		Config:   req.Config,
	})
}

// GetRulePackage returns a stored package configuration.
// GET /api/rule-packages/{id}
func (h *Handler) GetRulePackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.Store.GetRulePackage(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rule package", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "rule package not found", nil)
		return
	}

	var config factory.PackageJSON
	if err := json.Unmarshal([]byte(record.ConfigJSON), &config); err != nil {
		writeError(w, http.StatusInternalServerError, "stored config is corrupt", err)
		return
	}

	writeJSON(w, http.StatusOK, RulePackageDTO{
		ID:        record.ID,
		TenantID:  record.TenantID,
		Config:    config,
		UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
	})
}

// ListRulePackages returns a tenant's stored packages.
// GET /api/rule-packages?tenant_id=X
func (h *Handler) ListRulePackages(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id query parameter is required", nil)
		return
	}

	records, err := h.Store.ListRulePackages(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rule packages", err)
		return
	}

	dtos := make([]RulePackageDTO, 0, len(records))
	for _, record := range records {
		var config factory.PackageJSON
		if err := json.Unmarshal([]byte(record.ConfigJSON), &config); err != nil {
			h.Logger.Warn("skipping corrupt rule package", "package_id", record.ID)
			continue
		}
		dtos = append(dtos, RulePackageDTO{
			ID:        record.ID,
			TenantID:  record.TenantID,
			Config:    config,
			UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EVALUATION ENDPOINTS
// =============================================================================

// Evaluate runs a rule package against an employee's date range.
// POST /api/employees/{id}/evaluate?package=X&start=YYYY-MM-DD&end=YYYY-MM-DD
//
// Canonical days are rebuilt from stored snapshots on every call; nothing
// is cached between evaluations. The result is persisted and returned.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	packageID := r.URL.Query().Get("package")
	if packageID == "" {
		writeError(w, http.StatusBadRequest, "package query parameter is required", nil)
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err)
		return
	}

	record, err := h.Store.GetRulePackage(ctx, packageID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rule package", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "rule package not found", nil)
		return
	}

	pkg, err := h.Factory.ParsePackage(record.ConfigJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored config is corrupt", err)
		return
	}

	templates, err := h.Store.ActiveTemplates(ctx, emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load templates", err)
		return
	}
	punches, err := h.Store.PunchesInRange(ctx, emp.ID, start, endOfDay(end))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load punches", err)
		return
	}
	exceptions, err := h.Store.ExceptionsInRange(ctx, emp.ID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exceptions", err)
		return
	}

	days := attendance.BuildRange(*emp, start, end, templates, punches, exceptions)

	result := h.Engine.Evaluate(ctx, compliance.PackageInput{
		Package: pkg,
		Context: compliance.EvaluationContext{
			Employee: *emp,
			Days:     days,
			Start:    start,
			End:      end,
		},
	})

	dto := EvaluationResultDTO{
		ID:            uuid.NewString(),
		EmployeeID:    emp.ID,
		RulePackageID: result.RulePackageID,
		RangeStart:    start.Format("2006-01-02"),
		RangeEnd:      end.Format("2006-01-02"),
		Violations:    []ViolationDTO{},
		HasErrors:     result.HasErrors,
		HasWarnings:   result.HasWarnings,
	}
	for _, v := range result.Violations {
		dto.Violations = append(dto.Violations, toViolationDTO(v))
	}

	resultJSON, err := json.Marshal(dto)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode result", err)
		return
	}
	err = h.Store.SaveEvaluationResult(ctx, sqlite.EvaluationRecord{
		ID:             dto.ID,
		EmployeeID:     emp.ID,
		RulePackageID:  result.RulePackageID,
		RangeStart:     start,
		RangeEnd:       end,
		ViolationCount: len(result.Violations),
		HasErrors:      result.HasErrors,
		HasWarnings:    result.HasWarnings,
		ResultJSON:     string(resultJSON),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist result", err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// ListEvaluations returns the employee's most recent persisted results.
// GET /api/employees/{id}/evaluations
func (h *Handler) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	records, err := h.Store.ListEvaluationResults(r.Context(), emp.ID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list results", err)
		return
	}

	dtos := make([]EvaluationResultDTO, 0, len(records))
	for _, record := range records {
		var dto EvaluationResultDTO
		if err := json.Unmarshal([]byte(record.ResultJSON), &dto); err != nil {
			h.Logger.Warn("skipping corrupt evaluation result", "result_id", record.ID)
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// loadEmployee resolves {id} to an employee or writes a 404/500 response.
func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) (*attendance.Employee, bool) {
	id := chi.URLParam(r, "id")
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return nil, false
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "employee not found", attendance.ErrEmployeeNotFound)
		return nil, false
	}
	return emp, true
}

// scheduledShift returns the shift the first active template schedules
// for the punch date, nil when nothing is scheduled.
func (h *Handler) scheduledShift(r *http.Request, employeeID string, at time.Time) (*attendance.ShiftWindow, error) {
	templates, err := h.Store.ActiveTemplates(r.Context(), employeeID)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if t.Active {
			return t.ShiftFor(at.Weekday()), nil
		}
	}
	return nil, nil
}

// parseDateRange reads start/end query params as YYYY-MM-DD. Missing
// values default to the last 7 days ending today.
func parseDateRange(r *http.Request) (start, end time.Time, err error) {
	const layout = "2006-01-02"

	endStr := r.URL.Query().Get("end")
	if endStr == "" {
		now := time.Now().UTC()
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if end, err = time.Parse(layout, endStr); err != nil {
		return start, end, fmt.Errorf("invalid end date %q: %w", endStr, err)
	}

	startStr := r.URL.Query().Get("start")
	if startStr == "" {
		start = end.AddDate(0, 0, -6)
	} else if start, err = time.Parse(layout, startStr); err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", startStr, err)
	}

	if end.Before(start) {
		return start, end, fmt.Errorf("end date before start date")
	}
	return start, end, nil
}

// endOfDay returns the last instant of the timestamp's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// validClock reports whether s looks like "HH:MM".
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
