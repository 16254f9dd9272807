package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
	"github.com/go-chi/chi/v5"
)

// maxUploadMemory bounds the multipart form kept in memory.
const maxUploadMemory = 10 << 20

var errMissingDataField = errors.New("field 'data' is required")

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployeeProjects(w http.ResponseWriter, r *http.Request)
	ListManagers(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	params, err := listing.ParseParams(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.ListEmployees(r.Context(), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest

	file, header, err := decodeEmployeeBody(r, &req)
	if err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		badBody(w, err)
		return
	}
	if file != nil {
		defer file.Close()
		req.File, req.FileHeader = file, header
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	file, header, err := decodeEmployeeBody(r, &req)
	if err != nil {
		slog.Error("UpdateEmployee decode error", "error", err)
		badBody(w, err)
		return
	}
	if file != nil {
		defer file.Close()
		req.File, req.FileHeader = file, header
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler. A delete that would orphan data
// answers 400 with status required_manager (manages a project),
// required_employee (the only member left on a project) or
// employee_in_manager (still the manager of another employee).
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// GetEmployeeProjects implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployeeProjects(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.employeeService.GetEmployeeProjects(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListManagers implements EmployeeHandler
func (h *employeeHandlerImpl) ListManagers(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListManagers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// decodeEmployeeBody fills dst from a JSON body, or from the 'data' field of
// a multipart form. The optional 'avatar' part is returned open; the caller
// closes it.
func decodeEmployeeBody(r *http.Request, dst any) (multipart.File, *multipart.FileHeader, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, nil, json.NewDecoder(r.Body).Decode(dst)
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, err
	}
	data := r.FormValue("data")
	if data == "" {
		return nil, nil, errMissingDataField
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return nil, nil, err
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return file, header, nil
}

func badBody(w http.ResponseWriter, err error) {
	if errors.Is(err, errMissingDataField) {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}
	response.BadRequest(w, "Invalid request format", nil)
}

// pathID parses the {id} URL parameter, answering 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid id", nil)
		return 0, false
	}
	return id, true
}
