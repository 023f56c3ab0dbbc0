package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-api/internal/domain"
	"employee-api/internal/transport/http/dto"
	mdw "employee-api/internal/transport/http/middleware"
	resp "employee-api/internal/transport/http/response"
)

const (
	msgNotFound    = "Employee not found"
	msgCreated     = "Employee created successfully"
	msgUpdated     = "Employee updated successfully"
	msgDeleted     = "Employee deleted successfully"
	msgInvalidBody = "Invalid request body"

	msgListFailed   = "Error fetching employees"
	msgGetFailed    = "Error fetching employee"
	msgSearchFailed = "Error searching employees"
	msgCreateFailed = "Error creating employee"
	msgUpdateFailed = "Error updating employee"
	msgDeleteFailed = "Error deleting employee"
)

// EmployeeService is what the handler needs from the service layer.
type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id uint64) (*domain.Employee, error)
	SearchEmployees(ctx context.Context, query string) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, in domain.EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
}

type EmployeeHandler struct {
	svc EmployeeService
	log *zap.Logger
}

func NewEmployeeHandler(svc EmployeeService, l *zap.Logger) *EmployeeHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &EmployeeHandler{svc: svc, log: l}
}

// MountAPI registers the employee routes. search must precede /:id.
func (h *EmployeeHandler) MountAPI(g *gin.RouterGroup) {
	g.GET("/employees", h.List)
	g.GET("/employees/search", h.Search)
	g.GET("/employees/:id", h.Get)
	g.POST("/employees", h.Create)
	g.PUT("/employees/:id", h.Update)
	g.DELETE("/employees/:id", h.Delete)
}

func (h *EmployeeHandler) Priority() int { return 10 }

func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.svc.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err, msgListFailed)
		return
	}
	resp.OK(c, list)
}

func (h *EmployeeHandler) Search(c *gin.Context) {
	list, err := h.svc.SearchEmployees(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.fail(c, err, msgSearchFailed)
		return
	}
	resp.OK(c, list)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := h.svc.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, msgGetFailed)
		return
	}
	resp.OK(c, e)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	e, err := h.svc.CreateEmployee(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, msgCreateFailed)
		return
	}
	resp.Created(c, msgCreated, dto.NewCreatedEmployee(e))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	if _, err := h.svc.UpdateEmployee(c.Request.Context(), id, in); err != nil {
		h.fail(c, err, msgUpdateFailed)
		return
	}
	resp.Done(c, msgUpdated)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgDeleteFailed)
		return
	}
	resp.Done(c, msgDeleted)
}

// pathID parses :id. A non-numeric id can never name a row, so it is a 404.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		resp.Fail(c, http.StatusNotFound, msgNotFound, "")
		return 0, false
	}
	return id, true
}

func bindInput(c *gin.Context) (domain.EmployeeInput, bool) {
	var req dto.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var de *domain.Error
		if errors.As(dto.BindError(err), &de) {
			resp.Fail(c, http.StatusBadRequest, de.Msg, "")
			return domain.EmployeeInput{}, false
		}
		resp.Fail(c, http.StatusBadRequest, msgInvalidBody, err.Error())
		return domain.EmployeeInput{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error(), "")
		return domain.EmployeeInput{}, false
	}
	return in, true
}

func (h *EmployeeHandler) fail(c *gin.Context, err error, opMsg string) {
	var de *domain.Error
	errors.As(err, &de)

	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict:
		resp.Fail(c, http.StatusBadRequest, de.Msg, "")
	case domain.KindNotFound:
		resp.Fail(c, http.StatusNotFound, msgNotFound, "")
	default:
		detail := err.Error()
		if de != nil && de.Err != nil {
			detail = de.Err.Error()
		}
		h.log.Error(opMsg,
			zap.String("request_id", mdw.RequestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.Fail(c, http.StatusInternalServerError, opMsg, detail)
	}
}
