package controllerImp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"piar/entities"
	"piar/pkg/export"
	"piar/pkg/generation"
	"piar/pkg/logger"
	obsrepo "piar/pkg/observation/repository"
	planrepo "piar/pkg/plan/repository"
	"piar/pkg/plan/service"
	"piar/pkg/plan/serviceImp"
	studentrepo "piar/pkg/student/repository"
)

type PlanCtrl struct {
	svc          service.PlanService
	repo         planrepo.PlanRepository
	students     studentrepo.StudentRepository
	observations obsrepo.ObservationRepository
	newWorkflow  func() *generation.Workflow
	defaultLang  string
	log          *logger.Logger
}

func NewPlanCtrl(
	svc service.PlanService,
	repo planrepo.PlanRepository,
	students studentrepo.StudentRepository,
	observations obsrepo.ObservationRepository,
	newWorkflow func() *generation.Workflow,
	defaultLang string,
	log *logger.Logger,
) *PlanCtrl {
	return &PlanCtrl{
		svc:          svc,
		repo:         repo,
		students:     students,
		observations: observations,
		newWorkflow:  newWorkflow,
		defaultLang:  defaultLang,
		log:          log,
	}
}

// Generate runs one generation attempt for a student and persists the result
// as a draft. Failed attempts are recorded so their raw payload can be
// exported for manual recovery.
func (h *PlanCtrl) Generate(c echo.Context) error {
	sid, _ := strconv.Atoi(c.Param("id"))
	student, err := h.students.FindByID(uint(sid))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
	}

	var req generation.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	req.StudentID = student.StudentID
	req.StudentName = student.FullName
	if req.Language == "" {
		req.Language = h.defaultLang
	}
	uid, _ := c.Get("uid").(string)
	req.UserID = uid

	// Default missing inputs from the student record: the PIAR summary as
	// context, the recent observation log as key observations. The validation
	// gate still rejects the request when neither source has material.
	if strings.TrimSpace(req.ContextForAI) == "" {
		req.ContextForAI = student.PIARSummary
	}
	if strings.TrimSpace(req.KeyObservations) == "" && h.observations != nil {
		if recent, err := h.observations.Recent(student.StudentID, 60); err == nil {
			var sb strings.Builder
			for _, o := range recent {
				fmt.Fprintf(&sb, "%s [%s] %s\n", o.Date.Format("2006-01-02"), o.Category, o.Text)
			}
			req.KeyObservations = sb.String()
		}
	}

	wf := h.newWorkflow()
	if err := wf.Generate(c.Request().Context(), req); err != nil {
		var ve *generation.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": ve.Reason,
				"field": ve.Field,
			})
		}
		gl := &entities.GenerationLog{
			StudentID:    student.StudentID,
			PlanType:     req.PlanType,
			Status:       "error",
			ErrorMessage: wf.ErrorMessage(),
			RawResponse:  string(wf.RawResponse()),
			RequestedBy:  uid,
		}
		if lerr := h.repo.CreateLog(gl); lerr != nil {
			h.log.Error("record failed generation", "error", lerr)
		}
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":             wf.ErrorMessage(),
			"generation_log_id": gl.ID,
		})
	}

	p, err := wf.Save(false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	gl := &entities.GenerationLog{
		StudentID:   student.StudentID,
		PlanID:      &p.PlanID,
		PlanType:    req.PlanType,
		Status:      "ok",
		RawResponse: string(wf.RawResponse()),
		RequestedBy: uid,
	}
	if err := h.repo.CreateLog(gl); err != nil {
		h.log.Error("record generation", "error", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"plan":   p,
		"blocks": wf.Editor().Blocks(),
	})
}

func (h *PlanCtrl) Create(c echo.Context) error {
	var d service.PlanDetails
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if d.StudentID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "student_id is required"})
	}
	if uid, _ := c.Get("uid").(string); d.ResponsibleID == "" {
		d.ResponsibleID = uid
	}
	p, err := h.svc.Create(d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlanCtrl) Get(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	p, err := h.svc.Get(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) ListByStudent(c echo.Context) error {
	sid, _ := strconv.Atoi(c.Param("id"))
	ps, err := h.svc.ListByStudent(uint(sid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *PlanCtrl) Update(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var d service.PlanDetails
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	p, err := h.svc.Update(uint(id), d)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) PatchBlocks(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var body struct {
		Language string            `json:"language"`
		Ops      []service.BlockOp `json:"ops"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if body.Language == "" {
		body.Language = h.defaultLang
	}
	p, err := h.svc.ApplyBlockOps(uint(id), body.Language, body.Ops)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) Assign(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	uid, _ := c.Get("uid").(string)
	p, err := h.svc.Assign(uint(id), uid)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) ForceComplete(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	role, _ := c.Get("role").(string)
	p, err := h.svc.ForceComplete(uint(id), role)
	if err != nil {
		if errors.Is(err, serviceImp.ErrNotAuthorized) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanCtrl) Delete(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := h.svc.Delete(uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportLog streams the recovery workbook for a recorded generation attempt.
func (h *PlanCtrl) ExportLog(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	gl, err := h.repo.FindLog(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "generation log not found"})
	}
	student, _ := h.students.FindByID(gl.StudentID)
	f, err := export.FailureWorkbook(gl, student)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="generation-%d.xlsx"`, gl.ID))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
