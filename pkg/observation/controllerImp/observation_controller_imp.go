package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"piar/entities"
	repo "piar/pkg/observation/repository"
)

type ObservationCtrl struct{ repo repo.ObservationRepository }

func New(repo repo.ObservationRepository) *ObservationCtrl { return &ObservationCtrl{repo} }

type obsReq struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

func (h *ObservationCtrl) Create(c echo.Context) error {
	sid, _ := strconv.Atoi(c.Param("id"))
	var req obsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}
	d := time.Now()
	if req.Date != "" {
		if dd, err := time.Parse("2006-01-02", req.Date); err == nil {
			d = dd
		}
	}
	uid, _ := c.Get("uid").(string)
	o := &entities.ObservationEntry{
		StudentID: uint(sid),
		Date:      d,
		Category:  req.Category,
		Text:      req.Text,
		AuthorID:  uid,
	}
	if err := h.repo.Create(o); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *ObservationCtrl) List(c echo.Context) error {
	sid, _ := strconv.Atoi(c.Param("id"))
	days := 60
	if v := c.QueryParam("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	out, err := h.repo.Recent(uint(sid), days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
