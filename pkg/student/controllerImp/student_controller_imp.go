package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"piar/entities"
	repo "piar/pkg/student/repository"
)

type StudentCtrl struct{ repo repo.StudentRepository }

func New(repo repo.StudentRepository) *StudentCtrl { return &StudentCtrl{repo} }

func (h *StudentCtrl) Create(c echo.Context) error {
	var s entities.Student
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if s.FullName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "full_name is required"})
	}
	if err := h.repo.Create(&s); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *StudentCtrl) Get(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StudentCtrl) List(c echo.Context) error {
	out, err := h.repo.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// GetProfile returns the stored profile of the current user.
func (h *StudentCtrl) GetProfile(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	p, err := h.repo.FindProfile(uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no profile for user"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpsertProfile stores the current user's profile; DevLogin resolves roles
// from it on later requests.
func (h *StudentCtrl) UpsertProfile(c echo.Context) error {
	var p entities.UserProfile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if p.UserID == "" {
		p.UserID, _ = c.Get("uid").(string)
	}
	if p.UserID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}
	if err := h.repo.UpsertProfile(&p); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}
