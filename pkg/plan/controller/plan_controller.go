package controller

import "github.com/labstack/echo/v4"

type PlanController interface {
	Generate(c echo.Context) error
	Create(c echo.Context) error
	Get(c echo.Context) error
	ListByStudent(c echo.Context) error
	Update(c echo.Context) error
	PatchBlocks(c echo.Context) error
	Assign(c echo.Context) error
	ForceComplete(c echo.Context) error
	Delete(c echo.Context) error
	ExportLog(c echo.Context) error
}
