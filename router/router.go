package router

import (
	"github.com/labstack/echo/v4"

	"piar/pkg/middleware"
	"piar/pkg/plan/controller"
)

func New(
	e *echo.Echo,
	resolveRole middleware.RoleResolver,
	studentCtrl interface {
		Create(echo.Context) error
		Get(echo.Context) error
		List(echo.Context) error
		GetProfile(echo.Context) error
		UpsertProfile(echo.Context) error
	},
	planCtrl controller.PlanController,
	obsCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
	},
	actCtrl interface {
		Materialize(echo.Context) error
		List(echo.Context) error
		Patch(echo.Context) error
	},
	kbCtrl interface {
		IngestText(echo.Context) error
		IngestURL(echo.Context) error
		Search(echo.Context) error
		Docs(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(middleware.DevLogin(resolveRole))
	e.GET("/health", healthCtrl.Health)

	e.GET("/profile", studentCtrl.GetProfile)
	e.PUT("/profile", studentCtrl.UpsertProfile)

	e.POST("/students", studentCtrl.Create)
	e.GET("/students", studentCtrl.List)
	e.GET("/students/:id", studentCtrl.Get)

	e.POST("/students/:id/observations", obsCtrl.Create)
	e.GET("/students/:id/observations", obsCtrl.List)

	e.POST("/students/:id/plans/generate", planCtrl.Generate)
	e.GET("/students/:id/plans", planCtrl.ListByStudent)
	e.POST("/plans", planCtrl.Create)
	e.GET("/plans/:id", planCtrl.Get)
	e.PATCH("/plans/:id", planCtrl.Update)
	e.PATCH("/plans/:id/blocks", planCtrl.PatchBlocks)
	e.POST("/plans/:id/assign", planCtrl.Assign)
	e.POST("/plans/:id/complete", planCtrl.ForceComplete,
		middleware.RequireRole("psychopedagogue", "admin", "coordinator"))
	e.DELETE("/plans/:id", planCtrl.Delete)

	e.POST("/plans/:id/activities", actCtrl.Materialize)
	e.GET("/students/:id/activities", actCtrl.List)
	e.PATCH("/activities/:id", actCtrl.Patch)

	e.POST("/kb/ingest", kbCtrl.IngestText)
	e.POST("/kb/ingest/url", kbCtrl.IngestURL)
	e.GET("/kb/search", kbCtrl.Search)
	e.GET("/kb/docs", kbCtrl.Docs)

	e.GET("/generation-logs/:id/export", planCtrl.ExportLog)
	return e
}
