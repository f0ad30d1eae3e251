package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"piar/config"
	"piar/database"
	actctrl "piar/pkg/activity/controllerImp"
	actsvc "piar/pkg/activity/service"
	"piar/pkg/ai"
	"piar/pkg/catalog"
	"piar/pkg/generation"
	kbctrl "piar/pkg/kb/controllerImp"
	"piar/pkg/kb/embedder"
	kbrepo "piar/pkg/kb/repositoryImp"
	kbsvc "piar/pkg/kb/serviceImp"
	"piar/pkg/logger"
	obsctrl "piar/pkg/observation/controllerImp"
	obsrepo "piar/pkg/observation/repositoryImp"
	planctrl "piar/pkg/plan/controllerImp"
	planrepo "piar/pkg/plan/repositoryImp"
	plansvc "piar/pkg/plan/serviceImp"
	stuctrl "piar/pkg/student/controllerImp"
	sturepo "piar/pkg/student/repositoryImp"
	"piar/router"
)

type healthCtrl struct{}

func (healthCtrl) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Load(log)
	db := database.OpenSQLite(cfg.DBPath, log)

	cat, err := catalog.LoadFromFiles(cfg.DefaultLanguage, cfg.CatalogCSV, cfg.CatalogXLSX)
	if err != nil {
		log.Fatal("load catalog", "error", err)
	}

	// Repos
	plans := planrepo.New(db)
	students := sturepo.New(db)
	observations := obsrepo.New(db)
	kbRepo := kbrepo.New(db)

	// Resource library; embeddings are optional
	var emb *embedder.Client
	if cfg.EmbedEndpoint != "" {
		emb = embedder.New(cfg.EmbedEndpoint, cfg.EmbedAPIKey, cfg.EmbedModel)
	}
	kb := kbsvc.New(kbRepo, emb)

	// Generation client; mock keeps local runs working without an endpoint
	var llm ai.Client
	if cfg.LLMEndpoint != "" {
		llm = ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
	} else {
		log.Warn("no LLM endpoint configured, using mock generation client")
		llm = ai.NewMock()
	}

	// Services
	planSvc := plansvc.NewPlanService(plans, cat, log)
	actSvc := actsvc.New(db)

	newWorkflow := func() *generation.Workflow {
		return generation.New(llm, planSvc, kb, cat, log)
	}

	// Roles come from headers/cookies first, then the stored profile
	resolveRole := func(uid string) (string, bool) {
		p, err := students.FindProfile(uid)
		if err != nil {
			return "", false
		}
		return p.Role, true
	}

	// Controllers
	e := echo.New()
	e.HideBanner = true
	router.New(e,
		resolveRole,
		stuctrl.New(students),
		planctrl.NewPlanCtrl(planSvc, plans, students, observations, newWorkflow, cfg.DefaultLanguage, log),
		obsctrl.New(observations),
		actctrl.New(actSvc, planSvc),
		kbctrl.New(kb),
		healthCtrl{},
	)

	log.Info("listening", "port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
