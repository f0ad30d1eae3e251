package controllerImp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"piar/entities"
	"piar/pkg/ai"
	"piar/pkg/catalog"
	"piar/pkg/generation"
	"piar/pkg/logger"
	obsrepo "piar/pkg/observation/repositoryImp"
	planrepo "piar/pkg/plan/repositoryImp"
	plansvc "piar/pkg/plan/serviceImp"
	sturepo "piar/pkg/student/repositoryImp"
)

// captureClient records the request it was handed and answers with a fixed
// valid plan.
type captureClient struct{ got ai.Request }

func (c *captureClient) GeneratePlan(_ context.Context, r ai.Request, _ string) (*ai.Result, error) {
	c.got = r
	return ai.ParsePlanPayload([]byte(
		`{"plan_json":[{"id":"b1","key":"goal","content":"g"}],"support_goal":"G"}`))
}

func newTestCtrl(t *testing.T) (*PlanCtrl, *captureClient, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Student{}, &entities.SupportPlan{},
		&entities.GenerationLog{}, &entities.ObservationEntry{},
	))

	log := logger.NewNop()
	cat := catalog.Default("es")
	plans := planrepo.New(db)
	students := sturepo.New(db)
	observations := obsrepo.New(db)
	svc := plansvc.NewPlanService(plans, cat, log)

	cl := &captureClient{}
	newWorkflow := func() *generation.Workflow {
		return generation.New(cl, svc, nil, cat, log)
	}
	ctrl := NewPlanCtrl(svc, plans, students, observations, newWorkflow, "es", log)
	return ctrl, cl, db
}

func postGenerate(t *testing.T, ctrl *PlanCtrl, studentID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(studentID)))
	c.Set("uid", "U1")
	require.NoError(t, ctrl.Generate(c))
	return rec
}

func TestGenerate_DefaultsFromStudentRecord(t *testing.T) {
	ctrl, cl, db := newTestCtrl(t)

	st := entities.Student{FullName: "Ana Gómez", PIARSummary: "perfil con apoyo lector"}
	require.NoError(t, db.Create(&st).Error)
	require.NoError(t, db.Create(&entities.ObservationEntry{
		StudentID: st.StudentID,
		Date:      time.Now().AddDate(0, 0, -3),
		Category:  "academic",
		Text:      "participa poco en lectura",
	}).Error)

	rec := postGenerate(t, ctrl, st.StudentID, `{"plan_type":"academic"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "perfil con apoyo lector", cl.got.Context)
	assert.Contains(t, cl.got.Observations, "participa poco en lectura")
	assert.Contains(t, cl.got.Observations, "[academic]")
}

func TestGenerate_ExplicitInputsWin(t *testing.T) {
	ctrl, cl, db := newTestCtrl(t)

	st := entities.Student{FullName: "Ana", PIARSummary: "resumen almacenado"}
	require.NoError(t, db.Create(&st).Error)

	body := `{"plan_type":"academic","context_for_ai":"contexto manual","key_observations":"obs manual"}`
	rec := postGenerate(t, ctrl, st.StudentID, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "contexto manual", cl.got.Context)
	assert.Equal(t, "obs manual", cl.got.Observations)
}

func TestGenerate_NoMaterialStillBlocked(t *testing.T) {
	ctrl, _, db := newTestCtrl(t)

	st := entities.Student{FullName: "Ana"} // no summary, no observations
	require.NoError(t, db.Create(&st).Error)

	rec := postGenerate(t, ctrl, st.StudentID, `{"plan_type":"academic"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "context_for_ai", out["field"])
}
