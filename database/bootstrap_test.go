package database

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"piar/entities"
	"piar/pkg/blocks"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.SupportPlan{}))
	return db
}

func TestMigrateLegacyPlanJSON(t *testing.T) {
	db := newTestDB(t)

	legacy := `{"diagnosis":"perfil inicial","goal":"meta","notas_tutor":"seguimiento semanal"}`
	array := `[{"id":"b1","key":"goal","content":"meta"}]`
	garbage := `{not json`

	plans := []entities.SupportPlan{
		{StudentID: 1, PlanJSON: legacy, Status: entities.PlanStatusDraft},
		{StudentID: 2, PlanJSON: array, Status: entities.PlanStatusActive},
		{StudentID: 3, PlanJSON: garbage, Status: entities.PlanStatusDraft},
		{StudentID: 4, PlanJSON: "", Status: entities.PlanStatusDraft},
	}
	for i := range plans {
		require.NoError(t, db.Create(&plans[i]).Error)
	}

	n, err := MigrateLegacyPlanJSON(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got entities.SupportPlan
	require.NoError(t, db.First(&got, plans[0].PlanID).Error)
	doc, err := blocks.ParseDocument([]byte(got.PlanJSON))
	require.NoError(t, err)
	require.False(t, doc.IsLegacy())
	require.Len(t, doc.List, 3)

	// canonical key order first, unknown keys renamed to custom at the end
	assert.Equal(t, blocks.KeyDiagnosis, doc.List[0].Key)
	assert.Equal(t, blocks.KeyGoal, doc.List[1].Key)
	assert.Equal(t, blocks.KeyCustom, doc.List[2].Key)
	assert.Equal(t, "notas_tutor", doc.List[2].Title)
	assert.NotEmpty(t, doc.List[0].ID)

	// untouched rows keep their content byte for byte
	got = entities.SupportPlan{}
	require.NoError(t, db.First(&got, plans[1].PlanID).Error)
	assert.Equal(t, array, got.PlanJSON)
	got = entities.SupportPlan{}
	require.NoError(t, db.First(&got, plans[2].PlanID).Error)
	assert.Equal(t, garbage, got.PlanJSON)
	got = entities.SupportPlan{}
	require.NoError(t, db.First(&got, plans[3].PlanID).Error)
	assert.Equal(t, "", got.PlanJSON)
}

func TestMigrateLegacyPlanJSON_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&entities.SupportPlan{
		StudentID: 1,
		PlanJSON:  `{"goal":"meta"}`,
		Status:    entities.PlanStatusDraft,
	}).Error)

	n, err := MigrateLegacyPlanJSON(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = MigrateLegacyPlanJSON(db)
	require.NoError(t, err)
	assert.Zero(t, n, "second run finds nothing legacy")
}
