package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type mockClient struct{}

// NewMock returns a deterministic client used when no LLM endpoint is
// configured. Output varies with plan type and a few observation keywords so
// local runs still exercise the full editing flow.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) GeneratePlan(_ context.Context, r Request, _ string) (*Result, error) {
	goal := "Fortalecer la autonomía académica"
	strategy := "Trabajo por metas cortas con refuerzo positivo"
	if r.PlanType == "emotional" {
		goal = "Mejorar la autorregulación emocional"
		strategy = "Rutinas de identificación y expresión de emociones"
	}

	type mb struct {
		ID      string `json:"id"`
		Key     string `json:"key"`
		Title   string `json:"title"`
		Content any    `json:"content"`
	}
	bs := []mb{
		{ID: "b1", Key: "diagnosis", Title: "Diagnóstico",
			Content: fmt.Sprintf("Perfil inicial de %s elaborado a partir de las observaciones registradas.", r.StudentName)},
		{ID: "b2", Key: "goal", Title: "Objetivo de apoyo", Content: goal},
		{ID: "b3", Key: "strategy", Title: "Estrategia", Content: strategy},
		{ID: "b4", Key: "activities", Title: "Actividades", Content: []map[string]string{
			{"title": "Sesión de lectura guiada", "notes": "20 minutos, material adaptado"},
			{"title": "Registro de logros semanales", "notes": "con la familia"},
		}},
	}
	joined := r.Observations + " " + r.Context
	if strings.Contains(strings.ToLower(joined), "familia") {
		bs = append(bs, mb{ID: "b5", Key: "family_tips", Title: "Pautas para la familia",
			Content: "Mantener rutinas estables y reforzar los avances en casa."})
	}
	bs = append(bs, mb{ID: fmt.Sprintf("b%d", len(bs)+1), Key: "tracking_indicators",
		Title: "Indicadores de seguimiento",
		Content: []string{"participación en clase", "tareas completadas", "registro emocional diario"}})

	payload := map[string]any{
		"plan_json":        bs,
		"support_goal":     goal,
		"support_strategy": strategy,
	}
	raw, _ := json.Marshal(payload)
	return ParsePlanPayload(raw)
}
