package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"piar/pkg/blocks"
)

// Request is the generation payload sent to the content service.
type Request struct {
	StudentID     uint   `json:"student_id"`
	StudentName   string `json:"student_name"`
	PlanType      string `json:"plan_type"` // emotional|academic
	FocusArea     string `json:"focus_area,omitempty"`
	SpecificNeeds string `json:"specific_needs,omitempty"`
	Observations  string `json:"observacion_manual"`
	Context       string `json:"contexto"`
	Language      string `json:"language"`
	UserID        string `json:"user_id"`
}

// Result is a successfully parsed generation response. Document still carries
// either shape; callers normalize it once at the boundary.
type Result struct {
	SupportGoal     string
	SupportStrategy string
	Document        blocks.Document
	Raw             json.RawMessage
}

// BadResponseError means the service answered, but with an error-shaped
// payload or plan content that could not be interpreted. The raw payload is
// kept for the manual-recovery export.
type BadResponseError struct {
	Message string
	Raw     json.RawMessage
}

func (e *BadResponseError) Error() string {
	return fmt.Sprintf("generation response unusable: %s", e.Message)
}

type Client interface {
	// GeneratePlan issues one generation call. kbCtx carries retrieved
	// resource-library snippets to ground the model; it may be empty.
	GeneratePlan(ctx context.Context, req Request, kbCtx string) (*Result, error)
}

// ParsePlanPayload classifies a raw service payload. An explicit error field,
// a missing plan_json, or plan content that parses as neither shape all count
// as failure.
func ParsePlanPayload(raw []byte) (*Result, error) {
	var env struct {
		Status          string          `json:"status"`
		Error           string          `json:"error"`
		Message         string          `json:"message"`
		PlanJSON        json.RawMessage `json:"plan_json"`
		SupportGoal     string          `json:"support_goal"`
		SupportStrategy string          `json:"support_strategy"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &BadResponseError{Message: "response is not valid JSON", Raw: raw}
	}
	if env.Status == "error" || env.Error != "" {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return nil, &BadResponseError{Message: msg, Raw: raw}
	}
	if len(env.PlanJSON) == 0 {
		return nil, &BadResponseError{Message: "response has no plan_json", Raw: raw}
	}
	doc, err := blocks.ParseDocument(env.PlanJSON)
	if err != nil {
		return nil, &BadResponseError{Message: "plan_json has an unexpected shape", Raw: raw}
	}
	return &Result{
		SupportGoal:     env.SupportGoal,
		SupportStrategy: env.SupportStrategy,
		Document:        doc,
		Raw:             raw,
	}, nil
}
