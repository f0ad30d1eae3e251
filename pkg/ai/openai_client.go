package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

func NewOpenAI(endpoint, key, model string) Client {
	return &openAI{
		endpoint: endpoint,
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *openAI) GeneratePlan(ctx context.Context, r Request, kbCtx string) (*Result, error) {
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt(r.Language)},
			{"role": "user", "content": renderPlanPrompt(r, kbCtx)},
		},
		"temperature":     0.2,
		"response_format": map[string]string{"type": "json_object"},
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.endpoint, "/")+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, &BadResponseError{Message: "no choices in response"}
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	return ParsePlanPayload([]byte(content))
}

func systemPrompt(lang string) string {
	return fmt.Sprintf(`You are a psychopedagogue who designs individualized support plans (PIAR) for students with special educational needs. Reply ONLY with valid JSON of the shape:
{"plan_json":[{"id":"b1","key":"diagnosis|recommendations|emotional_support|family_tips|tracking_indicators|goal|strategy|activities|resources","title":"...","content":"text or structured object"}],"support_goal":"...","support_strategy":"..."}
Write all human-readable text in language %q.`, lang)
}

func renderPlanPrompt(r Request, kbCtx string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Design a %s support plan for student %q.\n\n", r.PlanType, r.StudentName)
	fmt.Fprintf(&sb, "CONTEXT:\n%s\n\n", r.Context)
	fmt.Fprintf(&sb, "KEY OBSERVATIONS:\n%s\n\n", r.Observations)
	if r.FocusArea != "" {
		fmt.Fprintf(&sb, "FOCUS AREA: %s\n", r.FocusArea)
	}
	if r.SpecificNeeds != "" {
		fmt.Fprintf(&sb, "SPECIFIC NEEDS: %s\n", r.SpecificNeeds)
	}
	if kbCtx != "" {
		fmt.Fprintf(&sb, "\nREFERENCE MATERIAL (do not copy verbatim):\n%s\n", kbCtx)
	}
	sb.WriteString("\nInclude diagnosis, goal, strategy, recommendations, activities and tracking_indicators blocks. Keep each block concrete and actionable.")
	return sb.String()
}
