package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanPayload_Success(t *testing.T) {
	raw := `{"plan_json":[{"id":"b1","key":"diagnosis","title":"Dx","content":"text"}],"support_goal":"G","support_strategy":"S"}`

	res, err := ParsePlanPayload([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "G", res.SupportGoal)
	assert.Equal(t, "S", res.SupportStrategy)
	assert.False(t, res.Document.IsLegacy())
	assert.Len(t, res.Document.List, 1)
}

func TestParsePlanPayload_PlanJSONAsString(t *testing.T) {
	inner := `[{"id":"b1","key":"goal","content":"g"}]`
	payload, err := json.Marshal(map[string]any{"plan_json": inner})
	require.NoError(t, err)

	res, err := ParsePlanPayload(payload)
	require.NoError(t, err)
	require.Len(t, res.Document.List, 1)
}

func TestParsePlanPayload_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		msg  string
	}{
		{"error status", `{"status":"error","error":"quota","message":"m"}`, "m"},
		{"error field only", `{"error":"boom"}`, "boom"},
		{"missing plan_json", `{"support_goal":"G"}`, "response has no plan_json"},
		{"unparseable plan_json", `{"plan_json":"{not json"}`, "plan_json has an unexpected shape"},
		{"not json at all", `<html>`, "response is not valid JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePlanPayload([]byte(tc.raw))
			var bad *BadResponseError
			require.ErrorAs(t, err, &bad)
			assert.Equal(t, tc.msg, bad.Message)
			assert.Equal(t, tc.raw, string(bad.Raw))
		})
	}
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestOpenAI_GeneratePlan(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(chatResponse(
			`{"plan_json":[{"id":"b1","key":"goal","content":"g"}],"support_goal":"G"}`)))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "k", "test-model")
	res, err := c.GeneratePlan(context.Background(), Request{
		StudentID:    1,
		StudentName:  "Ana",
		PlanType:     "academic",
		Observations: "obs",
		Context:      "ctx",
		Language:     "es",
	}, "material")
	require.NoError(t, err)
	assert.Equal(t, "G", res.SupportGoal)

	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])
	msgs := gotBody["messages"].([]any)
	user := msgs[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "ctx")
	assert.Contains(t, user, "obs")
	assert.Contains(t, user, "material")
}

func TestOpenAI_BadModelOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse("sorry, I cannot do that")))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "k", "m")
	_, err := c.GeneratePlan(context.Background(), Request{}, "")
	var bad *BadResponseError
	assert.ErrorAs(t, err, &bad)
}

func TestOpenAI_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewOpenAI(srv.URL, "k", "m")
	_, err := c.GeneratePlan(context.Background(), Request{}, "")
	require.Error(t, err)
	var bad *BadResponseError
	assert.False(t, errors.As(err, &bad), "transport failure is not a format error")
}

func TestMock_GeneratePlan(t *testing.T) {
	res, err := NewMock().GeneratePlan(context.Background(), Request{
		StudentName:  "Ana",
		PlanType:     "emotional",
		Observations: "participa poco",
		Context:      "apoyo de la familia",
	}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.SupportGoal)
	assert.False(t, res.Document.IsLegacy())
	assert.NotEmpty(t, res.Document.List)

	keys := map[string]bool{}
	for _, b := range res.Document.List {
		keys[string(b.Key)] = true
	}
	assert.True(t, keys["diagnosis"])
	assert.True(t, keys["family_tips"], "family keyword should add family tips")
}
