package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_BlockArray(t *testing.T) {
	raw := `[{"id":"b1","key":"diagnosis","title":"Dx","content":"text"}]`

	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)
	assert.False(t, doc.IsLegacy())
	require.Len(t, doc.List, 1)
	assert.Equal(t, KeyDiagnosis, doc.List[0].Key)
	assert.Equal(t, "text", doc.List[0].Content.Text())
}

func TestParseDocument_StringWrapped(t *testing.T) {
	inner := `[{"id":"b1","key":"goal","content":"g"}]`
	raw, err := json.Marshal(inner)
	require.NoError(t, err)

	doc, err := ParseDocument(raw)
	require.NoError(t, err)
	require.Len(t, doc.List, 1)
	assert.Equal(t, KeyGoal, doc.List[0].Key)
}

func TestParseDocument_LegacyKeyed(t *testing.T) {
	raw := `{"recommendations":"leer juntos","diagnosis":{"nivel":"medio"},"algo_viejo":"x"}`

	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)
	assert.True(t, doc.IsLegacy())
}

func TestParseDocument_Unparseable(t *testing.T) {
	for _, raw := range []string{`{not json`, ``, `null`, `42`} {
		_, err := ParseDocument([]byte(raw))
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestNormalize_LegacyOrderAndIDs(t *testing.T) {
	raw := `{"zeta":"z","recommendations":"r","diagnosis":"d","alpha":"a"}`
	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)

	titles := func(k Key) string { return "T-" + string(k) }
	out := doc.Normalize(titles)
	require.Len(t, out, 4)

	// vocabulary keys first in canonical order, unknown keys last, sorted
	assert.Equal(t, KeyDiagnosis, out[0].Key)
	assert.Equal(t, KeyRecommendations, out[1].Key)
	assert.Equal(t, KeyCustom, out[2].Key)
	assert.Equal(t, "alpha", out[2].Title)
	assert.Equal(t, KeyCustom, out[3].Key)
	assert.Equal(t, "zeta", out[3].Title)

	assert.Equal(t, "T-diagnosis", out[0].Title)
	assert.Equal(t, "d", out[0].Content.Text())

	seen := map[string]bool{}
	for _, b := range out {
		require.NotEmpty(t, b.ID)
		require.False(t, seen[b.ID])
		seen[b.ID] = true
	}
}

func TestNormalize_ListFixesIDs(t *testing.T) {
	doc := Document{List: []Block{
		{ID: "b1", Key: KeyGoal},
		{ID: "b1", Key: KeyStrategy},
		{Key: KeyResources},
	}}

	out := doc.Normalize(nil)
	require.Len(t, out, 3)
	assert.Equal(t, "b1", out[0].ID)
	assert.NotEqual(t, "b1", out[1].ID)
	assert.NotEmpty(t, out[2].ID)
}

func TestContent_JSONCodec(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"id":"b1","key":"activities","content":{"items":[1,2]}}`), &b)
	require.NoError(t, err)
	assert.False(t, b.Content.IsText())

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b1","key":"activities","content":{"items":[1,2]}}`, string(out))

	err = json.Unmarshal([]byte(`{"id":"b2","key":"goal","content":"texto"}`), &b)
	require.NoError(t, err)
	assert.True(t, b.Content.IsText())
	assert.Equal(t, "texto", b.Content.Text())
}

func TestMarshalCanonical_RoundTrip(t *testing.T) {
	in := []Block{
		{ID: "b1", Key: KeyGoal, Title: "G", Content: TextContent("meta")},
		{ID: "b2", Key: KeyActivities, Content: StructuredContent([]byte(`[{"title":"leer"}]`))},
	}
	s, err := MarshalCanonical(in)
	require.NoError(t, err)

	doc, err := ParseDocument([]byte(s))
	require.NoError(t, err)
	require.Len(t, doc.List, 2)
	assert.Equal(t, in[0].Content.Text(), doc.List[0].Content.Text())
	assert.JSONEq(t, `[{"title":"leer"}]`, string(doc.List[1].Content.Structured()))
}
