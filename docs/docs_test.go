package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Summary string   `json:"summary"`
			Tags    []string `json:"tags"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Contains(t, doc.Paths, "/progress/{lessonId}")
	assert.Contains(t, doc.Paths, "/whatsapp/webhook")
	assert.Equal(t, []string{"学习进度"}, doc.Paths["/stats"]["get"].Tags)
	assert.Equal(t, "获取学习统计", doc.Paths["/stats"]["get"].Summary)
	assert.Equal(t, []string{"分析"}, doc.Paths["/analytics/events"]["post"].Tags)
}
