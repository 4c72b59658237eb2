package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	meta := NewMeta(20, 40, 95)
	assert.Equal(t, 3, meta.Page)
	assert.Equal(t, 5, meta.TotalPages)

	empty := NewMeta(20, 0, 0)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestMultiStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	MultiStatus(rec, "Bulk registration processed", []map[string]int{{"status": 201}, {"status": 404}}, false)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Len(t, body.Data, 2)
}

func TestNotFoundDefaultsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "")

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", body.Message)
}
