package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bindTarget struct {
	Name     string   `json:"name"`
	Latitude *float64 `json:"latitude"`
}

func bindBody(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var out bindTarget
	return w, bindJSON(c, &out)
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOK      bool
		wantDetails map[string]any
	}{
		{"valid", `{"name":"General","latitude":1.5}`, true, nil},
		{"empty body", ``, false, map[string]any{"body": "request body is empty"}},
		{"bad syntax", `{"name":`, false, map[string]any{"body": "invalid JSON syntax"}},
		{"wrong type", `{"latitude":"north"}`, false, map[string]any{"latitude": "must be of type float64"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := bindBody(t, tt.body)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "validation_error", body["code"])
			assert.Equal(t, tt.wantDetails, body["details"])
		})
	}
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "latitude", jsonFieldName(&bindTarget{}, "Latitude"))
	assert.Equal(t, "name", jsonFieldName(&bindTarget{}, "name"))
	assert.Equal(t, "", jsonFieldName(&bindTarget{}, ""))
	assert.Equal(t, "other", jsonFieldName(&bindTarget{}, "other"))
}
