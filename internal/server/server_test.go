package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashicode/grade/internal/catalog"
	"github.com/akashicode/grade/internal/importer"
	"github.com/akashicode/grade/internal/reader"
)

const moduleDoc = `Curso de Mecânica
MÓDULO 1
DESENHO TÉCNICO
40
METROLOGIA
60
`

func newTestServer(t *testing.T, mutate ...func(*Config)) http.Handler {
	t.Helper()
	store, err := catalog.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := Config{
		Importer:       importer.New(reader.Options{}, store),
		StoreDriver:    "memory",
		ExtractTimeout: time.Minute,
		MaxUploadBytes: 1 << 20,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func jsonRequest(method, target string, v interface{}) *http.Request {
	data, _ := json.Marshal(v)
	req := httptest.NewRequest(method, target, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["store"])
}

func TestExtract_Text(t *testing.T) {
	rec, body := do(t, newTestServer(t), jsonRequest(http.MethodPost, "/v1/curricula/extract", map[string]string{"text": moduleDoc}))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "alternating_lines", body["format"])
	assert.Equal(t, map[string]interface{}{
		"inline_table":      float64(0),
		"alternating_lines": float64(2),
		"semester_sections": float64(0),
	}, body["candidates"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Mecânica", data["courseName"])
	assert.Equal(t, float64(1), data["totalSemesters"])
	subjects := data["subjects"].([]interface{})
	require.Len(t, subjects, 2)
	assert.Equal(t, "Desenho Técnico", subjects[0].(map[string]interface{})["subjectName"])
}

func TestExtract_Base64(t *testing.T) {
	payload := map[string]string{
		"pdfBase64": "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(moduleDoc)),
		"fileName":  "grade.txt",
	}
	rec, body := do(t, newTestServer(t), jsonRequest(http.MethodPost, "/v1/curricula/extract", payload))
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "alternating_lines", body["format"])
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name       string
		payload    interface{}
		wantStatus int
		wantKind   string
	}{
		{name: "missing input", payload: map[string]string{}, wantStatus: http.StatusBadRequest, wantKind: "bad_request"},
		{name: "bad base64", payload: map[string]string{"pdfBase64": "%%%"}, wantStatus: http.StatusBadRequest, wantKind: "bad_request"},
		{
			name:       "unreadable pdf",
			payload:    map[string]string{"pdfBase64": base64.StdEncoding.EncodeToString([]byte("not a pdf"))},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "source_unavailable",
		},
		{name: "blank text", payload: map[string]string{"text": " \n "}, wantStatus: http.StatusUnprocessableEntity, wantKind: "empty_document"},
		{name: "no subjects", payload: map[string]string{"text": "Bem-vindo ao curso.\n"}, wantStatus: http.StatusUnprocessableEntity, wantKind: "no_subjects_found"},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, jsonRequest(http.MethodPost, "/v1/curricula/extract", tt.payload))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, false, body["success"])
			errBody := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantKind, errBody["kind"])
			assert.NotEmpty(t, errBody["message"])
		})
	}
}

func TestExtract_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/curricula/extract", strings.NewReader("{"))
	rec, _ := do(t, newTestServer(t), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtract_BodyTooLarge(t *testing.T) {
	h := newTestServer(t, func(c *Config) { c.MaxUploadBytes = 16 })
	rec, body := do(t, h, jsonRequest(http.MethodPost, "/v1/curricula/extract", map[string]string{"text": moduleDoc}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestExtract_Timeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	req := jsonRequest(http.MethodPost, "/v1/curricula/extract", map[string]string{"text": moduleDoc}).WithContext(ctx)
	rec, body := do(t, newTestServer(t), req)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "timeout", body["error"].(map[string]interface{})["kind"])
}

func TestCurriculum_PutAndGet(t *testing.T) {
	h := newTestServer(t)
	subjects := map[string]interface{}{
		"subjects": []map[string]interface{}{
			{"semester": 1, "subjectName": "Desenho Técnico", "workload": 40},
			{"semester": 2, "subjectName": "Metrologia", "workload": 60},
		},
	}

	rec, body := do(t, h, jsonRequest(http.MethodPut, "/v1/courses/5/curriculum", subjects))
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, float64(2), body["count"])

	rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/courses/5/curriculum", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	entries := body["data"].([]interface{})
	require.Len(t, entries, 2)
	second := entries[1].(map[string]interface{})
	assert.Equal(t, float64(1), second["order"])
	assert.Equal(t, "Metrologia", second["subjectName"])
}

func TestCurriculum_Descriptions(t *testing.T) {
	tests := []struct {
		name    string
		subject map[string]interface{}
		want    interface{}
	}{
		{
			name:    "description is stored",
			subject: map[string]interface{}{"semester": 1, "subjectName": "Artes", "workload": 40, "description": "Ementa de artes"},
			want:    "Ementa de artes",
		},
		{
			name:    "missing description is omitted",
			subject: map[string]interface{}{"semester": 1, "subjectName": "Artes", "workload": 40},
			want:    nil,
		},
		{
			name:    "client order is renumbered",
			subject: map[string]interface{}{"order": 9, "semester": 2, "subjectName": "Música", "workload": 20, "description": "Teoria musical"},
			want:    "Teoria musical",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t)
			req := map[string]interface{}{"subjects": []map[string]interface{}{tt.subject}}

			rec, body := do(t, h, jsonRequest(http.MethodPut, "/v1/courses/8/curriculum", req))
			require.Equal(t, http.StatusOK, rec.Code, body)

			rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/courses/8/curriculum", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			entries := body["data"].([]interface{})
			require.Len(t, entries, 1)
			got := entries[0].(map[string]interface{})
			assert.Equal(t, float64(0), got["order"])
			assert.Equal(t, tt.subject["subjectName"], got["subjectName"])
			assert.Equal(t, tt.want, got["description"])
		})
	}
}

func TestCurriculum_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
	}{
		{name: "non numeric id", req: httptest.NewRequest(http.MethodGet, "/v1/courses/abc/curriculum", nil)},
		{name: "zero id", req: httptest.NewRequest(http.MethodGet, "/v1/courses/0/curriculum", nil)},
		{name: "empty list", req: jsonRequest(http.MethodPut, "/v1/courses/1/curriculum", map[string]interface{}{"subjects": []string{}})},
		{name: "blank name", req: jsonRequest(http.MethodPut, "/v1/courses/1/curriculum", map[string]interface{}{
			"subjects": []map[string]interface{}{{"semester": 1, "subjectName": ""}},
		})},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, func(c *Config) { c.CORSOrigins = []string{"https://admin.example.com"} })

	req := httptest.NewRequest(http.MethodOptions, "/v1/curricula/extract", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/curricula/extract", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllowedOrigin(t *testing.T) {
	assert.Equal(t, "*", allowedOrigin(nil, "https://a"))
	assert.Equal(t, "*", allowedOrigin([]string{"*"}, ""))
	assert.Equal(t, "https://a", allowedOrigin([]string{"https://a"}, "https://a"))
	assert.Equal(t, "", allowedOrigin([]string{"https://a"}, "https://b"))
}

func TestNew_RequiresImporter(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
