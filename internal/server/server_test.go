package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crud_api/internal/config"
	"crud_api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:             8001,
		DBDriver:         config.DriverSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "api.sqlite"),
		CORSAllowOrigins: []string{"*"},
		MaxUploadBytes:   4096,
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     30 * time.Second,
		IdleTimeout:      time.Minute,
		ShutdownTimeout:  5 * time.Second,
	}
	srv, db, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return srv.Handler
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decode(t, rec)
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %q: %v", env.Data, err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func TestRootHealthAndRequestID(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/", nil)
	expectStatus(t, rec, http.StatusOK)
	var root map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &root); err != nil {
		t.Fatalf("decode root: %v", err)
	}
	if root["message"] != "Welcome to Car Owner Management API" || root["version"] == "" {
		t.Fatalf("root = %v", root)
	}
	if _, err := uuid.Parse(rec.Header().Get("X-Request-ID")); err != nil {
		t.Fatalf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}

	rec = doJSON(t, h, http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health body = %s", rec.Body.String())
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != id {
		t.Fatalf("request id not propagated: %q != %q", got, id)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestTodoEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "  buy milk ", "description": "2 liters"})
	expectStatus(t, rec, http.StatusCreated)
	var todo models.Todo
	decodeData(t, rec, &todo)
	if todo.ID == 0 || todo.Title != "buy milk" || todo.Completed {
		t.Fatalf("created todo = %+v", todo)
	}

	rec = doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "done already", "completed": true})
	expectStatus(t, rec, http.StatusCreated)

	rec = doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "   "})
	expectStatus(t, rec, http.StatusBadRequest)
	if env := decode(t, rec); len(env.Details) != 1 || env.Details[0] != "title is required" {
		t.Fatalf("validation details = %v", env.Details)
	}

	rec = doJSON(t, h, http.MethodPost, "/todos", `{"title":`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, h, http.MethodGet, "/todos?completed=true", nil)
	expectStatus(t, rec, http.StatusOK)
	var done []models.Todo
	decodeData(t, rec, &done)
	if len(done) != 1 || done[0].Title != "done already" {
		t.Fatalf("completed filter = %+v", done)
	}

	rec = doJSON(t, h, http.MethodGet, "/todos?completed=maybe", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, h, http.MethodGet, "/todos/abc", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	path := fmt.Sprintf("/todos/%d", todo.ID)
	rec = doJSON(t, h, http.MethodPut, path, map[string]any{"completed": true})
	expectStatus(t, rec, http.StatusOK)
	var updated models.Todo
	decodeData(t, rec, &updated)
	if !updated.Completed || updated.Title != "buy milk" || updated.Description == nil || *updated.Description != "2 liters" {
		t.Fatalf("updated todo = %+v", updated)
	}

	rec = doJSON(t, h, http.MethodPut, "/todos/9999", map[string]any{"title": "x"})
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, h, http.MethodDelete, path, nil)
	expectStatus(t, rec, http.StatusNoContent)
	if rec.Body.Len() != 0 {
		t.Fatalf("204 body = %q", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusNotFound)
	if env := decode(t, rec); env.Status != "error" || env.Message != "Todo not found" {
		t.Fatalf("not found envelope = %+v", env)
	}

	rec = doJSON(t, h, http.MethodDelete, "/todos", nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = doJSON(t, h, http.MethodGet, "/todos", nil)
	var remaining []models.Todo
	decodeData(t, rec, &remaining)
	if len(remaining) != 0 {
		t.Fatalf("todos after bulk delete = %d", len(remaining))
	}
}

func TestCarOwnerAndCarEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/car-owners", map[string]any{"name": "Ana", "age": 34, "email": "ana@example.com"})
	expectStatus(t, rec, http.StatusCreated)
	var owner models.CarOwner
	decodeData(t, rec, &owner)

	rec = doJSON(t, h, http.MethodPost, "/car-owners", map[string]any{"name": "Other Ana", "age": 20, "email": "ANA@example.com"})
	expectStatus(t, rec, http.StatusConflict)

	rec = doJSON(t, h, http.MethodPost, "/car-owners", map[string]any{"name": "Bob", "age": 200, "email": "not-an-email"})
	expectStatus(t, rec, http.StatusBadRequest)
	if env := decode(t, rec); len(env.Details) != 2 {
		t.Fatalf("validation details = %v", env.Details)
	}

	rec = doJSON(t, h, http.MethodPost, "/car-owners", map[string]any{"name": "Zero", "age": 0, "email": "zero@example.com"})
	expectStatus(t, rec, http.StatusCreated)
	var other models.CarOwner
	decodeData(t, rec, &other)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/car-owners/%d", other.ID), map[string]any{"email": "ana@example.com"})
	expectStatus(t, rec, http.StatusConflict)

	rec = doJSON(t, h, http.MethodPut, "/car-owners/9999", map[string]any{"age": 50})
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, h, http.MethodPost, "/cars", map[string]any{
		"brand": "Toyota", "model": "Corolla", "year": 2018, "color": "blue", "owner_id": 9999,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if env := decode(t, rec); env.Message != "Invalid owner_id" {
		t.Fatalf("unknown owner message = %q", env.Message)
	}

	rec = doJSON(t, h, http.MethodPost, "/cars", map[string]any{
		"brand": "Toyota", "model": "Corolla", "year": 1700, "color": "blue", "owner_id": owner.ID,
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, h, http.MethodPost, "/cars", map[string]any{
		"brand": "Toyota", "model": "Corolla", "year": 2018, "color": "blue", "owner_id": owner.ID,
	})
	expectStatus(t, rec, http.StatusCreated)
	var car models.Car
	decodeData(t, rec, &car)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/cars?owner_id=%d", owner.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	var owned []models.Car
	decodeData(t, rec, &owned)
	if len(owned) != 1 || owned[0].ID != car.ID {
		t.Fatalf("cars by owner = %+v", owned)
	}

	rec = doJSON(t, h, http.MethodGet, "/cars?owner_id=-3", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	carPath := fmt.Sprintf("/cars/%d", car.ID)
	rec = doJSON(t, h, http.MethodPut, carPath, map[string]any{"owner_id": 9999})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, h, http.MethodPut, carPath, map[string]any{"owner_id": other.ID, "color": "red"})
	expectStatus(t, rec, http.StatusOK)
	var moved models.Car
	decodeData(t, rec, &moved)
	if moved.OwnerID != other.ID || moved.Color != "red" || moved.Brand != "Toyota" {
		t.Fatalf("moved car = %+v", moved)
	}

	rec = doJSON(t, h, http.MethodPut, "/cars/9999", map[string]any{"color": "red"})
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/car-owners/%d", other.ID), nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = doJSON(t, h, http.MethodGet, carPath, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/car-owners/%d", other.ID), nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCSVUploadAndExport(t *testing.T) {
	h := newTestHandler(t)

	rec := upload(t, h, "/todos/upload-csv", "todos.txt", "title\nx\n")
	expectStatus(t, rec, http.StatusBadRequest)
	if env := decode(t, rec); env.Message != "File must be a CSV file" {
		t.Fatalf("non-csv message = %q", env.Message)
	}

	req := httptest.NewRequest(http.MethodPost, "/todos/upload-csv", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = upload(t, h, "/todos/upload-csv", "big.csv", "title\n"+strings.Repeat("a,", 4096))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = upload(t, h, "/todos/upload-csv", "todos.csv", "name\nx\n")
	expectStatus(t, rec, http.StatusBadRequest)

	rec = upload(t, h, "/todos/upload-csv", "TODOS.CSV", "Title,Description,Completed\nwash car,,yes\n,missing title,no\nread,chapter 3,0\n")
	expectStatus(t, rec, http.StatusOK)
	var result models.ImportResult
	decodeData(t, rec, &result)
	if result.ImportedCount != 2 || result.SkippedCount != 1 || result.Skipped[0].Row != 3 {
		t.Fatalf("import result = %+v", result)
	}

	rec = doJSON(t, h, http.MethodGet, "/todos/export-csv", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="todos.csv"`) {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 || lines[0] != "id,title,description,completed,created_at,updated_at" {
		t.Fatalf("export = %q", rec.Body.String())
	}

	rec = upload(t, h, "/car-owners/upload-csv", "owners.csv", "name,age,email\nAna,34,ana@example.com\nDup,30,ANA@example.com\nOld,abc,old@example.com\n")
	expectStatus(t, rec, http.StatusOK)
	decodeData(t, rec, &result)
	if result.ImportedCount != 1 || result.SkippedCount != 2 {
		t.Fatalf("owner import = %+v", result)
	}

	rec = doJSON(t, h, http.MethodGet, "/car-owners", nil)
	var owners []models.CarOwner
	decodeData(t, rec, &owners)
	if len(owners) != 1 {
		t.Fatalf("owners = %+v", owners)
	}

	cars := fmt.Sprintf("brand,model,year,color,owner_id\nFord,Fiesta,2012,red,%d\nFiat,Uno,1999,white,9999\n", owners[0].ID)
	rec = upload(t, h, "/cars/upload-csv", "cars.csv", cars)
	expectStatus(t, rec, http.StatusOK)
	decodeData(t, rec, &result)
	if result.ImportedCount != 1 || result.SkippedCount != 1 || result.Skipped[0].Row != 3 {
		t.Fatalf("car import = %+v", result)
	}

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/cars/export-csv?owner_id=%d", owners[0].ID), nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Ford,Fiesta,2012,red") {
		t.Fatalf("car export = %q", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/cars/export-csv?owner_id=x", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, h, http.MethodGet, "/car-owners/export-csv", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.HasPrefix(rec.Body.String(), "id,name,age,email,created_at\n") {
		t.Fatalf("owner export = %q", rec.Body.String())
	}
}

func TestTodoUpdateClearsDescription(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "a", "description": ""})
	expectStatus(t, rec, http.StatusCreated)
	var blank models.Todo
	decodeData(t, rec, &blank)
	if blank.Description != nil {
		t.Fatalf("blank description on create = %q, want null", *blank.Description)
	}

	rec = doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "a", "description": "d"})
	expectStatus(t, rec, http.StatusCreated)
	var todo models.Todo
	decodeData(t, rec, &todo)
	path := fmt.Sprintf("/todos/%d", todo.ID)

	rec = doJSON(t, h, http.MethodPut, path, map[string]any{"title": "b"})
	expectStatus(t, rec, http.StatusOK)
	var kept models.Todo
	decodeData(t, rec, &kept)
	if kept.Description == nil || *kept.Description != "d" {
		t.Fatalf("description after title-only update = %v, want d", kept.Description)
	}

	rec = doJSON(t, h, http.MethodPut, path, `{"description": null}`)
	expectStatus(t, rec, http.StatusOK)
	var cleared models.Todo
	decodeData(t, rec, &cleared)
	if cleared.Description != nil {
		t.Fatalf("description after null update = %q, want null", *cleared.Description)
	}
	if cleared.Title != "b" {
		t.Fatalf("title after description update = %q", cleared.Title)
	}

	rec = doJSON(t, h, http.MethodPut, path, map[string]any{"description": "again"})
	expectStatus(t, rec, http.StatusOK)

	rec = doJSON(t, h, http.MethodPut, path, map[string]any{"description": "   "})
	expectStatus(t, rec, http.StatusOK)
	var blanked models.Todo
	decodeData(t, rec, &blanked)
	if blanked.Description != nil {
		t.Fatalf("description after blank update = %q, want null", *blanked.Description)
	}
}

func TestTodoCompletedFilterAcceptsWords(t *testing.T) {
	h := newTestHandler(t)

	expectStatus(t, doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "open"}), http.StatusCreated)
	expectStatus(t, doJSON(t, h, http.MethodPost, "/todos", map[string]any{"title": "closed", "completed": true}), http.StatusCreated)

	for query, want := range map[string]string{"yes": "closed", "on": "closed", "no": "open", "off": "open"} {
		rec := doJSON(t, h, http.MethodGet, "/todos?completed="+query, nil)
		expectStatus(t, rec, http.StatusOK)
		var todos []models.Todo
		decodeData(t, rec, &todos)
		if len(todos) != 1 || todos[0].Title != want {
			t.Fatalf("completed=%s = %+v, want only %q", query, todos, want)
		}
	}
}

func TestCarOwnerEmailIsTrimmedBeforeValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/car-owners", map[string]any{"name": "Ana", "age": 34, "email": " Ana@Example.com "})
	expectStatus(t, rec, http.StatusCreated)
	var owner models.CarOwner
	decodeData(t, rec, &owner)
	if owner.Email != "ana@example.com" {
		t.Fatalf("email = %q", owner.Email)
	}

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/car-owners/%d", owner.ID), map[string]any{"email": "  new@example.com\t"})
	expectStatus(t, rec, http.StatusOK)
	decodeData(t, rec, &owner)
	if owner.Email != "new@example.com" {
		t.Fatalf("updated email = %q", owner.Email)
	}
}
