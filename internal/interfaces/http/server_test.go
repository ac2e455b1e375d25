package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/auth"
	"github.com/bizhub/backoffice/internal/export"
	"github.com/bizhub/backoffice/internal/repository"
	"github.com/bizhub/backoffice/pkg/database"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "secret123"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run())

	users := repository.NewUserRepository(db, logger)
	sessions := repository.NewSessionRepository(db, logger)
	jobs := repository.NewJobRepository(db, logger)
	expenditures := repository.NewExpenditureRepository(db, logger)

	authService := auth.NewService(users, sessions, time.Hour, logger)
	require.NoError(t, authService.EnsureAdminUser(testAdminUser, testAdminPassword))

	return NewServer(
		DefaultServerConfig(),
		authService,
		users,
		jobs,
		expenditures,
		export.NewExcelWriter(logger),
		export.NewPDFWriter(logger),
		logger,
	)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/login",
		map[string]string{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWithBadPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/login",
		map[string]string{"username": testAdminUser, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardShape(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Trend.Labels, 6)
	assert.Len(t, resp.Trend.Revenues, 6)
	assert.Zero(t, resp.Summary.JobsToday)
}

func TestJobLifecycle(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	create := map[string]interface{}{
		"customer_name":  "Acme Motors",
		"status":         "Completed",
		"payment_method": "Cash",
		"items": []map[string]interface{}{
			{"description": "Oil change", "quantity": 1, "price": 100},
			{"description": "Filter", "quantity": 1, "price": 25},
		},
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/jobs", create, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 125.0, created.TotalAmount)
	require.NotZero(t, created.ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs?filter=today", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Acme Motors", listed[0].CustomerName)
	assert.Equal(t, testAdminUser, listed[0].CreatorName)

	// Replacing the items rewrites the whole set.
	update := map[string]interface{}{
		"customer_name":  "Acme Motors",
		"status":         "Incomplete",
		"payment_method": "Transfer",
		"items": []map[string]interface{}{
			{"description": "Full service", "quantity": 2, "price": 40},
		},
	}
	rec = doJSON(t, srv, http.MethodPut, "/api/jobs/1", update, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 80.0, updated.TotalAmount)
	assert.Len(t, updated.Items, 1)

	rec = doJSON(t, srv, http.MethodDelete, "/api/jobs/1", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/1", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateJobValidation(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	rec := doJSON(t, srv, http.MethodPost, "/api/jobs", map[string]interface{}{
		"customer_name":  "Acme",
		"status":         "Completed",
		"payment_method": "Barter",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDefaultsToToday(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	lastYear := time.Now().AddDate(-1, 0, 0).Format(time.RFC3339)

	rec := doJSON(t, srv, http.MethodPost, "/api/jobs", map[string]interface{}{
		"customer_name":  "Old Customer",
		"status":         "Completed",
		"payment_method": "Cash",
		"date_time":      lastYear,
		"items": []map[string]interface{}{
			{"description": "Archived work", "quantity": 1, "price": 10},
		},
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/expenditures", map[string]interface{}{
		"description": "Old purchase",
		"quantity":    1,
		"amount_used": 5,
		"date_time":   lastYear,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// With no filter parameter the list views show only today's records.
	rec = doJSON(t, srv, http.MethodGet, "/api/jobs", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Empty(t, jobs)

	rec = doJSON(t, srv, http.MethodGet, "/api/expenditures", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var expenditures []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expenditures))
	assert.Empty(t, expenditures)

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs?filter=all", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 1)

	rec = doJSON(t, srv, http.MethodGet, "/api/expenditures?filter=all", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expenditures))
	assert.Len(t, expenditures, 1)
}

func TestExpenditureTotalsComputedServerSide(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenditures", map[string]interface{}{
		"description": "Diesel",
		"quantity":    20,
		"amount_used": 1.5,
		"total":       9999,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID    int64   `json:"id"`
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 30.0, created.Total)
	require.NotZero(t, created.ID)

	// Edits recompute the total too; a client-supplied one is ignored.
	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/expenditures/%d", created.ID), map[string]interface{}{
		"description": "Diesel",
		"quantity":    2,
		"amount_used": 10,
		"total":       9999,
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 20.0, updated.Total)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/expenditures/%d", created.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 20.0, updated.Total)
}

func TestExportJobsAttachment(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	rec := doJSON(t, srv, http.MethodGet, "/api/export/jobs?filter=week&format=excel", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ExcelContentType, rec.Header().Get("Content-Type"))

	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "jobs_week_")
	assert.Contains(t, disposition, ".xlsx")

	rec = doJSON(t, srv, http.MethodGet, "/api/export/expenditures?format=pdf", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.PDFContentType, rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doJSON(t, srv, http.MethodGet, "/api/export/jobs?format=csv", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminGuards(t *testing.T) {
	srv := newTestServer(t)
	adminCookie := login(t, srv, testAdminUser, testAdminPassword)

	rec := doJSON(t, srv, http.MethodPost, "/api/users", map[string]string{
		"username": "clerk",
		"password": "clerkpass",
		"role":     "normal",
	}, adminCookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	clerkCookie := login(t, srv, "clerk", "clerkpass")

	rec = doJSON(t, srv, http.MethodGet, "/api/users", nil, clerkCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/jobs/1", nil, clerkCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The admin cannot demote or delete themselves.
	rec = doJSON(t, srv, http.MethodPut, "/api/users/1/role", map[string]string{"role": "normal"}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/users/1", nil, adminCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/users", map[string]string{
		"username": "clerk",
		"password": "clerkpass",
		"role":     "normal",
	}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate usernames are rejected")

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "exists"), body)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, testAdminUser, testAdminPassword)

	rec := doJSON(t, srv, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
