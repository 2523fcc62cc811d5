//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Full lifecycle: draft → autosave → submit → review → document upload →
//     verify → approve, with the audit trail checked at the end
//   - Rejection requires a reason and records it
//   - Drafts stay invisible in the admin queue
//   - A decided registration cannot be decided again
//   - Two racing decisions produce exactly one winner and one audit row

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/ninjaskull/dacreation-sub001/internal/config"
	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/infra"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"
	"github.com/ninjaskull/dacreation-sub001/internal/router"
	"github.com/ninjaskull/dacreation-sub001/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test suite setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // approver JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("vendors_test"),
		tcPostgres.WithUsername("vendors"),
		tcPostgres.WithPassword("vendors"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		UploadStoragePath:  t.TempDir(),
		MaxDocumentSizeMB:  5,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	files, err := infra.NewLocalFileStore(cfg.UploadStoragePath)
	require.NoError(t, err)

	// Seed an approver through the service so bcrypt hashing stays in one place.
	authSvc := service.NewAuthService(repository.NewAdminRepository(db), cfg)
	_, err = authSvc.CreateAdmin(ctx, dto.CreateAdminRequest{
		Username: "approver@e2e.test",
		Name:     "E2E Approver",
		Email:    "approver@e2e.test",
		Password: "e2e-password",
		Role:     "approver",
	})
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, files)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "approver@e2e.test", "password": "e2e-password"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createCompleteDraft(t *testing.T, env *testEnv) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/registrations",
		jsonBody(t, map[string]any{
			"business_name": "Lotus Events",
			"entity_type":   "private_limited",
			"categories":    []string{"decoration", "florist"},
			"primary_contact": map[string]any{
				"name":  "Meera Nair",
				"email": "meera@lotusevents.in",
				"phone": "+919800011122",
			},
			"agrees_to_terms": true,
		}),
		"",
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &reg)
	return reg.ID
}

func uploadDocument(t *testing.T, env *testEnv, registrationID string) string {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("document_type", "gst_certificate"))

	// CreateFormFile would default the part to application/octet-stream,
	// which the upload whitelist rejects.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="gst.pdf"`)
	header.Set("Content-Type", "application/pdf")
	fw, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest("POST", env.server.URL+"/v1/registrations/"+registrationID+"/documents", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var doc struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &doc)
	return doc.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullApprovalLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	regID := createCompleteDraft(t, env)

	// Autosave a patch while still a draft.
	patchResp := do(t, env.server, "PATCH", "/v1/registrations/"+regID,
		jsonBody(t, map[string]any{"brand_name": "Lotus"}), "")
	require.Equal(t, http.StatusOK, patchResp.StatusCode)
	patchResp.Body.Close()

	// Submit.
	submitResp := do(t, env.server, "POST", "/v1/registrations/"+regID+"/submit", nil, "")
	require.Equal(t, http.StatusOK, submitResp.StatusCode)
	var submitted struct {
		PreviousStatus string `json:"previous_status"`
		Status         string `json:"status"`
	}
	decodeJSON(t, submitResp, &submitted)
	assert.Equal(t, "draft", submitted.PreviousStatus)
	assert.Equal(t, "submitted", submitted.Status)

	// Reviewer picks it up.
	reviewResp := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/review", nil, env.token)
	require.Equal(t, http.StatusOK, reviewResp.StatusCode)
	reviewResp.Body.Close()

	// The applicant uploads evidence; the reviewer verifies it.
	docID := uploadDocument(t, env, regID)
	verifyResp := do(t, env.server, "POST", "/v1/admin/documents/"+docID+"/verify",
		jsonBody(t, map[string]any{"notes": "matches GST portal"}), env.token)
	require.Equal(t, http.StatusOK, verifyResp.StatusCode)
	var verified struct {
		VerificationStatus string `json:"verification_status"`
	}
	decodeJSON(t, verifyResp, &verified)
	assert.Equal(t, "verified", verified.VerificationStatus)

	// Approve.
	approveResp := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/approve", nil, env.token)
	require.Equal(t, http.StatusOK, approveResp.StatusCode)
	approveResp.Body.Close()

	// The audit trail covers everything, in order.
	histResp := do(t, env.server, "GET", "/v1/admin/registrations/"+regID+"/history", nil, env.token)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var history []struct {
		Action         string `json:"action"`
		PreviousStatus string `json:"previous_status"`
		NewStatus      string `json:"new_status"`
	}
	decodeJSON(t, histResp, &history)
	require.Len(t, history, 4)
	assert.Equal(t, "submitted", history[0].Action)
	assert.Equal(t, "status_changed", history[1].Action)
	assert.Equal(t, "document_verified", history[2].Action)
	assert.Equal(t, "approved", history[3].Action)
}

func TestE2E_RejectRequiresReason(t *testing.T) {
	env := setupTestEnv(t)
	regID := createCompleteDraft(t, env)

	resp := do(t, env.server, "POST", "/v1/registrations/"+regID+"/submit", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Missing reason fails validation.
	noReason := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/reject",
		jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, noReason.StatusCode)
	noReason.Body.Close()

	withReason := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/reject",
		jsonBody(t, map[string]any{"reason": "portfolio does not match claimed categories"}), env.token)
	require.Equal(t, http.StatusOK, withReason.StatusCode)
	withReason.Body.Close()

	// The stored registration carries the reason.
	getResp := do(t, env.server, "GET", "/v1/registrations/"+regID, nil, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var reg struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
	}
	decodeJSON(t, getResp, &reg)
	assert.Equal(t, "rejected", reg.Status)
	assert.Equal(t, "portfolio does not match claimed categories", reg.RejectionReason)
}

func TestE2E_DraftsInvisibleInQueue(t *testing.T) {
	env := setupTestEnv(t)
	regID := createCompleteDraft(t, env) // stays a draft

	listResp := do(t, env.server, "GET", "/v1/admin/registrations", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Zero(t, list.Total)

	// The admin detail route hides drafts too, even with the exact id.
	detailResp := do(t, env.server, "GET", "/v1/admin/registrations/"+regID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, detailResp.StatusCode)
	detailResp.Body.Close()
}

func TestE2E_NoDoubleDecision(t *testing.T) {
	env := setupTestEnv(t)
	regID := createCompleteDraft(t, env)

	resp := do(t, env.server, "POST", "/v1/registrations/"+regID+"/submit", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	first := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/approve", nil, env.token)
	require.Equal(t, http.StatusOK, first.StatusCode)
	first.Body.Close()

	second := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/approve", nil, env.token)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	second.Body.Close()

	// And the locked registration rejects further edits.
	patch := do(t, env.server, "PATCH", "/v1/registrations/"+regID,
		jsonBody(t, map[string]any{"brand_name": "Too Late"}), "")
	assert.Equal(t, http.StatusConflict, patch.StatusCode)
	patch.Body.Close()
}

func TestE2E_ConcurrentDecisionsSingleWinner(t *testing.T) {
	env := setupTestEnv(t)
	regID := createCompleteDraft(t, env)

	resp := do(t, env.server, "POST", "/v1/registrations/"+regID+"/submit", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Approve and reject race against the real database. The conditional
	// status update must let exactly one through.
	var wg sync.WaitGroup
	codes := make([]int, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		r := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/approve", nil, env.token)
		codes[0] = r.StatusCode
		r.Body.Close()
	}()
	go func() {
		defer wg.Done()
		r := do(t, env.server, "POST", "/v1/admin/registrations/"+regID+"/reject",
			jsonBody(t, map[string]any{"reason": "duplicate application"}), env.token)
		codes[1] = r.StatusCode
		r.Body.Close()
	}()
	wg.Wait()

	wins := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			wins++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	require.Equal(t, 1, wins, "exactly one decision must commit")

	// The stored row and the audit trail agree with the single winner.
	getResp := do(t, env.server, "GET", "/v1/registrations/"+regID, nil, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var reg struct {
		Status          string  `json:"status"`
		RejectionReason *string `json:"rejection_reason"`
		ApprovedAt      *string `json:"approved_at"`
	}
	decodeJSON(t, getResp, &reg)

	histResp := do(t, env.server, "GET", "/v1/admin/registrations/"+regID+"/history", nil, env.token)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var history []struct {
		Action string `json:"action"`
	}
	decodeJSON(t, histResp, &history)

	decisions := 0
	for _, h := range history {
		if h.Action == "approved" || h.Action == "rejected" {
			decisions++
		}
	}
	assert.Equal(t, 1, decisions, "the losing transaction must leave no audit row")

	switch reg.Status {
	case "approved":
		assert.NotNil(t, reg.ApprovedAt)
		assert.Nil(t, reg.RejectionReason)
	case "rejected":
		require.NotNil(t, reg.RejectionReason)
		assert.Equal(t, "duplicate application", *reg.RejectionReason)
		assert.Nil(t, reg.ApprovedAt)
	default:
		t.Fatalf("registration ended in %s", reg.Status)
	}
}

func TestE2E_AdminRoutesRequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/admin/registrations", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
