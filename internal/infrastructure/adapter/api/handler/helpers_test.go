package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleTransaction(ref string, status entity.TransactionStatus) *entity.Transaction {
	return &entity.Transaction{
		Reference: ref,
		UserID:    1001,
		Type:      entity.TypeOfframp,
		Asset:     entity.MustParseAsset("solana:usdc"),
		Amount:    decimal.RequireFromString("100.5"),
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func perform(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
