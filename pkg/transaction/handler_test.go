package transaction

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/fintrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler() *mux.Router {
	handler := NewHandler(&utils.MockClock{FixedNow: today}, usd)
	r := mux.NewRouter()
	r.HandleFunc("/api/transactions/validate", handler.Validate).Methods("POST")
	return r
}

func postJSON(router *mux.Router, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ValidateJSON(t *testing.T) {
	rec := postJSON(setupHandler(), `{"title":"Salary","amount":"2500","transaction_type":"income","category":"Work"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto TransactionDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "2500.00", dto.Amount)
	assert.Equal(t, "2024-06-03", dto.TransactionDate)
}

func TestHandler_ValidateJSONRejects(t *testing.T) {
	rec := postJSON(setupHandler(), `{"title":"Salary","amount":"0","transaction_type":"income"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Invalid transaction", body.Error)
	assert.Equal(t, map[string]string{"amount": InvalidAmount, "category": RequiredMessage}, body.Fields)
}

func TestHandler_ValidateMalformedBody(t *testing.T) {
	rec := postJSON(setupHandler(), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ValidateFormRedirects(t *testing.T) {
	router := setupHandler()
	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/transactions/validate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(url.Values{"title": {"Rent"}, "amount": {"900"}, "transaction_type": {"expense"}, "category": {"Housing"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", location.Path)
	assert.Equal(t, ValidMessage, location.Query().Get("notice"))
	assert.Equal(t, "success", location.Query().Get("severity"))

	rec = post(url.Values{"title": {"Rent"}, "amount": {"abc"}, "transaction_type": {"expense"}, "category": {"Housing"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err = url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/transactions/new", location.Path)
	assert.Equal(t, InvalidAmount, location.Query().Get("notice"))
	assert.Equal(t, "error", location.Query().Get("severity"))
}
