package transaction

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"

	"github.com/klokku/fintrack/internal/rest"
	"github.com/klokku/fintrack/internal/utils"
	"github.com/klokku/fintrack/pkg/currency"
	log "github.com/sirupsen/logrus"
)

const (
	ValidMessage   = "Transaction looks good."
	successPage    = "/dashboard"
	formPage       = "/transactions/new"
	invalidMessage = "Invalid transaction"
)

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type Handler struct {
	clock     utils.Clock
	formatter *currency.Formatter
}

func NewHandler(clock utils.Clock, formatter *currency.Formatter) *Handler {
	return &Handler{clock: clock, formatter: formatter}
}

// Validate godoc
// @Summary Validate a transaction
// @Description Check a transaction before it is saved and return it normalised
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 200 {object} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /api/transactions/validate [post]
func (handler *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Validating transaction")
	if isFormPost(r) {
		handler.validateForm(w, r)
		return
	}

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tx, err := Validate(dto, handler.clock.Now(), handler.formatter)
	if validation, ok := AsValidationError(err); ok {
		log.Debugf("transaction rejected: %v", err)
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Error: invalidMessage, Fields: validation.Fields})
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(tx))
}

// validateForm handles a plain browser submit: the result is carried to the next page
// as a notice.
func (handler *Handler) validateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	dto := TransactionDTO{
		Title:           r.PostForm.Get("title"),
		Amount:          r.PostForm.Get("amount"),
		TransactionType: r.PostForm.Get("transaction_type"),
		Category:        r.PostForm.Get("category"),
		Description:     r.PostForm.Get("description"),
		TransactionDate: r.PostForm.Get("transaction_date"),
	}

	_, err := Validate(dto, handler.clock.Now(), handler.formatter)
	if validation, ok := AsValidationError(err); ok {
		redirectWithNotice(w, r, formPage, validation.First(), "error")
		return
	}
	redirectWithNotice(w, r, successPage, ValidMessage, "success")
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice, severity string) {
	query := url.Values{}
	query.Set("notice", notice)
	query.Set("severity", severity)
	http.Redirect(w, r, path+"?"+query.Encode(), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
