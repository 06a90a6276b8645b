package ui

import (
	"context"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const submitButton = `button[type="submit"]`

func fillTransactionForm(t *testing.T, page *testPage) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, page.Type(ctx, `input[name="title"]`, "Groceries"))
	require.NoError(t, page.Type(ctx, `input[name="amount"]`, "42.10"))
	require.NoError(t, page.Type(ctx, `input[name="category"]`, "Food"))
	page.Locked(func(doc *goquery.Document) {
		doc.Find(`option[value="expense"]`).SetAttr("selected", "")
	})
}

func TestFormGuard_BlocksEmptyRequiredFields(t *testing.T) {
	page := newTestPage(t, transactionForm)
	original, _ := page.Find(submitButton).Html()
	ctx := context.Background()
	require.NoError(t, page.Type(ctx, `input[name="title"]`, "   "))
	require.NoError(t, page.Type(ctx, `input[name="amount"]`, "10"))

	cancelled, err := page.Submit(ctx, "#add-transaction")

	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.True(t, page.hasClass(`input[name="title"]`, "is-invalid"))
	assert.False(t, page.hasClass(`input[name="amount"]`, "is-invalid"))
	assert.True(t, page.hasClass(`select[name="transaction_type"]`, "is-invalid"))
	assert.True(t, page.hasClass(`input[name="category"]`, "is-invalid"))
	assert.False(t, page.hasClass(`textarea[name="description"]`, "is-invalid"))

	assert.Equal(t, 1, page.Find(".toast-notification").Length())
	assert.Equal(t, RequiredFieldsMessage, page.Find(".toast-message").Text())
	assert.True(t, page.hasClass(".toast-notification", "toast-error"))
	assert.Equal(t, "alert-circle", page.attr(".toast-icon", "data-feather"))

	label, _ := page.Find(submitButton).Html()
	assert.Equal(t, original, label)
	_, disabled := page.Find(submitButton).Attr("disabled")
	assert.False(t, disabled)
}

func TestFormGuard_ValidSubmitDisablesUntilFallback(t *testing.T) {
	page := newTestPage(t, transactionForm)
	original, _ := page.Find(submitButton).Html()
	fillTransactionForm(t, page)

	cancelled, err := page.Submit(context.Background(), "#add-transaction")

	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.Equal(t, 0, page.Find(".toast-notification").Length())
	_, disabled := page.Find(submitButton).Attr("disabled")
	assert.True(t, disabled)
	assert.Contains(t, page.Find(submitButton).Text(), "Processing...")

	page.clock.Advance(2999 * time.Millisecond)
	_, disabled = page.Find(submitButton).Attr("disabled")
	assert.True(t, disabled)

	page.clock.Advance(time.Millisecond)
	_, disabled = page.Find(submitButton).Attr("disabled")
	assert.False(t, disabled)
	label, _ := page.Find(submitButton).Html()
	assert.Equal(t, original, label)
}

func TestFormGuard_RepeatedSubmitKeepsOriginalLabel(t *testing.T) {
	page := newTestPage(t, transactionForm)
	original, _ := page.Find(submitButton).Html()
	fillTransactionForm(t, page)
	ctx := context.Background()

	_, err := page.Submit(ctx, "#add-transaction")
	require.NoError(t, err)
	page.clock.Advance(time.Second)
	_, err = page.Submit(ctx, "#add-transaction")
	require.NoError(t, err)

	page.clock.Advance(2 * time.Second)
	_, disabled := page.Find(submitButton).Attr("disabled")
	assert.True(t, disabled)

	page.clock.Advance(time.Second)
	label, _ := page.Find(submitButton).Html()
	assert.Equal(t, original, label)
}

func TestFormGuard_InputSubmitControl(t *testing.T) {
	page := newTestPage(t, `<form><input name="q" required value="x"><input type="submit" value="Search"></form>`)

	_, err := page.Submit(context.Background(), "form")
	require.NoError(t, err)
	assert.Equal(t, "Processing...", page.attr(`input[type="submit"]`, "value"))

	page.clock.Advance(3 * time.Second)
	assert.Equal(t, "Search", page.attr(`input[type="submit"]`, "value"))
}
