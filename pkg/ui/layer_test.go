package ui

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/internal/test_utils"
	"github.com/klokku/fintrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionForm = `<!DOCTYPE html>
<html><body>
<form id="add-transaction" action="/add_transaction" method="post">
  <input type="text" name="title" required>
  <input type="text" name="amount" required>
  <select name="transaction_type" required>
    <option value="">Select type</option>
    <option value="income">Income</option>
    <option value="expense">Expense</option>
  </select>
  <input type="text" name="category" required>
  <textarea name="description"></textarea>
  <input type="date" id="transaction_date" name="transaction_date">
  <input type="date" id="filter_from" max="2023-12-31">
  <button type="submit" class="btn btn-primary"><i data-feather="save"></i> Save Transaction</button>
</form>
<div class="table-responsive" id="wide" data-scroll-left="0" data-scroll-width="1200" data-client-width="400"><table></table></div>
<div class="table-responsive" id="narrow" data-scroll-left="0" data-scroll-width="300" data-client-width="400"><table></table></div>
</body></html>`

var testNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

type testPage struct {
	*Page
	clock    *utils.MockClock
	layer    *Layer
	teardown func()
}

func newTestPage(t *testing.T, html string) *testPage {
	t.Helper()
	clock := &utils.MockClock{FixedNow: testNow}
	page := NewPage(test_utils.Document(t, html), event_bus.NewEventBus(), clock)
	layer := NewLayer(Options{})
	teardown := layer.Init(page)
	t.Cleanup(teardown)
	return &testPage{Page: page, clock: clock, layer: layer, teardown: teardown}
}

func (p *testPage) attr(selector, name string) string {
	return p.Find(selector).AttrOr(name, "")
}

func (p *testPage) hasClass(selector, class string) bool {
	return p.Find(selector).HasClass(class)
}

func TestLayer_InitAppliesDateDefaults(t *testing.T) {
	page := newTestPage(t, transactionForm)

	assert.Equal(t, "2024-03-15", page.attr("#transaction_date", "value"))
	assert.Equal(t, "2024-03-15", page.attr("#transaction_date", "max"))
	assert.Equal(t, "2023-12-31", page.attr("#filter_from", "max"))
	assert.Empty(t, page.attr("#filter_from", "value"))
}

func TestLayer_InitKeepsExistingTransactionDate(t *testing.T) {
	page := newTestPage(t, `<input type="date" id="transaction_date" value="2024-01-02">`)

	assert.Equal(t, "2024-01-02", page.attr("#transaction_date", "value"))
}

func TestLayer_TeardownUnsubscribesAndStopsTimers(t *testing.T) {
	page := newTestPage(t, transactionForm)
	bus := page.Bus()
	require.Equal(t, 1, bus.Subscribers(event_bus.Submit))
	require.Equal(t, 1, bus.Subscribers(event_bus.Blur))
	page.layer.Notifier(page.Page).Show("Saved", Success)
	require.Equal(t, 1, page.PendingTimers())

	page.teardown()
	page.teardown()

	for _, eventType := range []event_bus.EventType{event_bus.Submit, event_bus.Input, event_bus.Blur, event_bus.Click, event_bus.Scroll} {
		assert.Equal(t, 0, bus.Subscribers(eventType), eventType)
	}
	assert.Equal(t, 0, page.PendingTimers())
	assert.Equal(t, 0, page.clock.Pending())

	cancelled, err := page.Submit(context.Background(), "form")
	assert.NoError(t, err)
	assert.False(t, cancelled)
}

func TestLayer_Flash(t *testing.T) {
	page := newTestPage(t, transactionForm)

	page.layer.Flash(page.Page, "", "success")
	assert.Equal(t, 0, page.Find(".toast-notification").Length())

	page.layer.Flash(page.Page, "Transaction added successfully!", "success")
	assert.Equal(t, "Transaction added successfully!", page.Find(".toast-notification .toast-message").Text())
	assert.True(t, page.hasClass(".toast-notification", "toast-success"))
}

func TestPage_CloseDropsEvents(t *testing.T) {
	page := newTestPage(t, transactionForm)
	page.Close()

	require.NoError(t, page.Type(context.Background(), `input[name="amount"]`, "abc"))

	assert.False(t, page.hasClass(`input[name="amount"]`, "is-invalid"))
}

func TestPage_HelpersRejectMissingElements(t *testing.T) {
	page := newTestPage(t, transactionForm)
	ctx := context.Background()

	_, err := page.Submit(ctx, "#missing")
	assert.Error(t, err)
	assert.Error(t, page.Type(ctx, "#missing", "1"))
	assert.Error(t, page.Blur(ctx, "#missing"))
	assert.Error(t, page.Click(ctx, "#missing"))
	assert.Error(t, page.Scroll(ctx, "#missing", 1))
}
