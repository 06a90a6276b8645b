package ui

import (
	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/pkg/currency"
)

// CurrencyInputSelector matches the free-text amount fields of the application forms.
const CurrencyInputSelector = `input[name="amount"], input.currency-input, input[data-type="currency"]`

type currencyInput struct {
	formatter *currency.Formatter
}

func (c currencyInput) register(bus *event_bus.EventBus) []func() {
	onBlur := event_bus.SubscribeTyped[*FieldEvent](bus, event_bus.Blur, func(e event_bus.EventT[*FieldEvent]) error {
		c.onBlur(e.Data)
		return nil
	})
	onInput := event_bus.SubscribeTyped[*FieldEvent](bus, event_bus.Input, func(e event_bus.EventT[*FieldEvent]) error {
		c.onInput(e.Data)
		return nil
	})
	return []func(){onBlur, onInput}
}

// onBlur rewrites a valid amount with two decimals ("12" becomes "12.00", "1,500"
// becomes "1500.00" for en-US).
func (c currencyInput) onBlur(e *FieldEvent) {
	if !e.Target.Is(CurrencyInputSelector) {
		return
	}
	amount, err := c.formatter.ParseAmount(fieldValue(e.Target))
	if err != nil {
		return
	}
	setFieldValue(e.Target, c.formatter.InputValue(amount))
	markInvalid(e.Target, false)
}

// onInput flags values that are not a positive number.
func (c currencyInput) onInput(e *FieldEvent) {
	if !e.Target.Is(CurrencyInputSelector) {
		return
	}
	_, err := c.formatter.ParseAmount(fieldValue(e.Target))
	markInvalid(e.Target, err != nil)
}
