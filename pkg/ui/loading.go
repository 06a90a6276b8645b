package ui

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const (
	loadingClass       = "is-loading"
	OperationFailedMsg = "Something went wrong. Please try again."
)

// RunWithLoading marks indicator as loading while op runs. A failure is logged, shown
// as an error toast and returned unchanged.
func (n *Notifier) RunWithLoading(ctx context.Context, indicator *goquery.Selection, op func(ctx context.Context) error) error {
	n.page.Locked(func(*goquery.Document) {
		indicator.AddClass(loadingClass)
	})

	err := op(ctx)

	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	indicator.RemoveClass(loadingClass)
	if err != nil {
		log.Errorf("operation failed: %v", err)
		n.show(OperationFailedMsg, Error)
	}
	return err
}
