package test_utils

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// Document parses an HTML fixture, failing the test when it cannot be parsed.
func Document(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse HTML fixture: %v", err)
	}
	return doc
}
