package ui

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const invalidClass = "is-invalid"

// fieldValue reads the current value of an input, textarea or select.
func fieldValue(field *goquery.Selection) string {
	switch goquery.NodeName(field) {
	case "textarea":
		return field.Text()
	case "select":
		option := field.Find("option[selected]").First()
		if option.Length() == 0 {
			option = field.Find("option").First()
		}
		if value, ok := option.Attr("value"); ok {
			return value
		}
		return option.Text()
	default:
		return field.AttrOr("value", "")
	}
}

func setFieldValue(field *goquery.Selection, value string) {
	if goquery.NodeName(field) == "textarea" {
		field.SetText(value)
		return
	}
	field.SetAttr("value", value)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func markInvalid(field *goquery.Selection, invalid bool) {
	if invalid {
		field.AddClass(invalidClass)
	} else {
		field.RemoveClass(invalidClass)
	}
}
