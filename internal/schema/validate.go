package schema

import (
	"schemagraph/internal/schemaerr"
)

type rule func(doc Document) *schemaerr.Issue

func required(field string) rule {
	return func(doc Document) *schemaerr.Issue {
		if isEmpty(doc[field]) {
			return &schemaerr.Issue{Field: field, Message: "is required"}
		}
		return nil
	}
}

func requiredNested(field, sub string) rule {
	return func(doc Document) *schemaerr.Issue {
		m, _ := doc[field].(map[string]any)
		if m == nil || isEmpty(m[sub]) {
			return &schemaerr.Issue{Field: field + "." + sub, Message: "is required"}
		}
		return nil
	}
}

// mandatory lists the per-type presence rules on top of @context/@type.
var mandatory = map[string][]rule{
	"Organization":   {required("name")},
	"LocalBusiness":  {required("name")},
	"Service":        {required("name")},
	"Product":        {required("name")},
	"Person":         {required("name")},
	"Event":          {required("name"), required("startDate")},
	"FAQPage":        {required("mainEntity")},
	"HowTo":          {required("name")},
	"Recipe":         {required("name")},
	"VideoObject":    {required("name")},
	"Review":         {requiredNested("itemReviewed", "name")},
	"Article":        {required("headline")},
	"BlogPosting":    {required("headline")},
	"NewsArticle":    {required("headline")},
	"BreadcrumbList": {required("itemListElement")},
	"WebPageElement": {required("hasPart")},
}

// Validate reports every presence problem in doc as a *schemaerr.ValidationError.
func Validate(doc Document) error {
	var issues []schemaerr.Issue
	if c, _ := doc["@context"].(string); c != Context {
		msg := "is missing"
		if c != "" {
			msg = "must be " + Context
		}
		issues = append(issues, schemaerr.Issue{Field: "@context", Message: msg})
	}
	if !validType(doc["@type"]) {
		issues = append(issues, schemaerr.Issue{Field: "@type", Message: "is missing"})
	}
	for _, r := range mandatory[doc.Type()] {
		if is := r(doc); is != nil {
			issues = append(issues, *is)
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &schemaerr.ValidationError{Type: doc.Type(), Issues: issues}
}

func validType(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		if len(t) == 0 {
			return false
		}
		for _, s := range t {
			if s == "" {
				return false
			}
		}
		return true
	case []any:
		if len(t) == 0 {
			return false
		}
		for _, e := range t {
			if s, ok := e.(string); !ok || s == "" {
				return false
			}
		}
		return true
	}
	return false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
