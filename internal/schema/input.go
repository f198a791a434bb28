package schema

import (
	"strconv"
	"strings"
	"time"

	"schemagraph/internal/page"
)

// Input is the flat record an editor submits for one schema entry. Field
// names follow the form fields of the editing sidebar. Empty strings count as
// absent, so defaults apply.
type Input struct {
	Name        string `json:"name,omitempty" form:"name" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" form:"description" yaml:"description,omitempty"`
	URL         string `json:"url,omitempty" form:"url" yaml:"url,omitempty"`

	// Organization, LocalBusiness, Service, Person
	Address      string `json:"address,omitempty" form:"address" yaml:"address,omitempty"`
	Telephone    string `json:"telephone,omitempty" form:"telephone" yaml:"telephone,omitempty"`
	Email        string `json:"email,omitempty" form:"email" yaml:"email,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty" form:"opening_hours" yaml:"opening_hours,omitempty"`
	PriceRange   string `json:"price_range,omitempty" form:"price_range" yaml:"price_range,omitempty"`
	AreaServed   string `json:"area_served,omitempty" form:"area_served" yaml:"area_served,omitempty"`
	ServiceType  string `json:"service_type,omitempty" form:"service_type" yaml:"service_type,omitempty"`
	LogoURL      string `json:"logo_url,omitempty" form:"logo_url" yaml:"logo_url,omitempty"`
	SocialURLs   string `json:"social_urls,omitempty" form:"social_urls" yaml:"social_urls,omitempty"`
	JobTitle     string `json:"job_title,omitempty" form:"job_title" yaml:"job_title,omitempty"`
	WorksFor     string `json:"works_for,omitempty" form:"works_for" yaml:"works_for,omitempty"`

	// Product
	Brand    string `json:"brand,omitempty" form:"brand" yaml:"brand,omitempty"`
	Price    string `json:"price,omitempty" form:"price" yaml:"price,omitempty"`
	Currency string `json:"currency,omitempty" form:"currency" yaml:"currency,omitempty"`
	SKU      string `json:"sku,omitempty" form:"sku" yaml:"sku,omitempty"`
	MPN      string `json:"mpn,omitempty" form:"mpn" yaml:"mpn,omitempty"`

	// Event
	StartDate   string `json:"start_date,omitempty" form:"start_date" yaml:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty" form:"end_date" yaml:"end_date,omitempty"`
	Location    string `json:"location,omitempty" form:"location" yaml:"location,omitempty"`
	EventStatus string `json:"event_status,omitempty" form:"event_status" yaml:"event_status,omitempty"`
	TicketURL   string `json:"ticket_url,omitempty" form:"ticket_url" yaml:"ticket_url,omitempty"`
	Recurrence  string `json:"recurrence,omitempty" form:"recurrence" yaml:"recurrence,omitempty"` // RFC 5545 RRULE

	// FAQPage
	Questions []string `json:"questions,omitempty" form:"questions" yaml:"questions,omitempty"`
	Answers   []string `json:"answers,omitempty" form:"answers" yaml:"answers,omitempty"`

	// Article family
	Headline      string `json:"headline,omitempty" form:"headline" yaml:"headline,omitempty"`
	AuthorName    string `json:"author_name,omitempty" form:"author_name" yaml:"author_name,omitempty"`
	DatePublished string `json:"date_published,omitempty" form:"date_published" yaml:"date_published,omitempty"`
	DateModified  string `json:"date_modified,omitempty" form:"date_modified" yaml:"date_modified,omitempty"`
	ImageURL      string `json:"image_url,omitempty" form:"image_url" yaml:"image_url,omitempty"`

	// Review
	ItemType    string `json:"item_type,omitempty" form:"item_type" yaml:"item_type,omitempty"`
	ItemName    string `json:"item_name,omitempty" form:"item_name" yaml:"item_name,omitempty"`
	RatingValue string `json:"rating_value,omitempty" form:"rating_value" yaml:"rating_value,omitempty"`
	BestRating  string `json:"best_rating,omitempty" form:"best_rating" yaml:"best_rating,omitempty"`
	WorstRating string `json:"worst_rating,omitempty" form:"worst_rating" yaml:"worst_rating,omitempty"`
	ReviewBody  string `json:"review_body,omitempty" form:"review_body" yaml:"review_body,omitempty"`

	// WebSite
	PotentialAction string `json:"potential_action,omitempty" form:"potential_action" yaml:"potential_action,omitempty"`

	// HowTo, Recipe
	TotalTime      string   `json:"total_time,omitempty" form:"total_time" yaml:"total_time,omitempty"`
	Supplies       []string `json:"supplies,omitempty" form:"supplies" yaml:"supplies,omitempty"`
	Tools          []string `json:"tools,omitempty" form:"tools" yaml:"tools,omitempty"`
	Steps          []string `json:"steps,omitempty" form:"steps" yaml:"steps,omitempty"`
	StepNames      []string `json:"step_names,omitempty" form:"step_names" yaml:"step_names,omitempty"`
	PrepTime       string   `json:"prep_time,omitempty" form:"prep_time" yaml:"prep_time,omitempty"`
	CookTime       string   `json:"cook_time,omitempty" form:"cook_time" yaml:"cook_time,omitempty"`
	RecipeYield    string   `json:"recipe_yield,omitempty" form:"recipe_yield" yaml:"recipe_yield,omitempty"`
	RecipeCategory string   `json:"recipe_category,omitempty" form:"recipe_category" yaml:"recipe_category,omitempty"`
	RecipeCuisine  string   `json:"recipe_cuisine,omitempty" form:"recipe_cuisine" yaml:"recipe_cuisine,omitempty"`
	Ingredients    []string `json:"ingredients,omitempty" form:"ingredients" yaml:"ingredients,omitempty"`
	Instructions   []string `json:"instructions,omitempty" form:"instructions" yaml:"instructions,omitempty"`
	Calories       string   `json:"calories,omitempty" form:"calories" yaml:"calories,omitempty"`

	// VideoObject
	ContentURL   string `json:"content_url,omitempty" form:"content_url" yaml:"content_url,omitempty"`
	EmbedURL     string `json:"embed_url,omitempty" form:"embed_url" yaml:"embed_url,omitempty"`
	UploadDate   string `json:"upload_date,omitempty" form:"upload_date" yaml:"upload_date,omitempty"`
	Duration     string `json:"duration,omitempty" form:"duration" yaml:"duration,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" form:"thumbnail_url" yaml:"thumbnail_url,omitempty"`
}

// BuildContext is everything a builder may read besides its Input.
type BuildContext struct {
	Page     page.Context
	SiteName string
	SiteURL  string
	Now      time.Time
}

// now returns bc.Now, or the wall clock when unset.
func (bc BuildContext) now() time.Time {
	if bc.Now.IsZero() {
		return time.Now()
	}
	return bc.Now
}

// or returns v unless it is empty.
func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// truthy reads a checkbox-style value.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

// intOr coerces v to an integer, accepting "4.5" as 4, and returns def for
// empty or unparseable input.
func intOr(v string, def int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return def
}

// isoTime formats t as ISO-8601, or "" for the zero time.
func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
