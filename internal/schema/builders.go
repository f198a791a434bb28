package schema

import (
	"strconv"
	"strings"
)

const inStock = "https://schema.org/InStock"

func buildGeneric(doc Document, _ Input, bc BuildContext) {
	doc["@type"] = canonicalType(doc.Type())
	if _, ok := doc["url"]; !ok {
		doc.set("url", URL(bc.Page.Permalink))
	}
}

func buildOrganization(doc Document, in Input, _ BuildContext) {
	doc.set("email", Email(in.Email))
	doc.set("telephone", Text(in.Telephone))
	doc.set("address", Textarea(in.Address))
	doc.set("logo", URL(in.LogoURL))
	if in.SocialURLs != "" {
		var same []any
		for _, line := range strings.Split(in.SocialURLs, "\n") {
			if u := URL(line); u != "" {
				same = append(same, u)
			}
		}
		if len(same) > 0 {
			doc["sameAs"] = same
		}
	}
}

func buildLocalBusiness(doc Document, in Input, bc BuildContext) {
	doc.set("address", Textarea(in.Address))
	doc.set("telephone", Text(in.Telephone))
	doc.set("email", Email(in.Email))
	if _, ok := doc["url"]; !ok {
		doc.set("url", URL(bc.Page.Permalink))
	}
	doc.set("openingHours", Text(in.OpeningHours))
	doc.set("priceRange", Text(in.PriceRange))
}

func buildService(doc Document, in Input, bc BuildContext) {
	doc["provider"] = map[string]any{
		"@type": "Organization",
		"name":  Text(bc.SiteName),
	}
	doc.set("areaServed", Text(in.AreaServed))
	doc.set("serviceType", Text(in.ServiceType))
	doc.set("address", Textarea(in.Address))
	doc.set("telephone", Text(in.Telephone))
	doc.set("email", Email(in.Email))
	if _, ok := doc["url"]; !ok {
		doc.set("url", URL(bc.Page.Permalink))
	}
}

func buildProduct(doc Document, in Input, _ BuildContext) {
	doc.set("brand", Text(in.Brand))
	price, currency := Text(in.Price), Text(in.Currency)
	if price != "" || currency != "" {
		doc["offers"] = map[string]any{
			"@type":         "Offer",
			"price":         price,
			"priceCurrency": or(currency, "USD"),
			"availability":  inStock,
		}
	}
	doc.set("sku", Text(in.SKU))
	doc.set("mpn", Text(in.MPN))
}

func buildPerson(doc Document, in Input, _ BuildContext) {
	doc.set("jobTitle", Text(in.JobTitle))
	doc.set("email", Email(in.Email))
	doc.set("telephone", Text(in.Telephone))
	if w := Text(in.WorksFor); w != "" {
		doc["worksFor"] = map[string]any{"@type": "Organization", "name": w}
	}
}

func buildFAQPage(doc Document, in Input, _ BuildContext) {
	entities := []any{}
	for i, q := range in.Questions {
		if i >= len(in.Answers) {
			break
		}
		question, answer := Text(q), Textarea(in.Answers[i])
		if question == "" || answer == "" {
			continue
		}
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  answer,
			},
		})
	}
	doc["mainEntity"] = entities
}

func buildHowTo(doc Document, in Input, _ BuildContext) {
	doc.set("totalTime", Text(in.TotalTime))
	doc["supply"] = namedList("HowToSupply", in.Supplies)
	doc["tool"] = namedList("HowToTool", in.Tools)

	steps := []any{}
	for i, s := range in.Steps {
		text := Textarea(s)
		if text == "" {
			continue
		}
		name := ""
		if i < len(in.StepNames) {
			name = Text(in.StepNames[i])
		}
		if name == "" {
			name = "Step " + strconv.Itoa(i+1)
		}
		steps = append(steps, map[string]any{"@type": "HowToStep", "name": name, "text": text})
	}
	doc["step"] = steps
}

func buildRecipe(doc Document, in Input, _ BuildContext) {
	doc.set("prepTime", Text(in.PrepTime))
	doc.set("cookTime", Text(in.CookTime))
	doc.set("totalTime", Text(in.TotalTime))
	doc.set("recipeYield", Text(in.RecipeYield))
	doc.set("recipeCategory", Text(in.RecipeCategory))
	doc.set("recipeCuisine", Text(in.RecipeCuisine))

	ingredients := []any{}
	for _, ing := range in.Ingredients {
		if v := Text(ing); v != "" {
			ingredients = append(ingredients, v)
		}
	}
	doc["recipeIngredient"] = ingredients

	instructions := []any{}
	for _, step := range in.Instructions {
		if v := Textarea(step); v != "" {
			instructions = append(instructions, map[string]any{"@type": "HowToStep", "text": v})
		}
	}
	doc["recipeInstructions"] = instructions

	if c := Text(in.Calories); c != "" {
		doc["nutrition"] = map[string]any{"@type": "NutritionInformation", "calories": c}
	}
}

func buildVideoObject(doc Document, in Input, bc BuildContext) {
	doc.set("contentUrl", URL(in.ContentURL))
	doc.set("embedUrl", URL(in.EmbedURL))
	doc.set("uploadDate", or(Text(in.UploadDate), isoTime(bc.now())))
	doc.set("duration", Text(in.Duration))
	doc.set("thumbnailUrl", URL(in.ThumbnailURL))
}

func buildArticle(doc Document, in Input, bc BuildContext) {
	doc.set("headline", Text(or(in.Headline, bc.Page.Title)))
	doc["author"] = map[string]any{
		"@type": "Person",
		"name":  Text(or(in.AuthorName, bc.Page.AuthorName)),
	}
	doc.set("datePublished", Text(or(in.DatePublished, isoTime(bc.Page.Published))))
	doc.set("dateModified", Text(or(in.DateModified, isoTime(bc.Page.Modified))))
	doc.set("image", URL(in.ImageURL))
}

func buildReview(doc Document, in Input, bc BuildContext) {
	doc["itemReviewed"] = map[string]any{
		"@type": canonicalType(Text(or(in.ItemType, "Thing"))),
		"name":  Text(in.ItemName),
	}
	doc["reviewRating"] = map[string]any{
		"@type":       "Rating",
		"ratingValue": intOr(in.RatingValue, 5),
		"bestRating":  intOr(in.BestRating, 5),
		"worstRating": intOr(in.WorstRating, 1),
	}
	doc["author"] = map[string]any{
		"@type": "Person",
		"name":  Text(or(in.AuthorName, bc.Page.AuthorName)),
	}
	doc.set("reviewBody", Textarea(in.ReviewBody))
}

func buildWebSite(doc Document, in Input, bc BuildContext) {
	site := strings.TrimRight(bc.SiteURL, "/")
	doc["name"] = Text(or(in.Name, bc.SiteName))
	doc["url"] = URL(site + "/")
	if truthy(in.PotentialAction) {
		doc["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      site + "/?s={search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
}

func namedList(typ string, names []string) []any {
	out := []any{}
	for _, n := range names {
		if v := Text(n); v != "" {
			out = append(out, map[string]any{"@type": typ, "name": v})
		}
	}
	return out
}
