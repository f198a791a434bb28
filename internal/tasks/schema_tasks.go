package tasks

import (
	"context"
	"fmt"

	"schemagraph/internal/schemaerr"
)

// ValidatePageSchemasTask reports documents that would be dropped from page output.
const ValidatePageSchemasTask = "validate_page_schemas"

func validatePageSchemas(deps Deps) TaskHandler {
	return func(ctx context.Context, _ map[string]any) (map[string]any, error) {
		ids, err := deps.Pages.PageIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}

		checked, invalid := 0, 0
		var broken []uint
		for _, id := range ids {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			pc, err := deps.Pages.Context(ctx, id)
			if err != nil {
				if schemaerr.Is(err, schemaerr.ErrCodeNotFound) {
					continue
				}
				return nil, fmt.Errorf("load page %d: %w", id, err)
			}
			items, err := deps.Graph.Preview(ctx, pc)
			if err != nil {
				return nil, fmt.Errorf("assemble page %d: %w", id, err)
			}
			pageBroken := false
			for _, item := range items {
				checked++
				if item.Valid {
					continue
				}
				invalid++
				pageBroken = true
				deps.Logger.Warn("invalid schema", "page", id, "type", item.Document.Type(), "source", item.Source, "issues", item.Issues)
			}
			if pageBroken {
				broken = append(broken, id)
			}
		}

		return map[string]any{
			"pages":   len(ids),
			"checked": checked,
			"invalid": invalid,
			"broken":  broken,
		}, nil
	}
}
