package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// InventoryLevel is the available quantity of an item at one location.
type InventoryLevel struct {
	LocationID   string
	LocationName string
	Available    int
}

// InventoryPage is one page of inventory levels.
type InventoryPage struct {
	Levels      []InventoryLevel
	HasNextPage bool
	EndCursor   string
}

// VariantRef identifies the variant stocked by an inventory item.
type VariantRef struct {
	VariantID    string
	ProductID    string
	Title        string
	ProductTitle string
	Price        decimal.Decimal
}

// ErrThrottled is returned when the GraphQL cost budget is exhausted.
var ErrThrottled = errors.New("catalog: throttled")

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphqlResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphqlError `json:"errors"`
}

func graphql[T any](ctx context.Context, c *Client, tenant, op, query string, vars map[string]any) (T, error) {
	var zero T

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return zero, fmt.Errorf("catalog: encode %s: %w", op, err)
	}

	raw, err := c.do(ctx, tenant, op, http.MethodPost, "graphql.json", nil, body)
	if err != nil {
		return zero, err
	}

	var resp graphqlResponse[T]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return zero, fmt.Errorf("catalog: decode %s: %w", op, err)
	}
	if len(resp.Errors) > 0 {
		first := resp.Errors[0]
		if first.Extensions.Code == "THROTTLED" {
			return zero, fmt.Errorf("%s: %w", op, ErrThrottled)
		}
		return zero, fmt.Errorf("catalog: %s: %s", op, first.Message)
	}
	return resp.Data, nil
}

// gid converts a numeric REST id into a GraphQL global id.
func gid(kind, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/" + kind + "/" + id
}

// legacyID returns the trailing numeric part of a global id.
func legacyID(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// ---------------------------------------------------------------------------
// Inventory levels
// ---------------------------------------------------------------------------

const inventoryLevelsQuery = `query InventoryLevels($id: ID!, $first: Int!, $after: String) {
  inventoryItem(id: $id) {
    inventoryLevels(first: $first, after: $after) {
      edges {
        node {
          location { id name }
          quantities(names: ["available"]) { name quantity }
        }
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

type inventoryLevelsData struct {
	InventoryItem *struct {
		InventoryLevels struct {
			Edges []struct {
				Node struct {
					Location struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"location"`
					Quantities []struct {
						Name     string `json:"name"`
						Quantity int    `json:"quantity"`
					} `json:"quantities"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool    `json:"hasNextPage"`
				EndCursor   *string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"inventoryLevels"`
	} `json:"inventoryItem"`
}

// FetchInventoryLevels returns one page of per-location quantities of an
// inventory item. An empty cursor requests the first page. An unknown item
// yields an empty page.
func (c *Client) FetchInventoryLevels(ctx context.Context, tenant, inventoryItemID, cursor string, first int) (*InventoryPage, error) {
	vars := map[string]any{
		"id":    gid("InventoryItem", inventoryItemID),
		"first": first,
	}
	if cursor != "" {
		vars["after"] = cursor
	}

	data, err := graphql[inventoryLevelsData](ctx, c, tenant, "inventory_levels", inventoryLevelsQuery, vars)
	if err != nil {
		return nil, err
	}

	page := &InventoryPage{Levels: []InventoryLevel{}}
	if data.InventoryItem == nil {
		return page, nil
	}

	levels := data.InventoryItem.InventoryLevels
	for _, e := range levels.Edges {
		level := InventoryLevel{
			LocationID:   legacyID(e.Node.Location.ID),
			LocationName: e.Node.Location.Name,
		}
		for _, q := range e.Node.Quantities {
			if q.Name == "available" {
				level.Available = q.Quantity
			}
		}
		page.Levels = append(page.Levels, level)
	}
	page.HasNextPage = levels.PageInfo.HasNextPage
	if levels.PageInfo.EndCursor != nil {
		page.EndCursor = *levels.PageInfo.EndCursor
	}

	return page, nil
}

// ---------------------------------------------------------------------------
// Variant lookup
// ---------------------------------------------------------------------------

const variantByInventoryItemQuery = `query VariantByInventoryItem($id: ID!) {
  inventoryItem(id: $id) {
    variant {
      legacyResourceId
      title
      price
      product { legacyResourceId title }
    }
  }
}`

type variantData struct {
	InventoryItem *struct {
		Variant *struct {
			LegacyResourceID string `json:"legacyResourceId"`
			Title            string `json:"title"`
			Price            string `json:"price"`
			Product          struct {
				LegacyResourceID string `json:"legacyResourceId"`
				Title            string `json:"title"`
			} `json:"product"`
		} `json:"variant"`
	} `json:"inventoryItem"`
}

// FetchVariantByInventoryItem resolves the variant stocked by an inventory
// item. Returns nil, nil when the item or its variant no longer exists.
func (c *Client) FetchVariantByInventoryItem(ctx context.Context, tenant, inventoryItemID string) (*VariantRef, error) {
	vars := map[string]any{"id": gid("InventoryItem", inventoryItemID)}

	data, err := graphql[variantData](ctx, c, tenant, "variant_by_inventory_item", variantByInventoryItemQuery, vars)
	if err != nil {
		return nil, err
	}
	if data.InventoryItem == nil || data.InventoryItem.Variant == nil {
		return nil, nil
	}

	v := data.InventoryItem.Variant
	ref := &VariantRef{
		VariantID:    v.LegacyResourceID,
		ProductID:    v.Product.LegacyResourceID,
		Title:        v.Title,
		ProductTitle: v.Product.Title,
	}
	if v.Price != "" {
		price, err := decimal.NewFromString(v.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse variant price %q: %w", v.Price, err)
		}
		ref.Price = price
	}
	return ref, nil
}
