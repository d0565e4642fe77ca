package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/storefront/internal/product"
	"github.com/dshills/storefront/internal/storage"
)

var productKinds = []string{
	string(product.KindStandard),
	string(product.KindUnlimited),
	string(product.KindPerOrderLimited),
}

// listProductsTool returns the tool definition for list_products
func listProductsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_products",
		Description: "List the products in the store, in catalog order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"include_inactive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, also list sold-out products",
					"default":     false,
				},
			},
		},
	}
}

// getTotalStockTool returns the tool definition for get_total_stock
func getTotalStockTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_total_stock",
		Description: "Total number of units in stock across all products (unlimited products count as 0)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// placeOrderTool returns the tool definition for place_order
func placeOrderTool() mcp.Tool {
	return mcp.Tool{
		Name: "place_order",
		Description: "Place an order. Every line is validated before any stock changes; " +
			"if one line fails, nothing is bought. Repeated product names use the last quantity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Shopping list",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name": map[string]interface{}{
								"type":        "string",
								"description": "Product name as listed by list_products",
							},
							"quantity": map[string]interface{}{
								"type":        "integer",
								"description": "Units to buy (must be positive)",
								"minimum":     1,
							},
						},
						"required": []string{"name", "quantity"},
					},
				},
			},
			Required: []string{"items"},
		},
	}
}

// addProductTool returns the tool definition for add_product
func addProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_product",
		Description: "Add a product to the store",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique product name",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Product variant",
					"enum":        productKinds,
					"default":     string(product.KindStandard),
				},
				"price": map[string]interface{}{
					"type":        "number",
					"description": "Unit price",
					"minimum":     0,
				},
				"stock": map[string]interface{}{
					"type":        "integer",
					"description": "Units on hand (ignored for unlimited products)",
					"minimum":     0,
					"default":     0,
				},
				"maximum": map[string]interface{}{
					"type":        "integer",
					"description": "Per-order maximum (per_order_limited only)",
					"minimum":     1,
				},
				"promotion": map[string]interface{}{
					"type":        "string",
					"description": "Name of a configured promotion",
				},
			},
			Required: []string{"name", "price"},
		},
	}
}

// updateProductTool returns the tool definition for update_product
func updateProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_product",
		Description: "Update an existing product; omitted fields are left unchanged",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Product name",
				},
				"price": map[string]interface{}{
					"type":        "number",
					"description": "New unit price",
					"minimum":     0,
				},
				"stock": map[string]interface{}{
					"type":        "integer",
					"description": "New stock level; 0 deactivates the product",
					"minimum":     0,
				},
				"promotion": map[string]interface{}{
					"type":        "string",
					"description": "Name of a configured promotion, or empty to clear it",
				},
			},
			Required: []string{"name"},
		},
	}
}

// removeProductTool returns the tool definition for remove_product
func removeProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_product",
		Description: "Remove every product with the given name from the store",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Product name",
				},
			},
			Required: []string{"name"},
		},
	}
}

// orderHistoryTool returns the tool definition for order_history
func orderHistoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "order_history",
		Description: "Recent committed orders, most recent first, with journal statistics",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of orders to return (1-100)",
					"default":     storage.DefaultListLimit,
					"minimum":     1,
					"maximum":     100,
				},
				"include_rejections": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, also return recent rejected orders",
					"default":     false,
				},
			},
		},
	}
}

// getOrderTool returns the tool definition for get_order
func getOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_order",
		Description: "Fetch one committed order with its lines",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "string",
					"description": "Order ID returned by place_order",
				},
			},
			Required: []string{"order_id"},
		},
	}
}
