// Package mcp implements the Model Context Protocol (MCP) server for the
// storefront.
//
// The server exposes a catalog and its order journal as tools:
//   - list_products, get_total_stock: read the catalog
//   - place_order: buy a shopping list as one all-or-nothing order
//   - add_product, update_product, remove_product: administer the catalog
//   - order_history, get_order: read the journal of committed and rejected orders
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. The server reads
// requests from stdin and writes responses to stdout; logs go to stderr.
//
// # Tool: place_order
//
//	Request:
//	{
//	  "name": "place_order",
//	  "arguments": {
//	    "items": [
//	      {"name": "MacBook Air M2", "quantity": 2},
//	      {"name": "Shipping", "quantity": 1}
//	    ]
//	  }
//	}
//
//	Response:
//	{
//	  "order_id": "0b6c2c1e-...",
//	  "total": 2185,
//	  "lines": [
//	    {"product": "MacBook Air M2", "quantity": 2, "amount": 2175, "promotion": "Second Half price!"},
//	    {"product": "Shipping", "quantity": 1, "amount": 10}
//	  ],
//	  "placed_at": "2026-10-15T09:30:00Z",
//	  "journaled": true
//	}
//
// Every line is checked before any stock changes. When one line fails the
// whole order is rejected, the catalog is untouched, and the rejection is
// written to the journal.
//
// # Error Handling
//
// Tool errors carry a JSON-RPC code and, for domain failures, the error kind
// and product in Data:
//
//	{
//	  "code": -32003,
//	  "message": "Cannot buy more than 1 of Shipping in one order",
//	  "data": {"kind": "limit_exceeded", "product": "Shipping"}
//	}
//
// Error codes:
//   - -32602: Invalid params (malformed arguments, non-positive quantity)
//   - -32603: Internal error (journal failures)
//   - -32001: Product or order not found
//   - -32002: Insufficient stock
//   - -32003: Per-order limit exceeded
//
// # Concurrency
//
// The catalog does no locking of its own. Server serializes every tool call
// that reads or mutates it, so concurrent place_order calls never oversell.
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "storefront": {
//	      "command": "/usr/local/bin/storefront",
//	      "env": {
//	        "STOREFRONT_DB_PATH": "/var/lib/storefront/journal.db",
//	        "STOREFRONT_LOG_LEVEL": "info"
//	      }
//	    }
//	  }
//	}
package mcp
