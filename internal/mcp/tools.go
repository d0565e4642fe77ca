package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dshills/storefront/internal/product"
	"github.com/dshills/storefront/internal/seed"
	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound          = -32001 // Product or order does not exist
	ErrorCodeInsufficientStock = -32002 // Order asks for more than is in stock
	ErrorCodeLimitExceeded     = -32003 // Order line exceeds the product's per-order maximum
)

const maxListLimit = 100

// handleListProducts handles the list_products tool invocation
func (s *Server) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	includeInactive := getBoolDefault(args, "include_inactive", false)

	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]map[string]interface{}, 0, s.catalog.Len())
	index := 0
	for p := range s.catalog.All() {
		if !p.IsActive() && !includeInactive {
			continue
		}
		index++
		entry := productJSON(p)
		entry["index"] = index
		products = append(products, entry)
	}

	response := map[string]interface{}{
		"products": products,
		"count":    len(products),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetTotalStock handles the get_total_stock tool invocation
func (s *Server) handleGetTotalStock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	total := s.catalog.TotalStock()
	s.mu.Unlock()

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"total_stock": total})), nil
}

// handlePlaceOrder handles the place_order tool invocation
func (s *Server) handlePlaceOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	list, err := parseShoppingList(args)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	receipt, err := s.catalog.PlaceOrder(list)
	s.mu.Unlock()

	if err != nil {
		s.recordRejection(ctx, err)
		return nil, mapError(err)
	}

	journaled := true
	if err := s.journal.RecordOrder(ctx, receipt); err != nil {
		// The order is already committed in memory; report it and flag the gap
		journaled = false
		s.logger.Error("failed to journal order", zap.String("order_id", receipt.ID), zap.Error(err))
	}

	response := receiptJSON(receipt)
	response["journaled"] = journaled
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAddProduct handles the add_product tool invocation
func (s *Server) handleAddProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	price, ok := args["price"].(float64)
	if !ok {
		return nil, paramError("price", "missing or not a number")
	}
	stock, err := getIntParam(args, "stock", 0)
	if err != nil {
		return nil, err
	}
	maximum, err := getIntParam(args, "maximum", 0)
	if err != nil {
		return nil, err
	}

	spec := seed.ProductSpec{
		Name:      name,
		Kind:      getStringDefault(args, "kind", string(product.KindStandard)),
		Price:     price,
		Stock:     stock,
		Maximum:   maximum,
		Promotion: getStringDefault(args, "promotion", ""),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog.Contains(name) {
		return nil, mapError(types.NewInvalidArgument(name, "product %s already exists", name))
	}

	p, err := seed.NewProduct(spec, s.promotions)
	if err != nil {
		return nil, mapError(err)
	}
	s.catalog.Add(p)

	s.logger.Info("product added", zap.String("product", name), zap.String("kind", string(p.Kind())))
	return mcp.NewToolResultText(formatJSON(productJSON(p))), nil
}

// handleUpdateProduct handles the update_product tool invocation. Every
// field is validated before any is applied.
func (s *Server) handleUpdateProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.Find(name)
	if !ok {
		return nil, mapError(types.NewProductNotFound(name))
	}

	price, hasPrice := args["price"].(float64)
	if _, present := args["price"]; present && !hasPrice {
		return nil, paramError("price", "not a number")
	}
	if hasPrice {
		if err := product.ValidatePrice(name, price); err != nil {
			return nil, mapError(err)
		}
	}

	_, hasStock := args["stock"]
	stock, err := getIntParam(args, "stock", 0)
	if err != nil {
		return nil, err
	}
	if hasStock {
		if p.Kind() == product.KindUnlimited {
			return nil, mapError(types.NewInvalidArgument(name, "cannot set quantity of unlimited product %s", name))
		}
		if stock < 0 {
			return nil, mapError(types.NewInvalidArgument(name, "product quantity cannot be negative"))
		}
	}

	promoName, hasPromo := args["promotion"].(string)
	promo := p.Promotion()
	if hasPromo {
		promo = nil
		if promoName != "" {
			if promo, ok = s.promotions.Lookup(promoName); !ok {
				return nil, mapError(types.NewInvalidArgument(name, "unknown promotion %q", promoName))
			}
		}
	}

	if hasPrice {
		_ = p.SetPrice(price)
	}
	if hasStock {
		_ = p.SetStock(stock)
	}
	p.SetPromotion(promo)

	s.logger.Info("product updated", zap.String("product", name))
	return mcp.NewToolResultText(formatJSON(productJSON(p))), nil
}

// handleRemoveProduct handles the remove_product tool invocation
func (s *Server) handleRemoveProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	removed := s.catalog.Remove(name)
	s.mu.Unlock()

	if removed == 0 {
		return nil, mapError(types.NewProductNotFound(name))
	}

	s.logger.Info("product removed", zap.String("product", name), zap.Int("removed", removed))
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"name":    name,
		"removed": removed,
	})), nil
}

// handleOrderHistory handles the order_history tool invocation
func (s *Server) handleOrderHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	limit, err := getIntParam(args, "limit", storage.DefaultListLimit)
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > maxListLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	orders, err := s.journal.ListOrders(ctx, limit)
	if err != nil {
		return nil, internalError("failed to list orders", err)
	}
	stats, err := s.journal.GetStats(ctx)
	if err != nil {
		return nil, internalError("failed to get journal statistics", err)
	}

	history := make([]map[string]interface{}, len(orders))
	for i, r := range orders {
		history[i] = receiptJSON(r)
	}

	byKind := make(map[string]int, len(stats.RejectionsByKind))
	for kind, n := range stats.RejectionsByKind {
		byKind[string(kind)] = n
	}

	statistics := map[string]interface{}{
		"orders":             stats.Orders,
		"units_sold":         stats.UnitsSold,
		"revenue":            stats.Revenue,
		"rejections":         stats.Rejections,
		"rejections_by_kind": byKind,
	}
	if !stats.LastOrderAt.IsZero() {
		statistics["last_order_at"] = stats.LastOrderAt.Format(time.RFC3339)
	}

	response := map[string]interface{}{
		"orders":     history,
		"statistics": statistics,
	}

	if getBoolDefault(args, "include_rejections", false) {
		rejections, err := s.journal.ListRejections(ctx, limit)
		if err != nil {
			return nil, internalError("failed to list rejections", err)
		}
		out := make([]map[string]interface{}, len(rejections))
		for i, r := range rejections {
			out[i] = map[string]interface{}{
				"id":          r.ID,
				"kind":        string(r.Kind),
				"product":     r.Product,
				"message":     r.Message,
				"rejected_at": r.RejectedAt.Format(time.RFC3339),
			}
		}
		response["rejections"] = out
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetOrder handles the get_order tool invocation
func (s *Server) handleGetOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	orderID, err := requireString(args, "order_id")
	if err != nil {
		return nil, err
	}

	receipt, err := s.journal.GetOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotFound, fmt.Sprintf("order %s not found", orderID), map[string]interface{}{
			"order_id": orderID,
		})
	}
	if err != nil {
		return nil, internalError("failed to get order", err)
	}

	return mcp.NewToolResultText(formatJSON(receiptJSON(receipt))), nil
}

// recordRejection journals a failed order. Journal failures are logged only;
// the rejection itself is logged by the catalog.
func (s *Server) recordRejection(ctx context.Context, orderErr error) {
	rejection := storage.NewRejection(s.newID(), orderErr, s.now())
	if err := s.journal.RecordRejection(ctx, rejection); err != nil {
		s.logger.Error("failed to journal rejection",
			zap.String("rejection_id", rejection.ID),
			zap.String("kind", string(rejection.Kind)),
			zap.Error(err))
	}
}

// Helper functions

// mapError converts a domain error into an MCP error carrying its kind
func mapError(err error) error {
	kind, ok := types.KindOf(err)
	if !ok {
		return internalError("unexpected error", err)
	}

	data := map[string]interface{}{"kind": string(kind)}
	var domainErr *types.Error
	if errors.As(err, &domainErr) && domainErr.Product != "" {
		data["product"] = domainErr.Product
	}

	code := ErrorCodeInternalError
	switch kind {
	case types.KindInvalidArgument:
		code = ErrorCodeInvalidParams
	case types.KindProductNotFound:
		code = ErrorCodeNotFound
	case types.KindInsufficientStock:
		code = ErrorCodeInsufficientStock
	case types.KindLimitExceeded:
		code = ErrorCodeLimitExceeded
	}
	return newMCPError(code, err.Error(), data)
}

// parseShoppingList reads the items argument of place_order
func parseShoppingList(args map[string]interface{}) ([]types.LineItem, error) {
	raw, ok := args["items"].([]interface{})
	if !ok {
		return nil, paramError("items", "missing or not an array")
	}

	list := make([]types.LineItem, 0, len(raw))
	for i, entry := range raw {
		item, ok := entry.(map[string]interface{})
		if !ok {
			return nil, paramError(fmt.Sprintf("items[%d]", i), "not an object")
		}
		name, ok := item["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, paramError(fmt.Sprintf("items[%d].name", i), "missing or empty")
		}
		if _, ok := item["quantity"]; !ok {
			return nil, paramError(fmt.Sprintf("items[%d].quantity", i), "missing")
		}
		quantity, err := getIntParam(item, "quantity", 0)
		if err != nil {
			return nil, paramError(fmt.Sprintf("items[%d].quantity", i), "not an integer")
		}
		list = append(list, types.LineItem{Name: name, Quantity: quantity})
	}
	return list, nil
}

func productJSON(p product.Product) map[string]interface{} {
	entry := map[string]interface{}{
		"name":    p.Name(),
		"kind":    string(p.Kind()),
		"price":   p.Price(),
		"active":  p.IsActive(),
		"display": p.String(),
	}
	if p.Kind() == product.KindUnlimited {
		entry["unlimited"] = true
	} else {
		entry["stock"] = p.Stock()
	}
	if limited, ok := p.(*product.PerOrderLimited); ok {
		entry["maximum"] = limited.Maximum()
	}
	if promo := p.Promotion(); promo != nil {
		entry["promotion"] = promo.Name()
	}
	return entry
}

func receiptJSON(r *types.Receipt) map[string]interface{} {
	lines := make([]map[string]interface{}, len(r.Lines))
	for i, line := range r.Lines {
		entry := map[string]interface{}{
			"product":  line.Product,
			"quantity": line.Quantity,
			"amount":   line.Amount,
		}
		if line.Promotion != "" {
			entry["promotion"] = line.Promotion
		}
		lines[i] = entry
	}
	return map[string]interface{}{
		"order_id":  r.ID,
		"total":     r.Total,
		"lines":     lines,
		"placed_at": r.PlacedAt.Format(time.RFC3339),
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func paramError(param, reason string) error {
	return newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("invalid %s parameter", param), map[string]interface{}{
		"param":  param,
		"reason": reason,
	})
}

func internalError(message string, err error) error {
	return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// arguments extracts the argument object of a tool call. A call without
// arguments yields an empty map.
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || strings.TrimSpace(val) == "" {
		return "", paramError(key, "missing or empty")
	}
	return val, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntParam extracts an integer parameter with a default value. JSON
// numbers arrive as float64 and must be whole.
func getIntParam(args map[string]interface{}, key string, defaultValue int) (int, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return defaultValue, nil
	}
	switch val := raw.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, paramError(key, "not an integer")
		}
		if val >= math.MaxInt || val < math.MinInt {
			return 0, paramError(key, "out of range")
		}
		return int(val), nil
	default:
		return 0, paramError(key, "not an integer")
	}
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
