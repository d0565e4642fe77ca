package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/storefront/internal/catalog"
	"github.com/dshills/storefront/internal/seed"
	"github.com/dshills/storefront/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "storefront"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server exposes a catalog as MCP tools. The catalog does no locking of its
// own, so every tool call that touches it holds mu for its whole duration.
type Server struct {
	mcp *server.MCPServer

	mu         sync.Mutex
	catalog    *catalog.Catalog
	promotions *seed.Registry

	journal storage.Journal
	logger  *zap.Logger
	newID   func() string
	now     func() time.Time
}

// NewServer creates a new MCP server instance over an already built catalog.
// The server takes ownership of journal and closes it when Serve returns.
func NewServer(cat *catalog.Catalog, promotions *seed.Registry, journal storage.Journal, logger *zap.Logger) (*Server, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if journal == nil {
		return nil, errors.New("journal is required")
	}
	if promotions == nil {
		promotions = seed.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		catalog:    cat,
		promotions: promotions,
		journal:    journal,
		logger:     logger.Named("mcp"),
		newID:      uuid.NewString,
		now:        time.Now,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until ctx is cancelled or
// the client disconnects
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.journal.Close() }()

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	s.logger.Info("listening on stdio")
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Catalog reads
	s.mcp.AddTool(listProductsTool(), s.handleListProducts)
	s.mcp.AddTool(getTotalStockTool(), s.handleGetTotalStock)

	// Orders
	s.mcp.AddTool(placeOrderTool(), s.handlePlaceOrder)

	// Catalog administration
	s.mcp.AddTool(addProductTool(), s.handleAddProduct)
	s.mcp.AddTool(updateProductTool(), s.handleUpdateProduct)
	s.mcp.AddTool(removeProductTool(), s.handleRemoveProduct)

	// Journal
	s.mcp.AddTool(orderHistoryTool(), s.handleOrderHistory)
	s.mcp.AddTool(getOrderTool(), s.handleGetOrder)

	return nil
}
