package customers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
)

// ListCustomersTool lists every stored customer
type ListCustomersTool struct {
	*tools.BaseTool
	store customer.Store
}

func NewListCustomersTool(store customer.Store) *ListCustomersTool {
	return &ListCustomersTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			ListCustomersName,
			mcp.WithDescription("List all customers in the database"),
		)),
		store: store,
	}
}

func (tool *ListCustomersTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	found := tool.store.ListAll(ctx)

	if len(found) == 0 {
		return tools.NewTextResult("No customers found in the database."), nil
	}

	return tools.NewTextResult(listing("Customers:\n", found)), nil
}
