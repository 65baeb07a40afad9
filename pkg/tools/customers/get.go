package customers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/utils"
)

// GetCustomerTool shows one customer by id
type GetCustomerTool struct {
	*tools.BaseTool
	store customer.Store
}

func NewGetCustomerTool(store customer.Store) *GetCustomerTool {
	return &GetCustomerTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			GetCustomerName,
			mcp.WithDescription("Get details of a specific customer by ID"),
			mcp.WithNumber(
				argCustomerID,
				mcp.Required(),
				mcp.Description("Unique identifier of the customer to retrieve"),
			),
		)),
		store: store,
	}
}

func (tool *GetCustomerTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := utils.GetRequiredIntParam(request, argCustomerID)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	found := tool.store.GetByID(ctx, id)
	if found == nil {
		return tools.NewTextResult(fmt.Sprintf("No customer found with ID: %d", id)), nil
	}

	return tools.NewTextResult("Customer Details:\n" + fields(*found)), nil
}
