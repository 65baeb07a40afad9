package customers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/utils"
)

// DeleteCustomerTool removes a customer by id
type DeleteCustomerTool struct {
	*tools.BaseTool
	store customer.Store
}

func NewDeleteCustomerTool(store customer.Store) *DeleteCustomerTool {
	return &DeleteCustomerTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			DeleteCustomerName,
			mcp.WithDescription("Remove a customer from the database"),
			mcp.WithNumber(
				argCustomerID,
				mcp.Required(),
				mcp.Description("Unique identifier of the customer to delete"),
			),
		)),
		store: store,
	}
}

func (tool *DeleteCustomerTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := utils.GetRequiredIntParam(request, argCustomerID)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	if !tool.store.Delete(ctx, id) {
		return tools.NewTextResult(fmt.Sprintf("Failed to delete customer with ID: %d. Customer may not exist.", id)), nil
	}

	return tools.NewTextResult(fmt.Sprintf("Customer with ID: %d has been successfully deleted.", id)), nil
}
