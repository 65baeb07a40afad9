package customers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/utils"
)

// UpdateCustomerTool applies a partial update to a customer
type UpdateCustomerTool struct {
	*tools.BaseTool
	store customer.Store
}

func NewUpdateCustomerTool(store customer.Store) *UpdateCustomerTool {
	return &UpdateCustomerTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			UpdateCustomerName,
			mcp.WithDescription("Update an existing customer's information"),
			mcp.WithNumber(
				argCustomerID,
				mcp.Required(),
				mcp.Description("Unique identifier of the customer to update"),
			),
			mcp.WithString(
				argName,
				mcp.Description("New customer name (optional)"),
			),
			mcp.WithString(
				argEmail,
				mcp.Description("New customer email (optional)"),
			),
			mcp.WithNumber(
				argAge,
				mcp.Description("New customer age (optional)"),
			),
			mcp.WithNumber(
				argPreferPackage,
				mcp.Description("New preferred package ID (optional)"),
			),
		)),
		store: store,
	}
}

func (tool *UpdateCustomerTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := utils.GetRequiredIntParam(request, argCustomerID)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	var params customer.UpdateParams

	if params.Name, err = utils.GetOptionalStringPtrParam(request, argName); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.Email, err = utils.GetOptionalStringPtrParam(request, argEmail); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.Age, err = utils.GetOptionalIntPtrParam(request, argAge); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.PreferPackage, err = utils.GetOptionalIntPtrParam(request, argPreferPackage); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.IsEmpty() {
		return mcp.NewToolResultError(errNothingToUpdate), nil
	}

	updated := tool.store.Update(ctx, id, params)
	if updated == nil {
		return tools.NewTextResult(fmt.Sprintf("Failed to update customer with ID: %d. Customer may not exist.", id)), nil
	}

	return tools.NewTextResult("Customer updated successfully:\n" + fields(*updated)), nil
}
