package customers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/utils"
)

// CreateCustomerTool inserts a new customer
type CreateCustomerTool struct {
	*tools.BaseTool
	store customer.Store
}

func NewCreateCustomerTool(store customer.Store) *CreateCustomerTool {
	return &CreateCustomerTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			CreateCustomerName,
			mcp.WithDescription("Create a new customer in the database"),
			mcp.WithString(
				argName,
				mcp.Required(),
				mcp.Description("Customer's full name"),
			),
			mcp.WithString(
				argEmail,
				mcp.Required(),
				mcp.Description("Customer's email address"),
			),
			mcp.WithNumber(
				argAge,
				mcp.Description("Customer's age (optional)"),
			),
			mcp.WithNumber(
				argPreferPackage,
				mcp.Description("Customer's preferred package ID (optional)"),
			),
		)),
		store: store,
	}
}

func (tool *CreateCustomerTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		params customer.CreateParams
		err    error
	)

	if params.Name, err = utils.GetOptionalStringParam(request, argName); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.Email, err = utils.GetOptionalStringParam(request, argEmail); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.Name == "" || params.Email == "" {
		return mcp.NewToolResultError(errCreateRequired), nil
	}

	if params.Age, err = utils.GetOptionalIntPtrParam(request, argAge); err != nil {
		return utils.HandleParameterError(err), nil
	}

	if params.PreferPackage, err = utils.GetOptionalIntPtrParam(request, argPreferPackage); err != nil {
		return utils.HandleParameterError(err), nil
	}

	created := tool.store.Create(ctx, params)
	if created == nil {
		return tools.NewTextResult("Failed to create customer. Please check database connection and try again."), nil
	}

	return tools.NewTextResult("Customer created successfully:\n" + fields(*created)), nil
}
