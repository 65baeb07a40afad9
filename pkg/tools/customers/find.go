package customers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
	"github.com/theapemachine/mcp-server-customers/pkg/tools"
	"github.com/theapemachine/mcp-server-customers/pkg/tools/utils"
)

// FindCustomersTool searches customers by a name fragment
type FindCustomersTool struct {
	*tools.BaseTool
	store customer.Store
}

func NewFindCustomersTool(store customer.Store) *FindCustomersTool {
	return &FindCustomersTool{
		BaseTool: tools.NewBaseTool(mcp.NewTool(
			FindCustomersName,
			mcp.WithDescription("Find customers by full or partial name match"),
			mcp.WithString(
				argName,
				mcp.Required(),
				mcp.Description("Full or partial customer name to search for"),
			),
		)),
		store: store,
	}
}

func (tool *FindCustomersTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := utils.GetOptionalStringParam(request, argName)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	if name == "" {
		return mcp.NewToolResultError(errNameRequired), nil
	}

	found := tool.store.SearchByName(ctx, name)
	if len(found) == 0 {
		return tools.NewTextResult(fmt.Sprintf("No customers found with name containing: '%s'", name)), nil
	}

	return tools.NewTextResult(listing(
		fmt.Sprintf("Found %d customer(s) matching '%s':\n", len(found), name),
		found,
	)), nil
}
