// Package customers exposes the customer record operations as MCP tools.
package customers

import (
	"github.com/theapemachine/mcp-server-customers/core"
	"github.com/theapemachine/mcp-server-customers/pkg/customer"
)

// Tool names as published to MCP clients
const (
	ListCustomersName  = "List-Customers"
	GetCustomerName    = "Get-Customer"
	FindCustomersName  = "Find-Customers-By-Name"
	CreateCustomerName = "Create-Customer"
	UpdateCustomerName = "Update-Customer"
	DeleteCustomerName = "Delete-Customer"
)

// Argument names
const (
	argCustomerID    = "customer_id"
	argName          = "name"
	argEmail         = "email"
	argAge           = "age"
	argPreferPackage = "prefer_package"
)

// Validation failures returned as error results
const (
	errNameRequired    = "Error: Customer name is required for searching."
	errCreateRequired  = "Error: Customer name and email are required."
	errNothingToUpdate = "Error: At least one field (name, email, age, or prefer_package) must be provided for update."
)

// Tools returns every customer tool bound to store
func Tools(store customer.Store) []core.Tool {
	return []core.Tool{
		NewListCustomersTool(store),
		NewGetCustomerTool(store),
		NewFindCustomersTool(store),
		NewCreateCustomerTool(store),
		NewUpdateCustomerTool(store),
		NewDeleteCustomerTool(store),
	}
}
