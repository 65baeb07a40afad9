package customers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theapemachine/mcp-server-customers/pkg/customer"
)

const placeholder = "N/A"

func optional(v *int) string {
	if v == nil {
		return placeholder
	}

	return strconv.Itoa(*v)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}

	return s
}

// fields renders the fixed five-line block for c
func fields(c customer.Customer) string {
	return fmt.Sprintf(
		"ID: %d\nName: %s\nEmail: %s\nAge: %s\nPrefer Package: %s\n",
		c.ID,
		orPlaceholder(c.Name),
		orPlaceholder(c.Email),
		optional(c.Age),
		optional(c.PreferPackage),
	)
}

// listing renders each customer after header, separated by a blank line and closed by "---"
func listing(header string, found []customer.Customer) string {
	var b strings.Builder

	b.WriteString(header)

	for _, c := range found {
		b.WriteString("\n")
		b.WriteString(fields(c))
		b.WriteString("---\n")
	}

	return b.String()
}
