package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetStringParam safely extracts a string parameter from the request
func GetStringParam(req mcp.CallToolRequest, key string, required bool) (string, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: '%s'", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}

	return str, nil
}

// GetRequiredStringParam is a shorthand for GetStringParam with required=true
func GetRequiredStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, true)
}

// GetOptionalStringParam is a shorthand for GetStringParam with required=false
func GetOptionalStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, false)
}

// GetOptionalStringPtrParam returns nil when the parameter is absent or empty
func GetOptionalStringPtrParam(req mcp.CallToolRequest, key string) (*string, error) {
	str, err := GetStringParam(req, key, false)
	if err != nil || str == "" {
		return nil, err
	}

	return &str, nil
}

// GetFloat64Param safely extracts a float64 parameter from the request.
// JSON numbers arrive as float64; integers and numeric strings are accepted too.
func GetFloat64Param(req mcp.CallToolRequest, key string, required bool) (float64, bool, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return 0, false, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return 0, false, nil
	}

	var (
		f   float64
		err error
	)

	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		err = fmt.Errorf("unsupported type %T", val)
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("parameter '%s' must be a number", key)
	}

	return f, true, nil
}

// GetRequiredFloat64Param is a shorthand for GetFloat64Param with required=true
func GetRequiredFloat64Param(req mcp.CallToolRequest, key string) (float64, error) {
	f, _, err := GetFloat64Param(req, key, true)
	return f, err
}

// GetIntParam extracts a whole-number parameter. Fractional values are rejected.
func GetIntParam(req mcp.CallToolRequest, key string, required bool) (int64, bool, error) {
	f, present, err := GetFloat64Param(req, key, required)
	if err != nil || !present {
		return 0, present, err
	}

	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false, fmt.Errorf("parameter '%s' must be an integer", key)
	}

	return int64(f), true, nil
}

// GetRequiredIntParam is a shorthand for GetIntParam with required=true
func GetRequiredIntParam(req mcp.CallToolRequest, key string) (int64, error) {
	i, _, err := GetIntParam(req, key, true)
	return i, err
}

// GetOptionalIntPtrParam returns nil when the parameter is absent
func GetOptionalIntPtrParam(req mcp.CallToolRequest, key string) (*int, error) {
	i, present, err := GetIntParam(req, key, false)
	if err != nil || !present {
		return nil, err
	}

	if i > math.MaxInt32 || i < math.MinInt32 {
		return nil, fmt.Errorf("parameter '%s' is out of range", key)
	}

	v := int(i)

	return &v, nil
}

// HandleParameterError returns a properly formatted error response for parameter validation errors
func HandleParameterError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
}
