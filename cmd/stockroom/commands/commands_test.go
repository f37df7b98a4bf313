package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marshallshelly/stockroom/pkg/apierr"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessage(t *testing.T) {
	apiErr := &apierr.Error{
		Message: "Failed to create product",
		Kind:    apierr.KindAPI,
		Code:    400,
		Fields: map[string][]string{
			"sku":  {"product with this sku already exists."},
			"name": {"This field is required.", "Too short."},
		},
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  fmt.Errorf("save: %w", &forms.ValidationError{Field: "quantity", Message: "Quantity must be greater than 0"}),
			want: "Error: Quantity must be greater than 0",
		},
		{
			name: "api error lists fields sorted",
			err:  fmt.Errorf("failed to create product: %w", apiErr),
			want: "Error: Failed to create product\n  name: This field is required., Too short.\n  sku: product with this sku already exists.",
		},
		{
			name: "plain",
			err:  inventory.ErrOrderLocked,
			want: "Error: only pending orders can be modified",
		},
		{
			name: "joined",
			err:  errors.Join(errors.New("one"), errors.New("two")),
			want: "Error: one\ntwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, message(tt.err))
		})
	}
}

func TestOrderFailure(t *testing.T) {
	locked := fmt.Errorf("wrapped: %w", inventory.ErrOrderLocked)
	assert.Same(t, locked, orderFailure(locked, true))

	invalid := &forms.ValidationError{Message: "Please fill all fields properly"}
	assert.Equal(t, error(invalid), orderFailure(invalid, false))

	withDetail := &apierr.Error{Kind: apierr.KindAPI, Code: 400, Detail: "Insufficient stock"}
	assert.EqualError(t, orderFailure(withDetail, false), forms.OrderFailure(false)+": Insufficient stock")

	network := &apierr.Error{Kind: apierr.KindNetwork, Err: errors.New("refused")}
	assert.EqualError(t, orderFailure(network, true), forms.OrderFailure(true))
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8000", displayAddr(":8000"))
	assert.Equal(t, "0.0.0.0:9000", displayAddr("0.0.0.0:9000"))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"login"}, {"register"}, {"logout"}, {"whoami"},
		{"categories", "list"}, {"categories", "add"}, {"categories", "delete"},
		{"products", "list"}, {"products", "show"}, {"products", "add"}, {"products", "edit"}, {"products", "delete"},
		{"orders", "list"}, {"orders", "show"}, {"orders", "add"}, {"orders", "edit"},
		{"orders", "status"}, {"orders", "delete"}, {"orders", "chart"},
		{"inventory"}, {"dashboard"}, {"sandbox"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
