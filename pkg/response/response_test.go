package response

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		data []any
		want Response
	}{
		{
			name: "without data",
			msg:  "Operation successful.",
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
			},
		},
		{
			name: "with data",
			msg:  "Operation successful.",
			data: []any{map[string]any{"id": 1}},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
				Data:    map[string]any{"id": 1},
			},
		},
		{
			name: "with multiple data",
			msg:  "Operation successful.",
			data: []any{
				map[string]any{"id": 1},
				map[string]any{"id": 2},
			},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
				Data:    map[string]any{"id": 1},
			},
		},
		{
			name: "with nil data",
			msg:  "Operation successful.",
			data: nil,
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
			},
		},
		{
			name: "with data containing nil",
			msg:  "Operation successful.",
			data: []any{nil},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessResponse(tt.msg, tt.data...)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetValidationErrors(t *testing.T) {
	type req struct {
		URL         string `json:"url" validate:"required,url"`
		CustomAlias string `json:"custom_alias" validate:"omitempty,alphanum,min=3,max=32"`
		ExpiresIn   int64  `json:"expires_in_days" validate:"omitempty,gt=0"`
	}

	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	tests := []struct {
		name string
		req  req
		want []validationError
	}{
		{
			name: "not validation error",
			req: req{
				URL: "https://example.com",
			},
		},
		{
			name: "missing url",
			req:  req{},
			want: []validationError{
				{
					Field: "url",
					Value: "",
					Issue: "This field is required.",
				},
			},
		},
		{
			name: "invalid url and alias",
			req: req{
				URL:         "not url",
				CustomAlias: "my alias",
			},
			want: []validationError{
				{
					Field: "url",
					Value: "not url",
					Issue: "Invalid url.",
				},
				{
					Field: "custom_alias",
					Value: "my alias",
					Issue: "Must contain only letters and digits.",
				},
			},
		},
		{
			name: "alias too short",
			req: req{
				URL:         "https://example.com",
				CustomAlias: "ab",
			},
			want: []validationError{
				{
					Field: "custom_alias",
					Value: "ab",
					Issue: "Must be at least 3 characters long.",
				},
			},
		},
		{
			name: "negative expiration",
			req: req{
				URL:       "https://example.com",
				ExpiresIn: -1,
			},
			want: []validationError{
				{
					Field: "expires_in_days",
					Value: int64(-1),
					Issue: "Must be greater than 0.",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			got := getValidationErrors(err)

			assert.Equal(t, tt.want, got)
		})
	}
}
