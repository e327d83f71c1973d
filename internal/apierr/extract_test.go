package apierr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty_body",
			raw:  "",
			want: "",
		},
		{
			name: "plain_text",
			raw:  "  Service temporarily unavailable \n",
			want: "Service temporarily unavailable",
		},
		{
			name: "object_message",
			raw:  `{"message":"Email already registered","status":409}`,
			want: "Email already registered",
		},
		{
			name: "object_error_when_message_not_string",
			raw:  `{"message":{"code":1},"error":"Conflict"}`,
			want: "Conflict",
		},
		{
			name: "object_without_known_fields_keeps_key_order",
			raw:  `{"zeta": 1, "alpha": true}`,
			want: `{"zeta":1,"alpha":true}`,
		},
		{
			name: "json_string",
			raw:  `"Out of stock"`,
			want: "Out of stock",
		},
		{
			name: "json_number",
			raw:  `42`,
			want: "42",
		},
		{
			name: "json_number_exponent",
			raw:  `1e2`,
			want: "100",
		},
		{
			name: "json_number_trailing_zero",
			raw:  `1.0`,
			want: "1",
		},
		{
			name: "json_bool",
			raw:  `false`,
			want: "false",
		},
		{
			name: "array_first_resolvable_element",
			raw:  `[null, {"field":"qty"}, {"message":"Quantity must be positive"}]`,
			want: `{"field":"qty"}`,
		},
		{
			name: "array_skips_null_and_empty",
			raw:  `[null, "", "Price is required"]`,
			want: "Price is required",
		},
		{
			name: "array_nothing_resolves",
			raw:  `[null, null]`,
			want: "[null,null]",
		},
		{
			name: "empty_array_sentinel",
			raw:  `[]`,
			want: "[]",
		},
		{
			name: "empty_object_sentinel",
			raw:  `{}`,
			want: "{}",
		},
		{
			name: "null_falls_through_to_literal",
			raw:  `null`,
			want: "null",
		},
		{
			name: "embedded_array_with_error_field",
			raw:  `Upstream failure [{"error":"Timeout"}] happened`,
			want: "Timeout",
		},
		{
			name: "embedded_object_after_prefix",
			raw:  `status=500 body={"message":"Payment provider declined"}`,
			want: "Payment provider declined",
		},
		{
			name: "embedded_earliest_opener_wins",
			raw:  `first {"message":"A"} then ["B"]`,
			want: "A",
		},
		{
			name: "embedded_skips_unparsable_candidate",
			raw:  `[warn] retry {"message":"Card expired"}`,
			want: "Card expired",
		},
		{
			name: "regex_on_broken_json",
			raw:  `{"timestamp":2024-01-01, "message": "Order not found", "path": /orders}`,
			want: "Order not found",
		},
		{
			name: "gateway_wrapped_object",
			raw:  `prefix-trace-text]: {"message":"Insufficient stock"}`,
			want: "Insufficient stock",
		},
		{
			name: "gateway_wrapped_feign_trace",
			raw:  `[409 Conflict] during [POST] to [http://inventory/reserve] [InventoryClient#reserve(Request)]: [{"message":"SKU-7 is reserved"}]`,
			want: "SKU-7 is reserved",
		},
		{
			name: "embedded_number_with_trailing_text_stays_literal",
			raw:  "Retry in [5] seconds",
			want: "Retry in [5] seconds",
		},
		{
			name: "embedded_bool_with_trailing_text_stays_literal",
			raw:  "error [true] flagged",
			want: "error [true] flagged",
		},
		{
			name: "embedded_empty_object_with_trailing_text_stays_literal",
			raw:  "Quota {} exceeded for user",
			want: "Quota {} exceeded for user",
		},
		{
			name: "embedded_string_element_with_trailing_text",
			raw:  `warn ["Card declined"] by issuer`,
			want: "Card declined",
		},
		{
			name: "literal_fallback",
			raw:  "gateway timeout ]: upstream closed",
			want: "gateway timeout ]: upstream closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.raw))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "empty_array", in: "[]", want: ""},
		{name: "empty_object", in: " {} ", want: ""},
		{name: "null", in: "null", want: ""},
		{name: "message", in: " Out of stock ", want: "Out of stock"},
		{name: "non_empty_array", in: "[1]", want: "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestExtractStructured(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "truncated_object", raw: `{"timestamp":"2024-01-01T00:00:00Z","path":"/orders`, want: ""},
		{name: "broken_with_message", raw: `{"message": "Out of stock", "at": now}`, want: "Out of stock"},
		{name: "valid_object", raw: `{"error":"Conflict"}`, want: "Conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractStructured(tt.raw))
		})
	}
}

func TestMessage_PlainTextKeepsBrackets(t *testing.T) {
	assert.Equal(t, "Quota {} exceeded for user", Message("Quota {} exceeded for user"))
}

func TestMessage_MessageFieldRoundTrip(t *testing.T) {
	for _, s := range []string{"a", "Insufficient stock", "Ünïcode ✓", `with "quotes"`} {
		raw := `{"message":` + quote(s) + `}`
		assert.Equal(t, s, Message(raw), raw)
	}
}

func TestMessage_SentinelsBlank(t *testing.T) {
	for _, raw := range []string{"[]", "{}", "null", " [] ", `[[]]`} {
		assert.Empty(t, Message(raw), raw)
	}
}

func TestOpenerIndices(t *testing.T) {
	assert.Equal(t, []int{2, 3}, openerIndices(`x [{"a":1}]`))
	assert.Equal(t, []int{0, 6}, openerIndices(`["a", {"b":2}]`))
	assert.Nil(t, openerIndices("no json here"))
}

func quote(s string) string {
	out := []byte{'"'}
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, string(r)...)
	}
	return string(append(out, '"'))
}
