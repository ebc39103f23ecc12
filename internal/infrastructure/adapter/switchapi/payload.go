package switchapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
)

// envelope is the wrapper every Switch response uses; some endpoints omit it
// and return the object directly.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeObject unwraps an optional envelope and decodes the object with json.Number
// preserved, so amounts never pass through float64.
func decodeObject(body []byte) (map[string]any, envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, env, err
	}

	raw := body
	if len(env.Data) > 0 && string(env.Data) != "null" {
		raw = env.Data
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, env, err
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, env, nil
}

// rejected reports an explicit success=false envelope
func (e envelope) rejected() bool {
	return e.Success != nil && !*e.Success
}

func toStatusPayload(obj map[string]any, message string) *gateway.StatusPayload {
	p := &gateway.StatusPayload{
		Reference: stringField(obj, "reference"),
		Status:    stringField(obj, "status"),
		Type:      stringField(obj, "type"),
		Message:   firstNonEmpty(stringField(obj, "message"), message),
		Raw:       obj,
	}

	if dest, ok := obj["destination"].(map[string]any); ok {
		if amount, ok := decimalField(dest, "amount"); ok {
			p.Destination.Amount = amount
		}
		p.Destination.Currency = stringField(dest, "currency")
	}
	if rate, ok := decimalField(obj, "rate"); ok {
		p.Rate = &rate
	}
	p.Deposit = depositField(obj)

	return p
}

func depositField(obj map[string]any) gateway.Deposit {
	if dep, ok := obj["deposit"].(map[string]any); ok {
		return gateway.Deposit{Address: stringField(dep, "address")}
	}
	return gateway.Deposit{Address: stringField(obj, "deposit_address")}
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	}
	return ""
}

func decimalField(obj map[string]any, key string) (decimal.Decimal, bool) {
	var raw string
	switch v := obj[key].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	case float64:
		raw = fmt.Sprintf("%v", v)
	default:
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecodeWebhook parses a webhook body into the same payload shape the status
// endpoint yields. The envelope is optional.
func DecodeWebhook(body []byte) (*gateway.StatusPayload, error) {
	obj, env, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	return toStatusPayload(obj, env.Message), nil
}
