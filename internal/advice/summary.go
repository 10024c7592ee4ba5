// Package advice talks to the external commentary service and resolves its
// loosely shaped responses into a closed set of summary types.
package advice

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags the concrete Summary variant
type Kind string

const (
	KindText       Kind = "text"
	KindStructured Kind = "structured"
	KindRaw        Kind = "raw"
)

// ErrEmptySummary is returned when the service responds with no content
var ErrEmptySummary = errors.New("empty advice summary")

// Summary is one of TextSummary, StructuredSummary or RawJSON.
// Consumers switch on the concrete type once instead of probing the payload.
type Summary interface {
	Kind() Kind
	isSummary()
}

// TextSummary is free-form narrative
type TextSummary struct {
	Text string `json:"text"`
}

func (TextSummary) Kind() Kind { return KindText }
func (TextSummary) isSummary() {}

// Tips splits the narrative into individual tips. Lines starting with "-" or "•" lose
// the marker; other non-blank lines are kept as they are.
func (s TextSummary) Tips() []string {
	var tips []string
	for _, line := range strings.Split(s.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-•"))
			if line == "" {
				continue
			}
		}
		tips = append(tips, line)
	}
	return tips
}

// StockOutcome is one holding in a portfolio performance summary
type StockOutcome struct {
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Invested     decimal.Decimal `json:"invested"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	ProfitLoss   decimal.Decimal `json:"profitLoss"`
	ReturnPct    decimal.Decimal `json:"returnPct"`
}

// stockOutcomeKeys maps each field to the keys the service is known to send
var stockOutcomeKeys = map[string][]string{
	"symbol":       {"symbol", "Symbol"},
	"quantity":     {"quantity", "qty", "Qty"},
	"buyPrice":     {"buyPrice", "buy_price", "Buy ₹"},
	"currentPrice": {"currentPrice", "current_price", "Current ₹"},
	"invested":     {"invested", "Invested ₹"},
	"currentValue": {"currentValue", "current_value", "Now ₹"},
	"profitLoss":   {"profitLoss", "profit_loss", "Profit/Loss ₹"},
	"returnPct":    {"returnPct", "return_pct", "Return %"},
}

// UnmarshalJSON accepts camelCase, snake_case and display-label keys
func (o *StockOutcome) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	lookup := func(name string) (json.RawMessage, bool) {
		for _, k := range stockOutcomeKeys[name] {
			if v, ok := fields[k]; ok {
				return v, true
			}
		}
		return nil, false
	}

	raw, ok := lookup("symbol")
	if !ok {
		return errors.New("stock outcome has no symbol")
	}
	if err := json.Unmarshal(raw, &o.Symbol); err != nil || o.Symbol == "" {
		return errors.New("stock outcome symbol must be a non-empty string")
	}

	targets := map[string]*decimal.Decimal{
		"quantity":     &o.Quantity,
		"buyPrice":     &o.BuyPrice,
		"currentPrice": &o.CurrentPrice,
		"invested":     &o.Invested,
		"currentValue": &o.CurrentValue,
		"profitLoss":   &o.ProfitLoss,
		"returnPct":    &o.ReturnPct,
	}
	for name, dst := range targets {
		if raw, ok := lookup(name); ok {
			if err := dst.UnmarshalJSON(raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// StructuredSummary is a list of per-holding outcomes
type StructuredSummary struct {
	Outcomes []StockOutcome `json:"outcomes"`
}

func (StructuredSummary) Kind() Kind { return KindStructured }
func (StructuredSummary) isSummary() {}

// Totals returns the invested amount, current value and profit across all holdings
func (s StructuredSummary) Totals() (invested, current, profit decimal.Decimal) {
	for _, o := range s.Outcomes {
		invested = invested.Add(o.Invested)
		current = current.Add(o.CurrentValue)
		profit = profit.Add(o.ProfitLoss)
	}
	return invested, current, profit
}

// RawJSON is any payload that is neither narrative nor a list of outcomes
type RawJSON struct {
	Data json.RawMessage `json:"data"`
}

func (RawJSON) Kind() Kind { return KindRaw }
func (RawJSON) isSummary() {}

// ParseSummary resolves a service payload into a Summary:
//   - plain (non-JSON) text and JSON strings become TextSummary
//   - {"summary": ...} envelopes are unwrapped and resolved recursively
//   - arrays whose every element is a stock outcome become StructuredSummary
//   - anything else is kept as RawJSON
func ParseSummary(data []byte) (Summary, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptySummary
	}
	if !json.Valid(trimmed) {
		return TextSummary{Text: string(trimmed)}, nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptySummary
		}
		return TextSummary{Text: text}, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		if inner, ok := envelope["summary"]; ok {
			return ParseSummary(inner)
		}
	case '[':
		var outcomes []StockOutcome
		if err := json.Unmarshal(trimmed, &outcomes); err == nil && len(outcomes) > 0 {
			return StructuredSummary{Outcomes: outcomes}, nil
		}
	}
	return RawJSON{Data: json.RawMessage(append([]byte(nil), trimmed...))}, nil
}

// Envelope is the wire form of a Summary returned by the HTTP API
type Envelope struct {
	Kind     Kind            `json:"kind"`
	Text     string          `json:"text,omitempty"`
	Tips     []string        `json:"tips,omitempty"`
	Outcomes []StockOutcome  `json:"outcomes,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// ToEnvelope converts a resolved summary to its wire form
func ToEnvelope(s Summary) Envelope {
	switch v := s.(type) {
	case TextSummary:
		return Envelope{Kind: KindText, Text: v.Text, Tips: v.Tips()}
	case StructuredSummary:
		return Envelope{Kind: KindStructured, Outcomes: v.Outcomes}
	case RawJSON:
		return Envelope{Kind: KindRaw, Data: v.Data}
	default:
		return Envelope{}
	}
}
