// Package input reads expense records from a text stream.
//
// Records are decoded field by field so that missing, null or empty values
// map to explicit defaults before they reach aggregation.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"expense-insights/internal/core"
)

// ParseError reports input that could not be decoded as expense records.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "Failed to parse expenses JSON: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errNotArray  = errors.New("expected a JSON array of expense objects")
	errNotObject = errors.New("expected an object")
)

// ReadExpenses consumes r entirely. Blank input yields no records.
func ReadExpenses(r io.Reader) ([]core.ExpenseRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read expenses: %w", err)
	}
	return ParseExpenses(data)
}

// ParseExpenses decodes a JSON array of expense objects.
func ParseExpenses(data []byte) ([]core.ExpenseRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []core.ExpenseRecord{}, nil
	}
	if data[0] != '[' {
		if !json.Valid(data) {
			var v any
			return nil, &ParseError{Err: json.Unmarshal(data, &v)}
		}
		return nil, &ParseError{Err: errNotArray}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &ParseError{Err: err}
	}

	records := make([]core.ExpenseRecord, 0, len(elems))
	for i, elem := range elems {
		rec, err := decodeExpense(elem)
		if err != nil {
			return nil, &ParseError{Err: fmt.Errorf("expense %d: %w", i, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeExpense(elem json.RawMessage) (core.ExpenseRecord, error) {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 || elem[0] != '{' {
		return core.ExpenseRecord{}, errNotObject
	}
	// A map keeps key matching exact; struct decoding would fold case.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return core.ExpenseRecord{}, err
	}

	amount, err := decodeAmount(fields["amount"])
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("amount: %w", err)
	}
	category, err := decodeCategory(fields["category"])
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("category: %w", err)
	}
	return core.NewExpenseRecord(amount, category), nil
}

// decodeAmount maps absent, null and empty values to 0 and accepts numbers,
// booleans and numeric strings.
func decodeAmount(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if isEmptyValue(raw) {
		return 0, nil
	}
	switch raw[0] {
	case 't':
		return 1, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return parseAmountString(s)
	case '[', '{':
		return 0, fmt.Errorf("cannot convert %s to a number", kindOf(raw))
	default:
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %s", raw)
		}
		return v, nil
	}
}

func parseAmountString(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("could not convert string to number: %q", s)
	}
	return v, nil
}

// decodeCategory maps absent, null and empty values to "" (later defaulted)
// and renders non-string scalars as their JSON text.
func decodeCategory(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if isEmptyValue(raw) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[', '{':
		return "", fmt.Errorf("cannot use %s as a category", kindOf(raw))
	default:
		return string(raw), nil
	}
}

// isEmptyValue reports the values treated as "not provided": absent, null,
// false, zero, "" and empty containers.
func isEmptyValue(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	switch string(raw) {
	case "null", "false", `""`:
		return true
	}
	switch raw[0] {
	case '[', '{':
		compact := strings.Join(strings.Fields(string(raw)), "")
		return compact == "[]" || compact == "{}"
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		v, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && v == 0
	}
	return false
}

func kindOf(raw json.RawMessage) string {
	if raw[0] == '[' {
		return "list"
	}
	return "object"
}
