package grid

import (
	"encoding/json"
	"errors"
	"testing"
)

func sampleState() State {
	return State{
		LogicalOperator: "and",
		CaseSensitivity: "insensitive",
		Columns: []Column{
			{Field: "Name", Operator: "Contains", Value: "Jo"},
			{Field: "Age", Operator: "GreaterOrEqual", Value: 18, SecondOperator: "LessOrEqual", SecondValue: 65, LogicalOperator: "and"},
			{Field: "Tags", Type: "array", ItemsType: "string", Operator: "Contains", Value: []any{"a", "b"}},
		},
	}
}

func TestDecodeStateEncodings(t *testing.T) {
	tests := []struct {
		name     string
		enc      Encoding
		compress bool
	}{
		{"json", EncodingJSON, false},
		{"json zstd", EncodingJSON, true},
		{"msgpack", EncodingMsgPack, false},
		{"msgpack zstd", EncodingMsgPack, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeState(sampleState(), tt.enc, tt.compress)
			if err != nil {
				t.Fatalf("EncodeState failed: %v", err)
			}

			state, err := DecodeState(data)
			if err != nil {
				t.Fatalf("DecodeState failed: %v", err)
			}
			if state.LogicalOperator != "and" || state.CaseSensitivity != "insensitive" {
				t.Errorf("unexpected grid words: %+v", state)
			}
			if len(state.Columns) != 3 {
				t.Fatalf("expected 3 columns, got %d", len(state.Columns))
			}
			if state.Columns[0].Value != "Jo" {
				t.Errorf("expected value 'Jo', got %v", state.Columns[0].Value)
			}
			if !state.Columns[2].IsDynamic() {
				t.Error("expected Tags column to be dynamic")
			}
			list, ok := state.Columns[2].Value.([]any)
			if !ok || len(list) != 2 {
				t.Errorf("expected 2 selected values, got %#v", state.Columns[2].Value)
			}
		})
	}
}

func TestDecodeStateJSONNumbers(t *testing.T) {
	data := []byte(` {"columns":[{"field":"Price","operator":"Equals","value":12345678901234567890.125}]}`)
	state, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState failed: %v", err)
	}
	n, ok := state.Columns[0].Value.(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", state.Columns[0].Value)
	}
	if n.String() != "12345678901234567890.125" {
		t.Errorf("expected number text preserved, got '%s'", n.String())
	}
}

func TestDecodeStateErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnknownEncoding},
		{"array", []byte(`[1,2]`), ErrUnknownEncoding},
		{"text", []byte("hello"), ErrUnknownEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeState(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := DecodeState([]byte(`{"columns": 5}`)); err == nil {
		t.Error("expected error for malformed JSON state")
	}
	if _, err := EncodeState(State{}, Encoding(9), false); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("expected ErrUnknownEncoding, got %v", err)
	}
}
