package model

import (
	"encoding/json"
	"testing"
)

func TestOptionalAbsentField(t *testing.T) {
	var req AccountPatchRequest
	if err := json.Unmarshal([]byte(`{"fullname":"Kim"}`), &req); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if v, ok := req.Fullname.Get(); !ok || v != "Kim" {
		t.Errorf("Fullname.Get() = (%q, %v), want (Kim, true)", v, ok)
	}
	if req.Introduction.Present {
		t.Error("Introduction should be absent")
	}
}

func TestOptionalExplicitNull(t *testing.T) {
	var req PerformanceLogPatchRequest
	if err := json.Unmarshal([]byte(`{"count":null}`), &req); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if !req.Count.Present || !req.Count.Null {
		t.Errorf("Count = %+v, want present and null", req.Count)
	}
	if _, ok := req.Count.Get(); ok {
		t.Error("Get() should not report a null value as applicable")
	}
	if req.Weight.Present {
		t.Error("Weight should be absent")
	}
}

func TestOptionalZeroValueIsPresent(t *testing.T) {
	var req PerformanceLogPatchRequest
	if err := json.Unmarshal([]byte(`{"weight":0}`), &req); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if v, ok := req.Weight.Get(); !ok || v != 0 {
		t.Errorf("Weight.Get() = (%d, %v), want (0, true)", v, ok)
	}
}

func TestOptionalTypeMismatch(t *testing.T) {
	var req PerformanceLogPatchRequest
	if err := json.Unmarshal([]byte(`{"count":"ten"}`), &req); err == nil {
		t.Error("Unmarshal() expected error for string into int")
	}
}
