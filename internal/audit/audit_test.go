package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleEntry(ticker, decision string) Entry {
	return Entry{
		RequestID:  "req-1",
		EmployeeID: "MCP001",
		Ticker:     ticker,
		Action:     "BUY",
		Decision:   decision,
		Confidence: 0.99,
		Reason:     "active deal conflict",
		Advisor:    "heuristic",
	}
}

func TestRecordAndVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, ticker := range []string{"CRWD", "AAPL", "SPY"} {
		if err := l.Record(sampleEntry(ticker, "PROHIBITED")); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	l.Close()

	res := Verify(path)
	if !res.Valid {
		t.Fatalf("chain invalid: %s (line %d)", res.Error, res.ErrorLine)
	}
	if res.Lines != 3 {
		t.Errorf("expected 3 lines, got %d", res.Lines)
	}
}

func TestChainSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = l.Record(sampleEntry("CRWD", "PROHIBITED"))
	l.Close()

	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = l.Record(sampleEntry("SPY", "APPROVED"))
	l.Close()

	res := Verify(path)
	if !res.Valid || res.Lines != 2 {
		t.Errorf("reopened chain broken: %+v", res)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	l, _ := Open(path)
	_ = l.Record(sampleEntry("CRWD", "PROHIBITED"))
	_ = l.Record(sampleEntry("SPY", "APPROVED"))
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "PROHIBITED", "APPROVED__", 1)
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatal(err)
	}

	res := Verify(path)
	if res.Valid {
		t.Fatal("expected verification failure after tampering")
	}
	if res.ErrorLine != 2 {
		t.Errorf("expected break at line 2, got %d", res.ErrorLine)
	}
}

func TestVerifyMissingFile(t *testing.T) {
	res := Verify(filepath.Join(t.TempDir(), "nope.jsonl"))
	if res.Valid {
		t.Error("missing file must not verify")
	}
}
