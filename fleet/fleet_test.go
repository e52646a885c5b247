package fleet

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

// TestDecodeSnapshot tests the tolerant payload decoder
func TestDecodeSnapshot(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		payload string
		want    int
		wantErr bool
	}{
		{
			name:    "bare array",
			payload: `[{"codLinea":"R1","id":"1"},{"codLinea":"AVE","id":"2"}]`,
			want:    2,
		},
		{
			name:    "trenes wrapper",
			payload: `{"trenes":[{"codLinea":"R4"}]}`,
			want:    1,
		},
		{
			name:    "empty array",
			payload: `[]`,
			want:    0,
		},
		{
			name:    "wrapper without trenes",
			payload: `{"version":"2"}`,
			want:    0,
		},
		{
			name:    "syntax error",
			payload: `[{"codLinea":`,
			wantErr: true,
		},
		{
			name:    "scalar payload",
			payload: `42`,
			wantErr: true,
		},
		{
			name:    "array of scalars",
			payload: `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := DecodeSnapshot([]byte(tt.payload), now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected decode error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSnapshot failed: %v", err)
			}
			if snap.Records == nil {
				t.Fatal("Records should never be nil on success")
			}
			if len(snap.Records) != tt.want {
				t.Errorf("got %d records, want %d", len(snap.Records), tt.want)
			}
			if !snap.FetchedAt.Equal(now) {
				t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, now)
			}
		})
	}

	t.Logf("✓ Decoder accepts both payload shapes")
}

// TestRecord_Accessors tests typed field access on loose records
func TestRecord_Accessors(t *testing.T) {
	rec := Record{"codLinea": "R2N", "velocidad": 87.5, "parada": nil}

	if code, ok := rec.LineCode(); !ok || code != "R2N" {
		t.Errorf("LineCode = %q, %v; want R2N, true", code, ok)
	}
	if _, ok := rec.String("velocidad"); ok {
		t.Error("numeric field should not read as string")
	}
	if _, ok := rec.String("parada"); ok {
		t.Error("null field should not read as string")
	}
	if _, ok := rec.String("missing"); ok {
		t.Error("absent field should not read as string")
	}

	t.Logf("✓ Record accessors check presence and type")
}

// TestEncodeRecords tests artifact serialization
func TestEncodeRecords(t *testing.T) {
	data, err := EncodeRecords(nil)
	if err != nil {
		t.Fatalf("EncodeRecords(nil) failed: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("nil records should encode as [], got %s", data)
	}

	records := []Record{{"codLinea": "R1", "id": "1"}}
	data, err = EncodeRecords(records)
	if err != nil {
		t.Fatalf("EncodeRecords failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("encoded artifact should be pretty-printed")
	}

	// Round trip through the decoder used for analysis tooling.
	var back []Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}
	if len(back) != 1 {
		t.Fatalf("round trip lost records: %d", len(back))
	}
	if code, _ := back[0].LineCode(); code != "R1" {
		t.Errorf("round trip changed line code: %q", code)
	}

	t.Logf("✓ Artifacts encode as indented JSON arrays")
}

// TestAnalyze tests per-line counting and the summary line
func TestAnalyze(t *testing.T) {
	records := []Record{
		{"codLinea": "R1"},
		{"codLinea": "R1"},
		{"codLinea": "r4"},
		{"codLinea": 12},
		{"id": "no-line"},
	}

	a := Analyze(records)
	if a.TotalTrains != 5 {
		t.Errorf("TotalTrains = %d, want 5", a.TotalTrains)
	}
	if a.LineCounts["R1"] != 2 {
		t.Errorf("R1 count = %d, want 2", a.LineCounts["R1"])
	}
	if a.LineCounts["R4"] != 1 {
		t.Error("analysis should group case variants")
	}
	if a.LineCounts[UnknownLine] != 2 {
		t.Errorf("UNKNOWN count = %d, want 2", a.LineCounts[UnknownLine])
	}

	want := "R1:2, R4:1, UNKNOWN:2"
	if got := a.Summary(); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}

	if got := Analyze(nil).Summary(); got != "" {
		t.Errorf("empty analysis summary = %q, want empty", got)
	}

	t.Logf("✓ Analysis: %s", a.Summary())
}
