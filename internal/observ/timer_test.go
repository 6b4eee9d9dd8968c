package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("config")
	tm.End(i, "precis.toml")
	tm.End(99, "ignored")
	tm.Add("div-round/64", 1500*time.Microsecond, "2000 cases")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[1].DurationMS != 1.5 || r.Phases[0].Note != "precis.toml" {
		t.Fatalf("report = %+v", r)
	}
	if r.TotalMS < 1.5 {
		t.Fatalf("total = %v", r.TotalMS)
	}

	var buf bytes.Buffer
	if err := tm.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"timings:", "div-round/64", "// 2000 cases", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("report = %+v", r)
	}
}
