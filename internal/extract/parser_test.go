package extract

import (
	"testing"

	"github.com/slipline/slipline/internal/pkg/models"
)

func TestParse_DayFormat(t *testing.T) {
	c := Parse("P 00:00 03683 Seattle - Atl. Madrid 10,00 5,75 1,19", 7)
	if c == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if c.Format != models.FormatDay {
		t.Errorf("format = %q, want %q", c.Format, models.FormatDay)
	}
	if c.DayCode != "P" {
		t.Errorf("day code = %q, want P", c.DayCode)
	}
	if c.Kickoff != "00:00" {
		t.Errorf("kickoff = %q, want 00:00", c.Kickoff)
	}
	if c.SlipID != "03683" {
		t.Errorf("slip id = %q, want 03683", c.SlipID)
	}
	if c.HomeRaw != "Seattle" || c.AwayRaw != "Atl. Madrid" {
		t.Errorf("teams = %q / %q, want Seattle / Atl. Madrid", c.HomeRaw, c.AwayRaw)
	}
	wantOdds := []float64{10.00, 5.75, 1.19}
	if len(c.Odds) != 3 {
		t.Fatalf("odds count = %d, want 3", len(c.Odds))
	}
	for i, want := range wantOdds {
		if c.Odds[i] != want {
			t.Errorf("odds[%d] = %v, want %v", i, c.Odds[i], want)
		}
	}
	if c.LineNumber != 7 {
		t.Errorf("line number = %d, want 7", c.LineNumber)
	}
}

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.FormatTag
	}{
		{"day code line", "Szo 19:45 12345 Fradi - MTK 1,50 3,80 6,00", models.FormatDay},
		{"time line", "18:30 00042 Liverpool - Arsenal 1.85 3.40 4.20", models.FormatTime},
		{"simple line", "Bayern M. - Real M. 2,10 3,30 3,50", models.FormatSimple},
		{"market two odds", "Gólszám 2,5 felett/alatt 1,90 1,85", models.FormatMarket},
		{"market three odds", "Félidő eredmény 2,40 2,10 3,60", models.FormatMarket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.line, 1)
			if c == nil {
				t.Fatalf("Parse(%q) = nil, want %q", tt.line, tt.want)
			}
			if c.Format != tt.want {
				t.Errorf("Parse(%q) format = %q, want %q", tt.line, c.Format, tt.want)
			}
		})
	}
}

func TestParse_FirstPatternWins(t *testing.T) {
	// A day-code line also structurally satisfies the simple format; the
	// ordered dispatch must classify it as the day format, never fall through.
	c := Parse("H 19:00 00123 Fradi - MTK 1,50 3,80 6,00", 1)
	if c == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if c.Format != models.FormatDay {
		t.Errorf("format = %q, want %q", c.Format, models.FormatDay)
	}
	if c.HomeRaw != "Fradi" {
		t.Errorf("home = %q, want Fradi", c.HomeRaw)
	}
}

func TestParse_Deterministic(t *testing.T) {
	line := "P 00:00 03683 Seattle - Atl. Madrid 10,00 5,75 1,19"
	first := Parse(line, 1)
	for i := 0; i < 50; i++ {
		again := Parse(line, 1)
		if again == nil || again.Format != first.Format || again.HomeRaw != first.HomeRaw {
			t.Fatalf("iteration %d: parse result changed", i)
		}
	}
}

func TestParse_NoMatch(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"Tippmix 2024",
		"--- oldal 3 ---",
		"12345",
		"Liverpool - Arsenal", // teams but no odds
	}
	for _, line := range lines {
		if c := Parse(line, 1); c != nil {
			t.Errorf("Parse(%q) = %+v, want nil", line, c)
		}
	}
}

func TestParse_DecimalSeparators(t *testing.T) {
	comma := Parse("Liverpool - Arsenal 2,10 3,30 3,50", 1)
	dot := Parse("Liverpool - Arsenal 2.10 3.30 3.50", 1)
	if comma == nil || dot == nil {
		t.Fatal("both separator styles must parse")
	}
	for i := range comma.Odds {
		if comma.Odds[i] != dot.Odds[i] {
			t.Errorf("odds[%d]: comma %v != dot %v", i, comma.Odds[i], dot.Odds[i])
		}
	}
}

func TestDetectLeague(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"Premier Liga", "Premier Liga", true},
		{"  NB I  ", "NB I", true},
		{"Bajnokok Ligája", "Bajnokok Ligája", true},
		{"18:30 00042 Liverpool - Arsenal 1.85 3.40 4.20", "", false},
		{"Liverpool - Arsenal", "", false}, // match line with the odds garbled away
		{"Forduló 12", "", false},
		{"ab", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectLeague(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("DetectLeague(%q) = %q,%v want %q,%v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}
