package innings

import (
	"math"
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw      string
		score    int
		wickets  int
		declared bool
	}{
		{"175/4", 175, 4, false},
		{"320d", 320, 10, true},
		{"450", 450, 10, false},
		{"614/5d", 614, 5, true},
	}
	for _, tc := range tests {
		score, wickets, declared, err := ParseScore(tc.raw)
		if err != nil {
			t.Fatalf("ParseScore(%q): %v", tc.raw, err)
		}
		if score != tc.score || wickets != tc.wickets || declared != tc.declared {
			t.Fatalf("ParseScore(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tc.raw, score, wickets, declared, tc.score, tc.wickets, tc.declared)
		}
	}
}

func TestParseScoreMalformed(t *testing.T) {
	if _, _, _, err := ParseScore("abc"); err == nil {
		t.Fatal("expected error for non-numeric score")
	}
	if _, _, _, err := ParseScore("175/x"); err == nil {
		t.Fatal("expected error for non-numeric wickets")
	}
}

func TestParseOvers(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"12.3", 12.5},
		{"0.5", 5.0 / 6},
		{"50", 50},
		{"90.0", 90},
	}
	for _, tc := range tests {
		got, err := ParseOvers(tc.raw)
		if err != nil {
			t.Fatalf("ParseOvers(%q): %v", tc.raw, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseOvers(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseOversMalformed(t *testing.T) {
	for _, raw := range []string{"", "x", "1.x", "x.1"} {
		if _, err := ParseOvers(raw); err == nil {
			t.Fatalf("ParseOvers(%q): expected error", raw)
		}
	}
}

func TestParseRuns(t *testing.T) {
	runs, notOut, err := ParseRuns("87*")
	if err != nil {
		t.Fatalf("ParseRuns: %v", err)
	}
	if runs != 87 || !notOut {
		t.Fatalf("ParseRuns(\"87*\") = (%d, %v), want (87, true)", runs, notOut)
	}

	runs, notOut, err = ParseRuns("42")
	if err != nil {
		t.Fatalf("ParseRuns: %v", err)
	}
	if runs != 42 || notOut {
		t.Fatalf("ParseRuns(\"42\") = (%d, %v), want (42, false)", runs, notOut)
	}
}

func TestSplitPlayerTeam(t *testing.T) {
	player, team := SplitPlayerTeam("JE Root (ENG)")
	if player != "JE Root" || team != "England" {
		t.Fatalf("got (%q, %q), want (\"JE Root\", \"England\")", player, team)
	}

	player, team = SplitPlayerTeam("V Kohli (IND)")
	if player != "V Kohli" || team != "India" {
		t.Fatalf("got (%q, %q), want (\"V Kohli\", \"India\")", player, team)
	}

	// Unknown codes pass through, missing codes leave team empty.
	if _, team = SplitPlayerTeam("A Player (XYZ)"); team != "XYZ" {
		t.Fatalf("unknown code: got team %q, want XYZ", team)
	}
	if player, team = SplitPlayerTeam("No Code"); player != "No Code" || team != "" {
		t.Fatalf("no code: got (%q, %q)", player, team)
	}
}

func TestCleanOpposition(t *testing.T) {
	if got := CleanOpposition("v Australia"); got != "Australia" {
		t.Fatalf("got %q, want Australia", got)
	}
	if got := CleanOpposition("England"); got != "England" {
		t.Fatalf("got %q, want England", got)
	}
}

func TestIsSentinel(t *testing.T) {
	for _, cell := range []string{"DNB", "absent", "sub", " dnb "} {
		if !IsSentinel(cell) {
			t.Fatalf("IsSentinel(%q) = false, want true", cell)
		}
	}
	if IsSentinel("87") {
		t.Fatal("IsSentinel(\"87\") = true, want false")
	}
}

func TestNumberOrZero(t *testing.T) {
	if got := NumberOrZero("-"); got != "0" {
		t.Fatalf("got %q, want 0", got)
	}
	if got := NumberOrZero(" 3.5 "); got != "3.5" {
		t.Fatalf("got %q, want 3.5", got)
	}
}

func TestParseDataset(t *testing.T) {
	for _, s := range []string{"team", "Batting", " bowling "} {
		if _, ok := ParseDataset(s); !ok {
			t.Fatalf("ParseDataset(%q) rejected", s)
		}
	}
	if _, ok := ParseDataset("fielding"); ok {
		t.Fatal("ParseDataset(\"fielding\") accepted")
	}
}
