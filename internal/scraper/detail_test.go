package scraper

import (
	"reflect"
	"testing"
)

func TestParseMatchDetail(t *testing.T) {
	html := loadFixture(t, "sample_match.html")

	stats := ParseMatchDetail(html)
	if len(stats) != 2 {
		t.Fatalf("expected 2 map records (third segment has no map name), got %d", len(stats))
	}

	ascent := stats[0]
	if ascent.Name != "Ascent" {
		t.Errorf("expected first map Ascent, got %s", ascent.Name)
	}
	wantFirst := []string{"Raze", "Viper", "Fade", "Cypher", "Skye"}
	wantSecond := []string{"Jett", "Omen", "Sova", "KAY/O", "Sage"}
	if !reflect.DeepEqual(ascent.TeamAgents, wantFirst) {
		t.Errorf("first roster = %v, expected %v", ascent.TeamAgents, wantFirst)
	}
	if !reflect.DeepEqual(ascent.OppAgents, wantSecond) {
		t.Errorf("second roster = %v, expected %v", ascent.OppAgents, wantSecond)
	}
	// Scores are in document order here; side reconciliation happens later.
	if ascent.TeamScore != 6 || ascent.OppScore != 13 {
		t.Errorf("expected document-order scores (6,13), got (%d,%d)", ascent.TeamScore, ascent.OppScore)
	}

	bind := stats[1]
	if bind.Name != "Bind" {
		t.Errorf("expected second map Bind, got %s", bind.Name)
	}
	if bind.TeamScore != 9 || bind.OppScore != 13 {
		t.Errorf("expected scores (9,13), got (%d,%d)", bind.TeamScore, bind.OppScore)
	}
	if len(bind.TeamAgents) != 5 || len(bind.OppAgents) != 5 {
		t.Errorf("expected 5+5 rosters, got %d+%d", len(bind.TeamAgents), len(bind.OppAgents))
	}
}

func TestParseMatchDetailTableFallback(t *testing.T) {
	html := loadFixture(t, "sample_match_tables.html")

	stats := ParseMatchDetail(html)
	if len(stats) != 1 {
		t.Fatalf("expected 1 map record from table fallback, got %d", len(stats))
	}

	haven := stats[0]
	if haven.Name != "Haven" {
		t.Errorf("expected map Haven, got %s", haven.Name)
	}
	if haven.TeamScore != 13 || haven.OppScore != 11 {
		t.Errorf("expected scores (13,11), got (%d,%d)", haven.TeamScore, haven.OppScore)
	}
	if len(haven.TeamAgents) != 5 || len(haven.OppAgents) != 5 {
		t.Errorf("expected 5+5 rosters, got %d+%d", len(haven.TeamAgents), len(haven.OppAgents))
	}
	if haven.TeamAgents[0] != "Jett" || haven.OppAgents[0] != "Raze" {
		t.Errorf("rosters split positionally, got %v / %v", haven.TeamAgents, haven.OppAgents)
	}
}

func TestParseMatchDetailOnlyKnownMaps(t *testing.T) {
	html := loadFixture(t, "sample_match.html")

	known := make(map[string]bool)
	for _, name := range knownMaps {
		known[name] = true
	}
	for _, s := range ParseMatchDetail(html) {
		if !known[s.Name] {
			t.Errorf("map name %q is outside the known-map list", s.Name)
		}
	}
}

func TestParseMatchDetailEmptyFields(t *testing.T) {
	// A segment with a recognizable map but no agents and no plausible score
	// pair still yields a record with defaults.
	html := `<div class="vm-stats-game" data-game-id="1">
<span>Icebox</span>
<div class="pick"><span>1</span><span>2</span></div>
</div>`

	stats := ParseMatchDetail(html)
	if len(stats) != 1 {
		t.Fatalf("expected 1 record, got %d", len(stats))
	}
	s := stats[0]
	if s.Name != "Icebox" {
		t.Errorf("expected Icebox, got %s", s.Name)
	}
	if len(s.TeamAgents) != 0 || len(s.OppAgents) != 0 {
		t.Errorf("expected empty rosters, got %v / %v", s.TeamAgents, s.OppAgents)
	}
	if s.TeamScore != 0 || s.OppScore != 0 {
		t.Errorf("expected zero scores, got (%d,%d)", s.TeamScore, s.OppScore)
	}
}

func TestParseMatchDetailNoSegments(t *testing.T) {
	if got := ParseMatchDetail("<html><body><p>match not found</p></body></html>"); len(got) != 0 {
		t.Errorf("expected no records from a page without segments, got %+v", got)
	}
}

func TestExtractScores(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		wantA    int
		wantB    int
	}{
		{
			name:  "regulation win accepted",
			block: `<span>13</span><span>6</span>`,
			wantA: 13, wantB: 6,
		},
		{
			name:  "shutout accepted at the boundary",
			block: `<td>13</td><td>0</td>`,
			wantA: 13, wantB: 0,
		},
		{
			name:  "sum below twelve rejected",
			block: `<span>10</span><span>1</span>`,
			wantA: 0, wantB: 0,
		},
		{
			name:  "max below thirteen rejected",
			block: `<span>12</span><span>0</span>`,
			wantA: 0, wantB: 0,
		},
		{
			name:  "overtime pair accepted",
			block: `<div>14</div><div>16</div>`,
			wantA: 14, wantB: 16,
		},
		{
			name:  "numbers above thirty ignored",
			block: `<span>45</span><span>13</span><span>9</span>`,
			wantA: 13, wantB: 9,
		},
		{
			name:  "no qualifying pair defaults to zero",
			block: `<span>2</span><span>1</span><span>3</span>`,
			wantA: 0, wantB: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := extractScores(tt.block)
			if a != tt.wantA || b != tt.wantB {
				t.Errorf("extractScores() = (%d,%d), expected (%d,%d)", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestExtractRostersDeduplicates(t *testing.T) {
	block := `<img alt="jett"><img alt="Jett"><img alt="omen"><img alt="jett">`
	first, second := extractRosters(block)
	want := []string{"Jett", "Omen"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("expected deduplicated first-seen order %v, got %v", want, first)
	}
	if len(second) != 0 {
		t.Errorf("expected empty second roster, got %v", second)
	}
}
