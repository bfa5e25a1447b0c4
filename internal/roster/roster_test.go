package roster

import (
	"testing"
)

func sampleBoard() *Leaderboard {
	lb := New()
	alice := lb.AddPlayer(" Alice ", "ABCDEF0123456789")
	alice.AddMatch(Match{Kills: 4, Deaths: 1, StructureDamage: 30, Score: 120})
	alice.AddMatch(Match{Kills: 2, Deaths: 3, StructureDamage: 10, Score: 80})
	bob := lb.AddPlayer("Bob", "BOB00000000001")
	bob.AddMatch(Match{Kills: 1, Deaths: 0, StructureDamage: 50, Score: 300})
	lb.AddPlayer("Ünïcode", "UNI00000000001")
	return lb
}

func TestPlayerTotals(t *testing.T) {
	lb := sampleBoard()
	alice := lb.Players[0]

	if got := alice.TotalKills(); got != 6 {
		t.Errorf("TotalKills = %d, want 6", got)
	}
	if got := alice.TotalDeaths(); got != 4 {
		t.Errorf("TotalDeaths = %d, want 4", got)
	}
	if got := alice.TotalScore(); got != 200 {
		t.Errorf("TotalScore = %d, want 200", got)
	}
	if got := alice.AvgStructureDamage(); got != 20 {
		t.Errorf("AvgStructureDamage = %v, want 20", got)
	}
	if got := lb.Players[2].AvgStructureDamage(); got != 0 {
		t.Errorf("AvgStructureDamage without matches = %v, want 0", got)
	}
}

func TestFind(t *testing.T) {
	lb := sampleBoard()

	t.Run("by playfab id", func(t *testing.T) {
		if p := lb.Find(" ABCDEF0123456789 ", nil); p == nil || p.Name != "Alice" {
			t.Errorf("Find by id = %+v", p)
		}
	})

	t.Run("by name ignoring case", func(t *testing.T) {
		if p := lb.Find("aLiCe", nil); p == nil || p.PlayfabID != "ABCDEF0123456789" {
			t.Errorf("Find by name = %+v", p)
		}
		if p := lb.Find("ÜNÏCODE", nil); p == nil || p.PlayfabID != "UNI00000000001" {
			t.Errorf("Find by unicode name = %+v", p)
		}
	})

	t.Run("id shaped name falls back to name", func(t *testing.T) {
		lb := New()
		lb.AddPlayer("LongPlayerName1", "X")
		if p := lb.Find("longplayername1", nil); p == nil {
			t.Error("expected fallback to name match")
		}
	})

	t.Run("stricter id rule", func(t *testing.T) {
		rule, err := NewIDRule(`^\S{15,16}$`)
		if err != nil {
			t.Fatal(err)
		}
		if rule.Match("BOB00000000001") {
			t.Error("14 character id should not match 15-16 rule")
		}
		if !rule.Match("ABCDEF0123456789") {
			t.Error("16 character id should match")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if p := lb.Find("nobody", nil); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})
}

func TestNewIDRuleRejectsBadPattern(t *testing.T) {
	if _, err := NewIDRule("("); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestRanking(t *testing.T) {
	lb := sampleBoard()
	ranked := lb.Ranked()

	want := []string{"Bob", "Alice", "Ünïcode"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Name, name)
		}
	}
	if lb.Players[0].Name != "Alice" {
		t.Error("Ranked must not reorder the roster")
	}

	alice := lb.Players[0]
	if i, ok := lb.Placement(alice); !ok || i != 1 {
		t.Errorf("Placement = %d, %v; want 1, true", i, ok)
	}
	if n := lb.PlayersAbove(alice); n != 1 {
		t.Errorf("PlayersAbove = %d, want 1", n)
	}
	if n := lb.MaxMatches(); n != 2 {
		t.Errorf("MaxMatches = %d, want 2", n)
	}
}

func TestLadderFromRankConfig(t *testing.T) {
	lb := New()
	lb.SetRank(0, "Bronze")
	lb.SetRank(100, "Silver")
	lb.RankConfig["legacy"] = "ignored"

	ladder := lb.Ladder()
	if ladder.Len() != 2 {
		t.Fatalf("ladder has %d gates, want 2", ladder.Len())
	}
	g, ok := ladder.Current(150)
	if !ok || g.Label != "Silver" {
		t.Errorf("Current(150) = %+v, %v", g, ok)
	}
}
