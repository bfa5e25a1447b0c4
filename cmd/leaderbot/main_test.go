package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"leaderboard-bot/internal/roster"
)

func writeBoard(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	lb := roster.New()
	lb.SetRank(0, "Bronze")
	lb.SetRank(250, "Silver")
	lb.AddPlayer("Alice", "ALICE000000000").AddMatch(roster.Match{Score: 300, Kills: 4})
	lb.AddPlayer("Bob", "BOB00000000000").AddMatch(roster.Match{Score: 90, Deaths: 3})
	if err := roster.NewStore(path, nil).Save(context.Background(), lb); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		dataFile, maxItems = "", 0
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("leaderbot %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestRanksCommand(t *testing.T) {
	got := execute(t, "ranks", "--data", writeBoard(t))
	want := "Silver - 250 points\nBronze - 0 points\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderCommand(t *testing.T) {
	got := execute(t, "render", "--data", writeBoard(t), "--max", "1")
	if !strings.HasPrefix(got, "```\n") || !strings.HasSuffix(got, "```\n") {
		t.Fatalf("render output not fenced:\n%s", got)
	}
	if !strings.Contains(got, "Alice") || strings.Contains(got, "Bob") {
		t.Errorf("--max 1 should only show the leader:\n%s", got)
	}
}

func TestWriteChunks(t *testing.T) {
	var buf bytes.Buffer
	if err := writeChunks(&buf, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a\n\nb\n" {
		t.Errorf("got %q", got)
	}
}
