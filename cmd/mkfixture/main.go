// Command mkfixture writes a synthetic projects directory for
// exercising the picker by hand: several projects, a fork chain,
// renamed and summarized sessions, and one deliberately broken file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arvessen/ccsessions/internal/testjsonl"
)

type sessionSpec struct {
	project    string
	cwd        string
	id         byte
	turnCount  int
	forkedFrom byte   // 0 means not a fork
	title      string // custom title entry, optional
	summary    string // summary entry, optional
	ageHours   int
}

var specs = []sessionSpec{
	{project: "-home-dev-project-alpha", cwd: "/home/dev/project-alpha",
		id: 1, turnCount: 4, ageHours: 72,
		summary: "Debug flaky websocket reconnect loop"},
	{project: "-home-dev-project-alpha", cwd: "/home/dev/project-alpha",
		id: 2, turnCount: 8, forkedFrom: 1, ageHours: 48},
	{project: "-home-dev-project-alpha", cwd: "/home/dev/project-alpha",
		id: 3, turnCount: 6, forkedFrom: 2, ageHours: 24,
		title: "reconnect: exponential backoff"},
	{project: "-home-dev-project-beta", cwd: "/home/dev/project-beta",
		id: 4, turnCount: 40, ageHours: 12,
		summary: "Add rate limiting middleware to the API"},
	{project: "-home-dev-project-beta", cwd: "/home/dev/project-beta",
		id: 5, turnCount: 40, forkedFrom: 4, ageHours: 6},
	{project: "-home-dev-project-gamma", cwd: "/home/dev/project-gamma",
		id: 6, turnCount: 200, ageHours: 2},
	{project: "-home-dev-project-gamma", cwd: "/home/dev/project-gamma",
		id: 7, turnCount: 1, ageHours: 1},
}

func main() {
	out := flag.String("out", "", "output projects directory")
	flag.Parse()
	if *out == "" {
		fmt.Fprintln(os.Stderr, "usage: mkfixture -out <dir>")
		os.Exit(1)
	}

	now := time.Now()
	for _, spec := range specs {
		if err := writeSessionFixture(*out, spec, now); err != nil {
			log.Fatalf("creating fixture %s: %v", testjsonl.TestUUID(spec.id), err)
		}
		fmt.Printf("  %s: %d turns\n", testjsonl.TestUUID(spec.id), spec.turnCount)
	}

	if err := writeBrokenFixtures(*out); err != nil {
		log.Fatalf("creating broken fixtures: %v", err)
	}

	fmt.Printf("Fixture tree written to %s\n", *out)
}

func writeSessionFixture(root string, spec sessionSpec, now time.Time) error {
	dir := filepath.Join(root, spec.project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var lines []string
	if spec.forkedFrom != 0 {
		lines = append(lines, testjsonl.Forked(testjsonl.TestUUID(spec.forkedFrom)))
	}
	if spec.summary != "" {
		lines = append(lines, testjsonl.Summary(spec.summary))
	}
	if spec.title != "" {
		lines = append(lines, testjsonl.CustomTitle(spec.title))
	}
	lines = append(lines, generateTurns(spec)...)

	path := filepath.Join(dir, testjsonl.TestUUID(spec.id)+".jsonl")
	if err := os.WriteFile(path, []byte(testjsonl.Session(lines...)), 0o644); err != nil {
		return err
	}

	mtime := now.Add(-time.Duration(spec.ageHours) * time.Hour)
	return os.Chtimes(path, mtime, mtime)
}

func generateTurns(spec sessionSpec) []string {
	lines := make([]string, 0, spec.turnCount)
	for i := 0; i < spec.turnCount; i++ {
		if i%2 == 0 {
			lines = append(lines, testjsonl.UserWithCwd(
				generateContent("user", spec, i), spec.cwd))
		} else {
			lines = append(lines, testjsonl.Assistant(
				generateContent("assistant", spec, i)))
		}
	}
	return lines
}

func generateContent(role string, spec sessionSpec, idx int) string {
	project := strings.TrimPrefix(filepath.Base(spec.cwd), "project-")
	if idx == 0 {
		return fmt.Sprintf("Help me with task %d in %s, starting from the failing test.",
			int(spec.id), project)
	}
	if role == "user" {
		return fmt.Sprintf("Follow-up %d for %s. The previous change did not fix it.",
			idx, project)
	}
	return fmt.Sprintf("Response %d for %s. The trace points at the retry loop, "+
		"so the next step is to cap the backoff.", idx, project)
}

// writeBrokenFixtures drops files the scanner must tolerate: one
// transcript with no parseable content, discarded as empty, and one
// non-UUID name excluded without counting.
func writeBrokenFixtures(root string) error {
	dir := filepath.Join(root, "-home-dev-project-alpha")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	broken := filepath.Join(dir, testjsonl.TestUUID(9)+".jsonl")
	if err := os.WriteFile(broken, []byte("{not json\n"), 0o644); err != nil {
		return err
	}
	stray := filepath.Join(dir, "notes.jsonl")
	return os.WriteFile(stray, []byte(testjsonl.User("stray file")+"\n"), 0o644)
}
