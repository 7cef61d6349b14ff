package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/service"
	"github.com/chabro2633/diary-korean/internal/translate"
)

const whitelistTOML = `
[[channels]]
id = "UC1"
name = "Drama Seoul"
category = "drama"
crawl_priority = 3

[[channels]]
id = "UC2"
name = "Variety Busan"
category = "variety"
subtitle_quality = "community"
`

const koreanCaptions = `{"events": [
	{"tStartMs": 0, "dDurationMs": 1000, "segs": [{"utf8": "안녕하세요"}]},
	{"tStartMs": 1000, "dDurationMs": 1000, "segs": [{"utf8": "괜찮아요"}]}
]}`

const englishCaptions = `{"events": [
	{"tStartMs": 0, "dDurationMs": 1000, "segs": [{"utf8": "Hello"}]},
	{"tStartMs": 1000, "dDurationMs": 1000, "segs": [{"utf8": "It's okay"}]}
]}`

type cliTestEnv struct {
	configPath string
	dbPath     string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	for _, key := range []string{"DIARY_CONFIG", "SQLITE_PATH", "DATABASE_URL", "REDIS_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	base := t.TempDir()
	env := &cliTestEnv{
		configPath: filepath.Join(base, "diary.toml"),
		dbPath:     filepath.Join(base, "diary.db"),
		baseDir:    base,
	}
	content := fmt.Sprintf("[server]\nlog_level = %q\n\n[database]\nsqlite_path = %q\n", "error", env.dbPath)
	writeFile(t, env.configPath, content)
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("diaryctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeVideos(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "v1.info.json"), `{"id": "v1", "title": "Episode 1", "channel_id": "UC1",
		"subtitles": {"ko": []}, "automatic_captions": {"en": []}}`)
	writeFile(t, filepath.Join(dir, "v1.ko.json3"), koreanCaptions)
	writeFile(t, filepath.Join(dir, "v1.en.json3"), englishCaptions)

	writeFile(t, filepath.Join(dir, "v2.info.json"), `{"id": "v2", "title": "Episode 2", "channel_id": "UC2",
		"automatic_captions": {"en": []}}`)
	writeFile(t, filepath.Join(dir, "v2.en.json3"), englishCaptions)

	writeFile(t, filepath.Join(dir, "v3.info.json"), `{"id": "v3", "title": "Elsewhere", "channel_id": "UC-other"}`)
}

func TestMigrate(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "migrate")
	requireContains(t, out, "Schema up to date (sqlite)")

	// Re-running is a no-op.
	mustRunCLI(t, env, "migrate")
}

func TestChannelsSyncAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	whitelist := filepath.Join(env.baseDir, "channels.toml")
	writeFile(t, whitelist, whitelistTOML)

	out := mustRunCLI(t, env, "channels", "sync", whitelist)
	requireContains(t, out, "Synced 2 channels, deactivated 0")

	out = mustRunCLI(t, env, "channels", "list")
	requireContains(t, out, "Drama Seoul")
	requireContains(t, out, "Variety Busan")
	requireContains(t, out, "community")

	writeFile(t, whitelist, whitelistTOML[:strings.Index(whitelistTOML, "[[channels]]\nid = \"UC2\"")])
	out = mustRunCLI(t, env, "channels", "sync", whitelist)
	requireContains(t, out, "Synced 1 channels, deactivated 1")

	out = mustRunCLI(t, env, "channels", "list")
	if strings.Contains(out, "Variety Busan") {
		t.Fatalf("deactivated channel still listed: %s", out)
	}
	out = mustRunCLI(t, env, "channels", "list", "--all")
	requireContains(t, out, "Variety Busan")
}

func TestChannelsSyncRejectsInvalidWhitelist(t *testing.T) {
	env := setupCLITestEnv(t)
	whitelist := filepath.Join(env.baseDir, "channels.toml")
	writeFile(t, whitelist, "[[channels]]\nid = \"UC1\"\nname = \"x\"\ncategory = \"sports\"\n")

	if _, err := runCLI(t, env, "channels", "sync", whitelist); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestIngestTiersAndTranslate(t *testing.T) {
	env := setupCLITestEnv(t)
	whitelist := filepath.Join(env.baseDir, "channels.toml")
	writeFile(t, whitelist, whitelistTOML)
	mustRunCLI(t, env, "channels", "sync", whitelist)

	dir := filepath.Join(env.baseDir, "downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeVideos(t, dir)

	out := mustRunCLI(t, env, "ingest", dir)
	requireContains(t, out, "Ingested 2, no data 0, not whitelisted 1, failed 0")
	requireContains(t, out, "not_whitelisted")

	out = mustRunCLI(t, env, "tiers")
	requireContains(t, out, "English → Translation (Good)")
	requireContains(t, out, "Total")

	out = mustRunCLI(t, env, "translate", "pending")
	requireContains(t, out, "v2")
	if strings.Contains(out, "v1") {
		t.Fatalf("v1 has Korean subtitles and should not be pending: %s", out)
	}

	out = mustRunCLI(t, env, "translate", "--dry-run", "v2")
	requireContains(t, out, "v2: 2 segments in 1 batches")
	requireContains(t, out, "Hello")
	requireContains(t, out, "Dry run, nothing written")

	_, err := runCLI(t, env, "translate", "--dry-run", "v1")
	if !errors.Is(err, translate.ErrNativeKorean) {
		t.Fatalf("expected ErrNativeKorean, got %v", err)
	}

	out = mustRunCLI(t, env, "videos", "delete", "v2")
	requireContains(t, out, "Deleted v2")
	out = mustRunCLI(t, env, "translate", "pending")
	requireContains(t, out, "Nothing to translate")
	if _, err := runCLI(t, env, "videos", "delete", "v2"); err == nil {
		t.Fatal("expected deleting a missing video to fail")
	}

	// Without an API key a real run is refused before touching the store.
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "")
	if _, err := runCLI(t, env, "translate", "v1"); err == nil {
		t.Fatal("expected missing translate key to fail")
	}
}

func TestTrendingAndZeroResults(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "migrate")

	out := mustRunCLI(t, env, "trending")
	requireContains(t, out, "No searches yet")

	store, err := db.OpenSQLite(env.dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	search := service.NewSearchService(repository.NewSearchRepo(store), service.NewCacheServiceWithClient(nil))
	for range 2 {
		if _, err := search.Search(context.Background(), model.SearchRequest{Query: "없는말"}); err != nil {
			store.Close()
			t.Fatalf("search: %v", err)
		}
	}
	store.Close()

	out = mustRunCLI(t, env, "trending", "--refresh")
	requireContains(t, out, "없는말")

	out = mustRunCLI(t, env, "zero-results")
	requireContains(t, out, "없는말")

	out = mustRunCLI(t, env, "zero-results", "done", "  없는말 ")
	requireContains(t, out, "Marked")

	out = mustRunCLI(t, env, "zero-results")
	requireContains(t, out, "No unprocessed zero-result queries")

	if _, err := runCLI(t, env, "zero-results", "done", "never-searched"); err == nil {
		t.Fatal("expected unknown query to fail")
	}
}
