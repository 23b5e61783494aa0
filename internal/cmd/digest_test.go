package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/jobtracker/internal/catalog"
	"github.com/jimezsa/jobtracker/internal/checklist"
	"github.com/jimezsa/jobtracker/internal/config"
	"github.com/jimezsa/jobtracker/internal/export"
	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/store"
)

func TestDigestGenerateShowExportCopy(t *testing.T) {
	env := newTestEnv(t)
	env.goPrefs(t)

	env.ctx.JSONOutput = true
	if err := (&DigestGenerateCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("DigestGenerateCmd.Run() error = %v", err)
	}
	var generated models.Digest
	if err := json.Unmarshal(env.out.Bytes(), &generated); err != nil {
		t.Fatalf("decode digest: %v\n%s", err, env.out.String())
	}
	if generated.Date != "2026-05-04" {
		t.Fatalf("Date = %q, want 2026-05-04", generated.Date)
	}
	var ids []string
	for _, job := range generated.Jobs {
		ids = append(ids, job.ID)
	}
	if strings.Join(ids, ",") != "job-1,job-3,job-2" {
		t.Fatalf("digest order = %v", ids)
	}

	env.ctx.JSONOutput = false
	env.out.Reset()
	if err := (&DigestShowCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("DigestShowCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.out.String(), " 1. Go Developer  80% Excellent") {
		t.Fatalf("show output:\n%s", env.out.String())
	}

	env.out.Reset()
	if err := (&DigestExportCmd{Format: "text"}).Run(env.ctx); err != nil {
		t.Fatalf("DigestExportCmd.Run() error = %v", err)
	}
	if strings.TrimSuffix(env.out.String(), "\n") != export.DigestText(generated) {
		t.Fatalf("text export = %q", env.out.String())
	}

	env.out.Reset()
	if err := (&DigestExportCmd{Format: "email", Date: "2026-05-04"}).Run(env.ctx); err != nil {
		t.Fatalf("DigestExportCmd.Run(email) error = %v", err)
	}
	if !strings.HasPrefix(env.out.String(), "mailto:?subject=My%209AM%20Job%20Digest&body=") {
		t.Fatalf("email export = %q", env.out.String())
	}

	target := filepath.Join(t.TempDir(), "digest.txt")
	if err := (&DigestCopyCmd{To: target}).Run(env.ctx); err != nil {
		t.Fatalf("DigestCopyCmd.Run() error = %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != export.DigestText(generated)+"\n" {
		t.Fatalf("copied text = %q", data)
	}
}

func TestDigestCopyFailureLeavesDigest(t *testing.T) {
	env := newTestEnv(t)
	if err := (&DigestGenerateCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("DigestGenerateCmd.Run() error = %v", err)
	}

	target := filepath.Join(t.TempDir(), "missing-dir", "digest.txt")
	err := (&DigestCopyCmd{To: target}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "could not copy digest") {
		t.Fatalf("DigestCopyCmd.Run() error = %v, want copy failure", err)
	}
	if _, err := loadDigest(env.ctx, ""); err != nil {
		t.Fatalf("loadDigest() after failed copy error = %v", err)
	}
}

func TestDigestShowRequiresGeneratedDigest(t *testing.T) {
	env := newTestEnv(t)

	err := (&DigestShowCmd{}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "no digest for 2026-05-04") {
		t.Fatalf("DigestShowCmd.Run() error = %v, want missing digest", err)
	}
	if err := (&DigestShowCmd{Date: "May 4"}).Run(env.ctx); err == nil {
		t.Fatalf("DigestShowCmd.Run(bad date) error = nil, want error")
	}
}

func TestDigestGenerateHonorsCancellation(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env.ctx.Ctx = ctx

	delay := time.Minute
	err := (&DigestGenerateCmd{Delay: &delay}).Run(env.ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("DigestGenerateCmd.Run() error = %v, want context.Canceled", err)
	}

	env.ctx.Ctx = context.Background()
	if _, err := loadDigest(env.ctx, ""); err == nil {
		t.Fatalf("loadDigest() error = nil, want no digest after cancellation")
	}
}

func TestChecklistGatesShip(t *testing.T) {
	env := newTestEnv(t)

	err := (&ShipCmd{}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "0 of 10") {
		t.Fatalf("ShipCmd.Run() error = %v, want locked", err)
	}

	ids := make([]string, 0, len(checklist.Items))
	for _, item := range checklist.Items {
		ids = append(ids, item.ID)
	}
	if err := (&ChecklistCheckCmd{IDs: ids}).Run(env.ctx); err != nil {
		t.Fatalf("ChecklistCheckCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.out.String(), "Tests Passed: 10 / 10") {
		t.Fatalf("check output = %q", env.out.String())
	}
	if err := (&ShipCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("ShipCmd.Run() error = %v, want unlocked", err)
	}

	if err := (&ChecklistUncheckCmd{IDs: []string{"digest-top10"}}).Run(env.ctx); err != nil {
		t.Fatalf("ChecklistUncheckCmd.Run() error = %v", err)
	}
	err = (&ShipCmd{}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "9 of 10") {
		t.Fatalf("ShipCmd.Run() error = %v, want 9 of 10", err)
	}

	err = (&ChecklistCheckCmd{IDs: []string{"deploy-prod"}}).Run(env.ctx)
	if !errors.Is(err, checklist.ErrUnknownItem) {
		t.Fatalf("ChecklistCheckCmd.Run(unknown) error = %v, want ErrUnknownItem", err)
	}

	env.out.Reset()
	if err := (&ChecklistListCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("ChecklistListCmd.Run() error = %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "[ ] digest-top10") || !strings.Contains(out, "[x] prefs-persist") {
		t.Fatalf("list output:\n%s", out)
	}

	if err := (&ChecklistResetCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("ChecklistResetCmd.Run() error = %v", err)
	}
	count, err := checklist.New(env.ctx.kv).PassedCount(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("PassedCount() after reset = %d, %v", count, err)
	}
}

func TestCatalogImportAndMerge(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	first := filepath.Join(dir, "first.json")
	if err := catalog.WriteFile(first, fixtureJobs()[:2]); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	second := filepath.Join(dir, "second.json5")
	content := `{
  // job-1 collides with the first import
  jobs: [
    {id: "job-1", title: "Renamed"},
    {id: "job-9", title: "Data Engineer", company: "Delta", location: "Delhi"},
  ],
}`
	if err := os.WriteFile(second, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	out := filepath.Join(dir, "catalog", "jobs.json")

	if err := (&CatalogImportCmd{Source: first, Out: out}).Run(env.ctx); err != nil {
		t.Fatalf("CatalogImportCmd.Run() error = %v", err)
	}
	if err := (&CatalogImportCmd{Source: second, Out: out, Merge: true}).Run(env.ctx); err != nil {
		t.Fatalf("CatalogImportCmd.Run(merge) error = %v", err)
	}

	jobs, err := catalog.ReadFile(out, false)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(jobs) != 3 || jobs[0].Title != "Go Developer" || jobs[2].ID != "job-9" {
		t.Fatalf("merged catalog = %#v", jobs)
	}
	if !strings.Contains(env.out.String(), "Added 1 new jobs to 2 existing") {
		t.Fatalf("import output = %q", env.out.String())
	}

	if err := (&CatalogImportCmd{Source: filepath.Join(dir, "jobs.xml"), Out: out}).Run(env.ctx); !errors.Is(err, catalog.ErrUnsupportedSource) {
		t.Fatalf("CatalogImportCmd.Run(xml) error = %v, want ErrUnsupportedSource", err)
	}
}

func TestCatalogShow(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.JSONOutput = true

	if err := (&CatalogShowCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("CatalogShowCmd.Run() error = %v", err)
	}
	var summary catalogSummary
	if err := json.Unmarshal(env.out.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, env.out.String())
	}
	if summary.Source != "fixture" || summary.Jobs != 3 || summary.Sites[models.SourceLinkedIn] != 1 {
		t.Fatalf("summary = %#v", summary)
	}
	if got := formatCounts(summary.Modes); got != "Hybrid:1, Onsite:1, Remote:1" {
		t.Fatalf("formatCounts() = %q", got)
	}
}

func TestWatchReportsChecklistChanges(t *testing.T) {
	env := newTestEnv(t)

	done := make(chan error, 1)
	go func() {
		done <- (&WatchCmd{Count: 1}).Run(env.ctx)
	}()

	list := checklist.New(env.ctx.kv)
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("WatchCmd.Run() error = %v", err)
			}
			out := env.out.String()
			if !strings.Contains(out, checklist.Key) || !strings.Contains(out, "Tests Passed: 1 / 10") {
				t.Fatalf("watch output:\n%s", out)
			}
			return
		case <-ticker.C:
			if err := list.Set(context.Background(), "match-score", true); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
		case <-deadline:
			t.Fatalf("WatchCmd.Run() did not report a change")
		}
	}
}

func TestWatchRequiresNotifier(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.kv = store.NewMemory()
	env.ctx.notifier = nil
	env.ctx.StoreOptions.Backend = store.BackendSQLite

	if err := (&WatchCmd{}).Run(env.ctx); err == nil || !strings.Contains(err.Error(), "no change feed") {
		t.Fatalf("WatchCmd.Run() error = %v, want no change feed", err)
	}
}

func TestConfigShowLayersFlags(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.Config = config.Config{Store: "sqlite", Catalog: "builtin", DigestDelay: "0s", FetchTimeout: "30s"}
	env.ctx.StoreOptions = store.Options{Backend: "redis", DSN: "redis://localhost:6379/0"}

	if err := (&ShowConfigCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("ShowConfigCmd.Run() error = %v", err)
	}
	var got config.Config
	if err := json.Unmarshal(env.out.Bytes(), &got); err != nil {
		t.Fatalf("decode config: %v\n%s", err, env.out.String())
	}
	if got.Store != "redis" || got.DSN != "redis://localhost:6379/0" || got.Catalog != "builtin" {
		t.Fatalf("config = %#v", got)
	}
}

func TestStoreOpensLazily(t *testing.T) {
	ctx := &Context{
		Ctx:          context.Background(),
		StoreOptions: store.Options{Backend: store.BackendSQLite, DSN: filepath.Join(t.TempDir(), "jobtracker.db")},
	}
	kv, err := ctx.Store()
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	again, err := ctx.Store()
	if err != nil || again != kv {
		t.Fatalf("Store() second call = %v, %v; want cached store", again, err)
	}
	if n, err := ctx.Notifier(); err != nil || n != nil {
		t.Fatalf("Notifier() = %v, %v; want nil for sqlite", n, err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	cat, err := ctx.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if cat.Source() != catalog.Builtin || cat.Len() == 0 {
		t.Fatalf("Catalog() = %s with %d jobs, want builtin", cat.Source(), cat.Len())
	}
}
