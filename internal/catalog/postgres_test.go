package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/pai-planner/internal/catalog"
	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/platform/database"
)

func TestPostgresStore_NilPool(t *testing.T) {
	var s *catalog.PostgresStore
	_, err := s.FetchActivities(context.Background())
	if !errors.Is(err, catalog.ErrContentStore) {
		t.Errorf("FetchActivities() error = %v, want ErrContentStore", err)
	}
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("planner"),
		tcpostgres.WithUsername("planner"),
		tcpostgres.WithPassword("planner"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	db, err := database.New(ctx, url, 4, 1)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	store := catalog.NewPostgresStore(db.Pool)
	press := lesson.MustActivity(lesson.Main, lesson.Activity{
		ID: "pc-1", Title: "Press Conference", DurationMinutes: 25,
		Subject: "English", YearGroup: "Year 10", Theme: "dark",
		Keywords: []string{"speaking"},
		Details:  &lesson.Details{Steps: []string{"Assign roles", "Run the briefing"}},
	})
	starter := lesson.MustActivity(lesson.Starter, lesson.Activity{
		ID: "wa-1", Title: "Word Association", DurationMinutes: 5,
		Subject: "English", YearGroup: "Year 10",
	})
	if err := store.SaveActivity(ctx, press, 2); err != nil {
		t.Fatalf("SaveActivity() error = %v", err)
	}
	if err := store.SaveActivity(ctx, starter, 1); err != nil {
		t.Fatalf("SaveActivity() error = %v", err)
	}

	got, err := store.FetchActivities(ctx)
	if err != nil {
		t.Fatalf("FetchActivities() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchActivities() = %d, want 2", len(got))
	}
	if got[0].ID != "wa-1" || got[1].ID != "pc-1" {
		t.Errorf("order = %s, %s; want wa-1, pc-1", got[0].ID, got[1].ID)
	}
	pc := got[1]
	if pc.Phase() != lesson.Main || pc.DurationMinutes != 25 || pc.Theme != "dark" {
		t.Errorf("pc-1 = %+v", pc)
	}
	if pc.StepCount() != 2 || len(pc.Keywords) != 1 {
		t.Errorf("pc-1 details/keywords = %+v / %v", pc.Details, pc.Keywords)
	}
	if got[0].Theme != "" || got[0].Details != nil {
		t.Errorf("wa-1 should have no theme or details: %+v", got[0])
	}
}
