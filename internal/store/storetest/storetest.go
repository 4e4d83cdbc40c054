// Package storetest provides in-memory SQLite stores for tests.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/store"
)

var seq atomic.Int64

// New opens a migrated in-memory store private to the calling test and
// closes it on cleanup.
func New(t testing.TB) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	s, err := store.Open(context.Background(), config.DriverSQLite, dsn, nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	return s
}

// Lesson describes one lesson to seed. Correct holds the correct option
// index of each question; every question gets Options answer choices.
type Lesson struct {
	Theme   int
	Number  int
	Name    string
	Correct []int
	Options int
}

// Seed creates the given lessons (and their themes, named "Theme N") and
// returns the lesson ids in input order.
func Seed(t testing.TB, s *store.Store, lessons ...Lesson) []int64 {
	t.Helper()
	ctx := context.Background()
	repo := s.Course()
	ids := make([]int64, len(lessons))

	err := s.InTx(ctx, func(q store.Querier) error {
		for i, l := range lessons {
			themeID, err := repo.UpsertTheme(ctx, q, l.Theme, fmt.Sprintf("Theme %d", l.Theme))
			if err != nil {
				return err
			}
			n := l.Options
			if n == 0 {
				n = 4
			}
			questions := make([]store.NewQuestion, len(l.Correct))
			for qi, correct := range l.Correct {
				opts := make([]store.NewOption, n)
				for oi := range opts {
					opts[oi] = store.NewOption{
						Text:    fmt.Sprintf("option %d.%d", qi+1, oi+1),
						Correct: oi == correct,
					}
				}
				questions[qi] = store.NewQuestion{
					Text:    fmt.Sprintf("%s question %d", l.Name, qi+1),
					Options: opts,
				}
			}
			id, err := repo.ReplaceLesson(ctx, q, themeID, l.Number, l.Name, questions)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return ids
}

// User registers a user with a placeholder hash and returns its id.
func User(t testing.TB, s *store.Store, username string) int64 {
	t.Helper()
	id, err := s.Users().Create(context.Background(), username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}
