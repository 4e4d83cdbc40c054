// Package screentest builds screen.Services over an in-memory store for
// screen tests.
package screentest

import (
	"testing"
	"time"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/course"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/store"
	"github.com/qirim/qirim/internal/store/storetest"
	"github.com/qirim/qirim/internal/tutor"
)

// Services returns services wired to a fresh store, and the store for
// seeding and assertions. The tutor is nil.
func Services(t testing.TB) (screen.Services, *store.Store) {
	t.Helper()
	st := storetest.New(t)
	prog := progress.NewService(st.Progress(), nil)
	return screen.Services{
		Auth:            auth.NewService(st.Users(), nil),
		Course:          course.NewService(st.Course(), st.Progress(), nil),
		Quiz:            quiz.NewService(st.Course(), prog, nil),
		Progress:        prog,
		LeaderboardSize: progress.DefaultLeaderboardSize,
		FeedbackDelay:   time.Millisecond,
	}, st
}

// WithTutor sets the tutor of svc.
func WithTutor(svc screen.Services, t *tutor.Service) screen.Services {
	svc.Tutor = t
	return svc
}

// Identity creates a user and returns its identity.
func Identity(t testing.TB, st *store.Store, username string) auth.Identity {
	t.Helper()
	return auth.Identity{UserID: storetest.User(t, st, username), Username: username}
}
