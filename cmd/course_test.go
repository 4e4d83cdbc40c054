package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/qirim/qirim/internal/store/storetest"
)

func TestPrintCourse(t *testing.T) {
	st := storetest.New(t)
	storetest.Seed(t, st,
		storetest.Lesson{Theme: 2, Number: 1, Name: "Sayılar", Correct: []int{0}},
		storetest.Lesson{Theme: 1, Number: 2, Name: "Aile", Correct: []int{0}},
		storetest.Lesson{Theme: 1, Number: 1, Name: "Selamlaşuv", Correct: []int{0}},
	)

	var out strings.Builder
	if err := printCourse(context.Background(), &out, st.Course()); err != nil {
		t.Fatalf("printCourse: %v", err)
	}

	want := "Theme 1: Theme 1\n  1. Selamlaşuv\n  2. Aile\nTheme 2: Theme 2\n  1. Sayılar\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestPrintCourseEmpty(t *testing.T) {
	var out strings.Builder
	if err := printCourse(context.Background(), &out, storetest.New(t).Course()); err != nil {
		t.Fatalf("printCourse: %v", err)
	}
	if !strings.Contains(out.String(), "qirim import") {
		t.Errorf("empty course should point at import, got %q", out.String())
	}
}
