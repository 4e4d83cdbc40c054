package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/qirim/qirim/internal/store/storetest"
)

const sampleCSV = `theme_number,theme_name,lesson_number,lesson_name,question,correct,option_1,option_2,option_3
1,Aile,1,Ana-baba,"mother?",A,ana,baba,qız
1,Aile,1,Ana-baba,"father?",2,ana,baba,qız
1,Aile,2,Qardaşlar,"brother?",1,qardaş,apte,
2,Renkler,1,Esas renkler,"red?",3,beyaz,qara,qırmızı
x,Bad,1,Row,"?",1,a,b
1,Aile,3,Few,"only one?",1,a
1,Aile,3,Few,"out of range?",5,a,b

`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParse(t *testing.T) {
	rows, err := readCSVFile(t, writeFile(t, "course.csv", sampleCSV))
	require.NoError(t, err)

	lessons, rowErrs, err := Parse(rows, DefaultImportConfig())
	require.NoError(t, err)

	require.Len(t, lessons, 3)
	assert.Equal(t, "Ana-baba", lessons[0].Name)
	require.Len(t, lessons[0].Questions, 2)
	assert.True(t, lessons[0].Questions[0].Options[0].Correct)
	assert.True(t, lessons[0].Questions[1].Options[1].Correct)
	assert.Len(t, lessons[1].Questions[0].Options, 2, "empty option cells are dropped")
	assert.Equal(t, 2, lessons[2].ThemeNumber)
	assert.True(t, lessons[2].Questions[0].Options[2].Correct)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, []int{6, 7, 8}, []int{rowErrs[0].Row, rowErrs[1].Row, rowErrs[2].Row})
}

func readCSVFile(t *testing.T, path string) ([][]string, error) {
	t.Helper()
	cfg := DefaultImportConfig()
	cfg.FilePath = path
	return ReadRows(cfg)
}

func TestCorrectIndex(t *testing.T) {
	tests := []struct {
		in      string
		n       int
		want    int
		wantErr bool
	}{
		{"1", 4, 0, false},
		{"4", 4, 3, false},
		{"b", 4, 1, false},
		{"D", 4, 3, false},
		{"0", 4, 0, true},
		{"E", 4, 0, true},
		{"", 4, 0, true},
		{"AB", 4, 0, true},
	}
	for _, tt := range tests {
		got, err := correctIndex(tt.in, tt.n)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("correctIndex(%q, %d) = %d, %v", tt.in, tt.n, got, err)
		}
	}
}

func TestImport_CSV(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	cfg := DefaultImportConfig()
	cfg.FilePath = writeFile(t, "course.csv", sampleCSV)

	res, err := New(st, nil).Import(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Themes)
	assert.Equal(t, 3, res.Lessons)
	assert.Equal(t, 4, res.Questions)
	assert.Len(t, res.Errors, 3)

	themes, err := st.Course().Themes(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "Aile", themes[0].Name)

	lessons, err := st.Course().LessonsByTheme(ctx, themes[0].ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	qs, err := st.Course().Questions(ctx, lessons[0].ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "father?", qs[1].Text)
	assert.True(t, qs[1].Options[1].Correct)

	// Re-importing replaces lessons instead of duplicating them.
	_, err = New(st, nil).Import(ctx, cfg)
	require.NoError(t, err)
	qs, err = st.Course().Questions(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestImport_Workbook(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "course.xlsx")
	require.NoError(t, WriteTemplate(path))

	// Append a second question to the sample lesson.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"1", "Selâmlaşuv", "1", "Salam", "Good morning?", "1", "Hayırlı sabalar", "Hayırlı aqşamlar"}))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	res, err := New(st, nil).Import(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.Lessons)
	assert.Equal(t, 2, res.Questions)

	lessons, err := st.Course().Lessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	qs, err := st.Course().Questions(ctx, lessons[0].ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.True(t, qs[0].Options[1].Correct, "template marks option 2 correct")
	assert.Len(t, qs[0].Options, 4)
}

func TestImport_MissingFile(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "nope.xlsx")
	_, err := New(storetest.New(t), nil).Import(context.Background(), cfg)
	assert.Error(t, err)
}

func TestParse_BadColumn(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.Question = "1"
	_, _, err := Parse(nil, cfg)
	assert.Error(t, err)
}
