package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/sejmscraper/sejm"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return w
}

func TestNewWriter(t *testing.T) {
	_, err := NewWriter("", zerolog.Nop())
	require.Error(t, err)

	base := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewWriter(base, zerolog.Nop())
	require.NoError(t, err)
	assert.DirExists(t, base)
	assert.Equal(t, base, w.BaseDir())
}

func TestWriter_SessionDir(t *testing.T) {
	tests := []struct {
		name    string
		session sejm.Session
		want    string
	}{
		{
			name:    "with first date",
			session: sejm.Session{Number: 5, Dates: []string{"2024-03-01", "2024-03-02"}},
			want:    filepath.Join("term_10", "session_005_2024-03-01"),
		},
		{
			name:    "without dates",
			session: sejm.Session{Number: 42},
			want:    filepath.Join("term_10", "session_042"),
		},
		{
			name:    "four digit number",
			session: sejm.Session{Number: 1000, Dates: []string{"2027-01-01"}},
			want:    filepath.Join("term_10", "session_1000_2027-01-01"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWriter(t)
			dir, err := w.SessionDir(10, tt.session)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(w.BaseDir(), tt.want), dir)
			assert.DirExists(t, dir)
		})
	}
}

func TestWriter_SessionDir_InvalidNumber(t *testing.T) {
	w := newTestWriter(t)
	_, err := w.SessionDir(10, sejm.Session{Number: 0})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestWriter_SessionDir_KeepsExistingDirectory(t *testing.T) {
	w := newTestWriter(t)

	first, err := w.SessionDir(10, sejm.Session{Number: 7, Dates: []string{"2024-05-01"}})
	require.NoError(t, err)

	// The API later reports a different first date; the original directory wins.
	second, err := w.SessionDir(10, sejm.Session{Number: 7, Dates: []string{"2024-04-30", "2024-05-01"}})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(w.TermDir(10))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// A session whose number shares a prefix must not match.
	other, err := w.SessionDir(10, sejm.Session{Number: 70, Dates: []string{"2025-01-01"}})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestWriter_SavePDF(t *testing.T) {
	w := newTestWriter(t)
	session := sejm.Session{Number: 5, Dates: []string{"2024-03-01"}}

	path, err := w.SavePDF(10, session, "2024-03-01", []byte("%PDF..."))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.BaseDir(), "term_10", "session_005_2024-03-01", "transcript_2024-03-01.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF..."), data)

	again, err := w.SavePDF(10, session, "2024-03-01", []byte("%PDF-2"))
	require.NoError(t, err)
	assert.Equal(t, path, again)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-2"), data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriter_SavePDF_WriteFailure(t *testing.T) {
	w := newTestWriter(t)
	session := sejm.Session{Number: 5, Dates: []string{"2024-03-01"}}

	// A directory in place of the target file makes the write fail.
	dir, err := w.SessionDir(10, session)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "transcript_2024-03-01.pdf"), 0o755))

	path, err := w.SavePDF(10, session, "2024-03-01", []byte("%PDF"))
	assert.Error(t, err)
	assert.Empty(t, path)
}

func TestWriter_SaveStatements(t *testing.T) {
	w := newTestWriter(t)
	session := sejm.Session{Number: 3, Dates: []string{"2024-01-10"}}
	list := sejm.StatementList{
		Statements: []sejm.Statement{
			{Num: 1, Name: "Jan Kowalski", Function: "Poseł", StartDateTime: "2024-01-10T10:00:00", EndDateTime: "2024-01-10T10:05:00"},
			{Num: 2, Name: "Ян Іванов", Function: "Gość"},
		},
	}

	dir, count, err := w.SaveStatements(10, session, "2024-01-10", list)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "statements_2024-01-10", filepath.Base(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "001_Jan_Kowalski.html", entries[0].Name())
	assert.Equal(t, "002__________.html", entries[1].Name())

	first, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(first), "Jan Kowalski")
	assert.Contains(t, string(first), "Poseł")
	assert.Contains(t, string(first), "/sejm/term10/proceedings/3/2024-01-10/transcripts/1")

	second, err := os.ReadFile(filepath.Join(dir, entries[1].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(second), "Ян Іванов")
}

func TestWriter_SaveStatements_Empty(t *testing.T) {
	w := newTestWriter(t)
	session := sejm.Session{Number: 3, Dates: []string{"2024-01-10"}}

	dir, count, err := w.SaveStatements(10, session, "2024-01-10", sejm.StatementList{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.DirExists(t, dir)
}

func TestWriter_SaveStatements_EscapesMetadata(t *testing.T) {
	w := newTestWriter(t)
	session := sejm.Session{Number: 3, Dates: []string{"2024-01-10"}}
	list := sejm.StatementList{Statements: []sejm.Statement{{Num: 4, Name: "<b>Marszałek</b>"}}}

	dir, _, err := w.SaveStatements(10, session, "2024-01-10", list)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "004__b_Marsza_ek__b_.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<b>Marszałek</b>")
	assert.Contains(t, string(data), "&lt;b&gt;Marszałek&lt;/b&gt;")
}

func TestWriter_SaveSessionInfo(t *testing.T) {
	w := newTestWriter(t)
	session := sejm.Session{Number: 12, Dates: []string{"2024-06-01"}}
	raw := json.RawMessage(`{"number":12,"title":"12. Posiedzenie","dates":["2024-06-01"],"agenda":"<p>x</p>"}`)

	path, err := w.SaveSessionInfo(10, session, raw)
	require.NoError(t, err)
	assert.Equal(t, "session_info.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"title\": \"12. Posiedzenie\""))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "<p>x</p>", decoded["agenda"])

	// Without a raw record the typed session is written instead.
	path, err = w.SaveSessionInfo(10, session, nil)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"number": 12`)
}

func TestSafeFilename(t *testing.T) {
	cases := map[string]string{
		"Jan Kowalski":          "Jan_Kowalski",
		"Ян Іванов":             "_________",
		"Szymon Hołownia":       "Szymon_Ho_ownia",
		"a-b_c.d":               "a-b_c_d",
		"":                      "",
		strings.Repeat("x", 80): strings.Repeat("x", 50),
	}

	for input, want := range cases {
		if got := SafeFilename(input); got != want {
			t.Fatalf("SafeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStatementFilename(t *testing.T) {
	assert.Equal(t, "007_unknown.html", StatementFilename(sejm.Statement{Num: 7}))
	assert.Equal(t, "123_Jan_Kowalski.html", StatementFilename(sejm.Statement{Num: 123, Name: "Jan Kowalski"}))
}
