package storage

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/s0up4200/sejmscraper/sejm"
)

const maxFilenameLength = 50

var statementTemplate = template.Must(template.New("statement").Parse(`<!DOCTYPE html>
<html lang="pl">
<head>
    <meta charset="UTF-8">
    <title>Statement - {{.Name}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .metadata { background: #f5f5f5; padding: 10px; margin-bottom: 20px; border: 1px solid #ddd; }
        .content { line-height: 1.6; }
    </style>
</head>
<body>
    <div class="metadata">
        <h2>Statement metadata</h2>
        <p><strong>Speaker:</strong> {{.Name}}</p>
        <p><strong>Function:</strong> {{.Function}}</p>
        <p><strong>Statement number:</strong> {{.Num}}</p>
        <p><strong>Date:</strong> {{.Date}}</p>
        <p><strong>Start time:</strong> {{.Start}}</p>
        <p><strong>End time:</strong> {{.End}}</p>
        <p><strong>Term:</strong> {{.Term}}</p>
        <p><strong>Session:</strong> {{.Session}}</p>
    </div>
    <div class="content">
        <h3>Statement text</h3>
        <p><em>The full text is not stored here.</em></p>
        <p>To fetch the full text, call the endpoint: {{.Endpoint}}</p>
    </div>
</body>
</html>
`))

// statementPage is the data rendered into a statement stub
type statementPage struct {
	Name     string
	Function string
	Num      int
	Date     string
	Start    string
	End      string
	Term     int
	Session  int
	Endpoint string
}

// SaveStatements writes one HTML stub per statement into
// statements_<date>/ and returns the directory and the number of files written.
// A day without statements still gets its directory.
func (w *Writer) SaveStatements(term int, session sejm.Session, date string, list sejm.StatementList) (string, int, error) {
	dir, err := w.SessionDir(term, session)
	if err != nil {
		w.logger.Error().Err(err).Str("date", date).Msg("Failed to save statements")
		return "", 0, err
	}

	dayDir := filepath.Join(dir, fmt.Sprintf("statements_%s", date))
	if err := os.MkdirAll(dayDir, dirPerm); err != nil {
		w.logger.Error().Err(err).Str("date", date).Msg("Failed to save statements")
		return "", 0, fmt.Errorf("failed to create statements directory: %w", err)
	}

	if len(list.Statements) == 0 {
		w.logger.Warn().Str("date", date).Int("session", session.Number).Msg("No statements for day")
		return dayDir, 0, nil
	}

	for _, st := range list.Statements {
		path := filepath.Join(dayDir, StatementFilename(st))
		content, err := renderStatement(st, term, session.Number, date)
		if err != nil {
			w.logger.Error().Err(err).Str("date", date).Int("num", st.Num).Msg("Failed to render statement")
			return "", 0, err
		}
		if err := os.WriteFile(path, content, filePerm); err != nil {
			w.logger.Error().Err(err).Str("path", path).Msg("Failed to write statement")
			return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	w.logger.Info().Int("count", len(list.Statements)).Str("dir", dayDir).Msg("Saved statements")
	return dayDir, len(list.Statements), nil
}

// StatementFilename returns <NNN>_<sanitized speaker>.html
func StatementFilename(st sejm.Statement) string {
	name := st.Name
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("%03d_%s.html", st.Num, SafeFilename(name))
}

// SafeFilename keeps ASCII letters, digits, '_' and '-'; every other
// character becomes '_'. The result is cut to 50 characters.
func SafeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	safe := b.String()
	if len(safe) > maxFilenameLength {
		safe = safe[:maxFilenameLength]
	}
	return safe
}

func renderStatement(st sejm.Statement, term, session int, date string) ([]byte, error) {
	name := st.Name
	if name == "" {
		name = "Unknown"
	}
	page := statementPage{
		Name:     name,
		Function: st.Function,
		Num:      st.Num,
		Date:     date,
		Start:    st.StartDateTime,
		End:      st.EndDateTime,
		Term:     term,
		Session:  session,
		Endpoint: sejm.StatementEndpoint(term, session, date, st.Num),
	}

	var buf bytes.Buffer
	if err := statementTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render statement %d: %w", st.Num, err)
	}
	return buf.Bytes(), nil
}
