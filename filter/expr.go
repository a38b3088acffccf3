package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/sejmscraper/scraper"
	"github.com/s0up4200/sejmscraper/sejm"
)

// SessionFilter is a compiled expression evaluated against sessions.
//
// Variables: Number, Title, Dates, Current, Future, FirstDate, LastDate,
// Days, Today. Helpers: hasDate, daysUntil, lower, upper and the case
// insensitive icontains, istartsWith, iendsWith. The built-in operators
// contains, startsWith and endsWith stay available and are case sensitive,
// e.g. `lower(Title) contains "sejmu"`.
type SessionFilter struct {
	expression string
	program    *vm.Program
}

var _ scraper.SessionMatcher = (*SessionFilter)(nil)

// Compile compiles an expression that must evaluate to a boolean
func Compile(expression string) (*SessionFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Zero-valued environment gives the compiler every name and type
	program, err := expr.Compile(expression,
		expr.Env(createEnvironment(sejm.Session{}, time.Time{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &SessionFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter for one session
func (f *SessionFilter) Match(session sejm.Session, today time.Time) (bool, error) {
	result, err := expr.Run(f.program, createEnvironment(session, today))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Session:    session.Number,
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *SessionFilter) Expression() string {
	return f.expression
}

// createEnvironment exposes the session and the helpers to an expression
func createEnvironment(session sejm.Session, today time.Time) map[string]any {
	env := make(map[string]any, 20)
	addHelperFunctions(env, today)

	dates := session.Dates
	if dates == nil {
		dates = []string{}
	}
	var last string
	if len(dates) > 0 {
		last = dates[len(dates)-1]
	}

	env["Number"] = session.Number
	env["Title"] = session.Title
	env["Dates"] = dates
	env["Current"] = session.Current
	env["Future"] = scraper.AllFuture(dates, today)
	env["FirstDate"] = session.FirstDate()
	env["LastDate"] = last
	env["Days"] = len(dates)
	env["Today"] = today.Format(scraper.DateLayout)
	env["hasDate"] = func(date string) bool {
		return slices.Contains(dates, date)
	}

	return env
}

// addHelperFunctions adds the session independent helpers
func addHelperFunctions(env map[string]any, today time.Time) {
	env["daysUntil"] = func(date string) int {
		d, err := time.Parse(scraper.DateLayout, date)
		if err != nil {
			return 0
		}
		return int(d.Sub(scraper.Today(today)).Hours() / 24)
	}
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}
