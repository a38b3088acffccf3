package sejm

import (
	"encoding/json"
)

// Term is a legislative period. To is empty for the current term.
type Term struct {
	Num     int    `json:"num"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Current bool   `json:"current"`
}

// Session is one proceeding (sitting) of the Sejm as returned by the
// proceedings endpoints. Raw keeps the exact JSON object it was decoded from
// so it can be archived verbatim.
type Session struct {
	Number  int             `json:"number"`
	Title   string          `json:"title"`
	Dates   []string        `json:"dates"`
	Current bool            `json:"current"`
	Raw     json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps a copy of the raw object.
func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Session(p)
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// FirstDate returns the first sitting date, or "" when none is known.
func (s Session) FirstDate() string {
	if len(s.Dates) == 0 {
		return ""
	}
	return s.Dates[0]
}

// Statement is one recorded speech within a sitting day.
type Statement struct {
	Num           int    `json:"num"`
	Name          string `json:"name"`
	Function      string `json:"function"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

// StatementList is the transcript index for one sitting day.
type StatementList struct {
	ProceedingNum int         `json:"proceedingNum"`
	Date          string      `json:"date"`
	Statements    []Statement `json:"statements"`
}
