// Package sejm provides a client for the public API of the Polish Sejm
// (https://api.sejm.gov.pl).
//
// The client only covers the parts of the API needed to archive sitting
// transcripts: terms, proceedings (sessions), the per-day statement list,
// the per-day PDF transcript and the per-statement HTML.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := sejm.NewClient(
//		"https://api.sejm.gov.pl",
//		logger,
//		sejm.WithTimeout(30*time.Second),
//		sejm.WithRequestDelay(time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp := client.Proceedings(ctx, 10)
//	var sessions []sejm.Session
//	if err := resp.Decode(&sessions); err != nil {
//		// absent, not JSON, or malformed
//	}
//
// # Responses
//
// Every call returns a Response, a tagged union of Structured (JSON kept
// verbatim), Binary (raw bytes, e.g. a PDF) and Absent. Transport failures,
// timeouts and non-2xx statuses never surface as Go errors from the call
// itself; they become an Absent response whose Reason explains why:
//
//	switch resp.Kind {
//	case sejm.Binary:
//		// save resp.Body
//	case sejm.Absent:
//		if resp.NotFound() {
//			// not published yet
//		}
//	}
//
// Each request waits a fixed delay before it is sent. There is no retry loop.
package sejm
