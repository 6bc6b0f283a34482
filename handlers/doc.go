// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the canvas lifecycle.

Each handler struct owns a *sql.DB plus whatever config or generator it
needs, and is constructed once at startup:

	canvases := handlers.NewCanvasHandler(db, cfg)
	mux.HandleFunc("POST /canvases", canvases.CreateCanvas)

SQL lives inline in the handlers with $n placeholders, which both supported
drivers accept. String-array columns are JSON text; encodeStrings and
decodeStrings in helpers.go are the only code that touches that encoding.

The handlers are a thin shell over the consensus package: they load rows,
call the pure engine functions, and persist or render the result. Engine
errors are mapped onto HTTP in one place (writeCoreError) so the taxonomy
stays consistent: empty input and bad paths are 400, a tied tally is 409, a
generator payload that fails validation is 502, and a broken stored tree is
500.

Identity is the X-User-ID header; ownership is the X-Owner-Key header,
which is an HMAC over the canvas ID and is never stored. Submission
processing holds a per-canvas lock so two concurrent rebuilds of the same
round cannot interleave.
*/
package handlers
