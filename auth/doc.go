// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ID generation, owner-key handling, and share slugs.

# Owner Keys

Canvas owner keys are HMAC-SHA256 over the canvas ID, keyed by a server
secret, so they can be re-derived and verified without storage:

	key := auth.GenerateOwnerKey(canvasID, cfg.OwnerKeySalt)
	err := auth.ValidateOwnerKey(canvasID, presentedKey, cfg.OwnerKeySalt)

Comparison uses hmac.Equal to stay constant-time.

# Share Slugs

Share slugs are short base62 strings derived the same way (HMAC over the
canvas ID under a separate salt), so re-sharing a canvas always yields the
same slug.

# IDs

GenerateID returns crypto/rand hex strings; callers choose the byte length
(16 bytes for canvases, 12 for rows that only need local uniqueness).
*/
package auth
