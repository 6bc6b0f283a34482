// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

CLI flags win over environment variables; required settings with neither
fail parsing. Required: DATABASE_URL (-d), OWNER_KEY_SALT (-owner-salt),
SHARE_SLUG_SALT (-slug-salt), OPENAI_API_KEY (-generator-key).

Optional, with defaults: PORT (-p, 3321), DATABASE_TYPE (-t, sqlite),
OPENAI_BASE_URL (-generator-url, api.openai.com), GENERATOR_MODEL
(-generator-model, gpt-4o), COUNTING_STRATEGY (-counting, per-tag),
MAX_PROPOSALS (-max-proposals, 5).

The counting strategy selects how the tally engine counts ballots; see
consensus.CountingStrategy for the semantics of the two values.
*/
package cliparse
