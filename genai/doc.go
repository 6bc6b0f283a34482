// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package genai adapts the external creative generator behind narrow
interfaces.

The engine treats generation as a black box: it hands over an aggregate
preference summary and receives either a decision-round payload or an error.
The Generator interface captures exactly that, plus the itinerary call made
after convergence and the itinerary review call:

	gen := genai.NewClient(cfg.GeneratorBaseURL, cfg.GeneratorAPIKey, cfg.GeneratorModel, cfg.MaxProposals)
	payload, err := gen.GeneratePlan(ctx, summary)

Client speaks the OpenAI chat-completions wire format with JSON-object
response mode, so any compatible endpoint (or an httptest fake) can serve
as the backend.

The generator is untrusted. Client checks only that replies decode and are
non-empty; the structural rules over proposals and questions are enforced
by consensus.BuildTree, and a violation there rejects the round without
partial state. Malformed replies surface as ErrMalformedOutput, which the
handlers map to a 502-class response.
*/
package genai
