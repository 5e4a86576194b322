/*
Package iaee is the Interactive Experience Engine: it validates declarative "experience" documents and compiles the answers a user gave into a Markdown report.

An experience is an ordered list of typed sections (info, choice, rank, kanban, api-builder and so on) ending in exactly one decision gate. Authors write experiences as JSON or YAML; a UI, CLI or agent collects the results; the engine turns both into a human-readable summary.

# Concept

The engine is two pure stages. The validator checks an untyped document against the schema of every registered section type, drops unknown fields and returns a typed Experience or a list of path-addressed issues. The compiler renders an Experience plus externally collected Results (and optional reviewer Comments) into Markdown, reconciling the several result encodings that different client versions produce.

# Key Features

  - Closed set of section variants behind a sealed interface, dispatched by type tag.
  - Forward compatible validation: unknown fields are stripped, never rejected.
  - Deterministic compilation: the same inputs always yield byte-identical Markdown.
  - Tolerant of legacy result shapes (bare ids, sidecar maps, single endpoints).
  - Submissions can be published to memory, filesystem or Redis report stores.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/iaee"
		"github.com/aretw0/iaee/pkg/domain"
	)

	func main() {
		exp, err := iaee.Load("review.yaml")
		if err != nil {
			log.Fatal(err)
		}

		results := domain.Results{"framework": "react", "approve": true}
		fmt.Print(iaee.Compile(exp, results, nil))
	}

For servers and tools, build an Engine with options to attach lifecycle hooks, a logger and report stores:

	eng := iaee.New(
		iaee.WithLogger(logger),
		iaee.WithStore(memory.NewStore()),
		iaee.WithLifecycleHooks(metrics.Hooks()),
	)
	report, err := eng.Submit(ctx, exp, results, comments)
*/
package iaee
