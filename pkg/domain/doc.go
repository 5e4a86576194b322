/*
Package domain contains the core domain models of the experience engine.

It defines the Experience document, the closed set of Section variants and the
externally supplied Results and Comments. This package is kept pure and free of
external dependencies like I/O or persistence; parsing lives in the validator
and rendering in the compiler.

# Key Entities

  - Experience: The root document (title, author, ordered sections).
  - Section: A sealed sum type over the thirteen section variants.
  - Results: Per-section answers keyed by section ID, shape varies by client version.
  - Comments: Optional reviewer notes keyed by section ID.
  - Report: A compiled submission, the unit stored by report stores.
  - LifecycleHooks: Callbacks fired on validation, compilation and submission.
*/
package domain
