package domain

import "errors"

// ErrDomainModel is the sentinel wrapped by domain-model errors:
// descriptor/extractor mismatches and chain/list invariant violations
// on input (spec.md §7). These surface at build time, before any step
// executes.
var ErrDomainModel = errors.New("domain model error")
