// Package cell binds atomic accessors to individual struct fields ("cells").
//
// A cell is named by a [Descriptor]: the owning struct type, the field (or a
// dotted path through nested struct values) and the value kind. Binding a
// descriptor against a [Strategy] resolves it once, at construction time,
// into typed accessors whose operations take the owning instance:
//
//	type node struct {
//		next  *node
//		state int32
//	}
//
//	var (
//		nodeNext  = cell.MustReference[node, node]("next")
//		nodeState = cell.MustInt32[node]("state")
//	)
//
//	func (n *node) claim() bool { return nodeState.CAS(n, 0, 1) }
//
// # Strategies
//
// Several mechanisms can implement the same contract. [Candidates] lists
// them from most to least preferred:
//
//   - native: direct field offsets, architecture release-store assembly and
//     the hardware spin instruction.
//   - offset: direct field offsets through sync/atomic only.
//   - handle: a reflect handle per operation, then sync/atomic.
//
// [Lookup] picks the first candidate that constructs, once per process, and
// every New* constructor and [OnSpinWait] route through it. Binding against
// an explicit strategy (the Bind* constructors) is how tests exercise every
// variant.
//
// # Ordering
//
// Get and Set are sequentially consistent. SetOrdered is a release store: it
// publishes every write that precedes it to a goroutine that later reads the
// cell, without the full fence of Set. CAS is linearizable. No operation
// blocks or loops; callers build spin loops from CAS and [OnSpinWait].
//
// # Errors
//
// Binding fails fast with a [*BindError]. A process where no strategy can be
// constructed panics on first use with an [*InitError] listing every attempt.
// Bound accessors have no error paths.
package cell
