// Package gen generates atomic wrappers for bit-flag types.
//
// A flag set is a named integer type whose bits are independent boolean
// attributes. For a flag set F, the generator emits a type AtomicF that
// keeps the flag set in a sync/atomic integer and exposes bitwise updates
// that are safe to call from concurrent goroutines without a lock.
//
// # Pipeline
//
//	load.FlagSet (declaration, directives)
//	        ↓
//	ResolveOwnership → Ownership
//	        ↓
//	NewWrapper → Wrapper (name, cell, storage shape)
//	        ↓
//	Emit → *jen.File
//	        ↓
//	FileWriter → <flag>_atomic.go next to the declaration
//
// # Configuration
//
// A declaration is marked with a directive in its doc comment:
//
//	//atomflag:gen
//	type Perm uint8
//
//	//atomflag:gen ownership="Arc"
//	type Status uint32
//
// The only option is ownership. It takes a string literal:
//
//   - absent or "none": the cell is held directly by the wrapper.
//   - "Arc" or "shared-mt": the cell is behind a pointer and every copy of
//     the handle shares it across goroutines.
//   - "Rc" or "shared-st": same storage as "Arc", documented for use on a
//     single goroutine.
//
// Any other value, a non-string literal or any other option fails the
// declaration. The same option can be given in an atomflag.yaml manifest.
//
// # Generated surface
//
// Every shape has the same methods:
//
//	Bits, Get, IsEmpty, Contains, Clear
//	And, Or, AndNot          // return the flag set held before the update
//	Intersect, Insert, Remove // same updates, no result
//	Equal, String, GoString
//
// The generated code promises only that each method is one atomic operation
// on the cell. Callers that need ordering with other memory must provide
// their own synchronization.
//
// # Error Handling
//
//   - ConfigError: malformed configuration
//   - OwnershipError: unsupported ownership shape
//   - DeclarationError: wraps the above with the declaration position
//   - GenerationError: synthesis, render and write failures
package gen
