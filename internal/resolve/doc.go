// Package resolve implements the dynamic resolution path of linkcheck.
//
// A Resolver obtains a capability strictly through a string identifier and
// a uniform invocation interface. Nothing on this path reuses a reference
// the caller already holds: every call re-derives the instance by name.
//
// Four distinct points can fail, each reported as an *Error with a Stage:
//
//   - NAME_RESOLUTION: the identifier is unknown to the resolver
//   - CONSTRUCTION: the constructor failed, panicked or returned nothing
//   - OPERATION_LOOKUP: the instance has no operation with the given name,
//     or the operation does not have the signature func() bool
//   - INVOCATION: the operation panicked or did not produce a bool
//
// # Resolvers
//
// Registry resolves identifiers against constructors registered at init
// time, the way database/sql drivers register themselves. An identifier is
// only present when the package that registers it is linked into the binary.
//
// Script resolves identifiers against Go source files interpreted at run
// time with yaegi. The identifier "pkg.Type" is known only when one of the
// files declares package pkg; it is constructed by evaluating NewType from
// that package inside the interpreter.
//
// Chain consults several resolvers in order and reports NAME_RESOLUTION only
// when none of them knows the identifier.
package resolve
