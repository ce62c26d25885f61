// Package mira implements the module resolution and loading subsystem of the
// Mira ECMAScript engine. It turns import specifiers into uniquely identified
// module records:
//   - Specifier resolution with `.`/`..` normalization and a containment
//     guarantee against a configured module root.
//   - A Referrer union identifying where a load request originated (module,
//     script, or realm).
//   - A host-implementable ModuleLoader capability, plus ready-made
//     strategies: IdleModuleLoader, MapModuleLoader, SimpleModuleLoader, and
//     FSModuleLoader for embedded module sets.
//   - An import.meta hook hosts can use to decorate loaded modules.
//
// Module linking and evaluation live outside this package; ParseModule only
// extracts the requested specifiers a module graph driver needs. Loaders
// guarantee stable module identity: the same resolved path always yields the
// same *Module for the lifetime of a loader instance.
package mira
