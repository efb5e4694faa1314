// Package include implements the recursive include resolver that expands
// IncludeFile directives while a configuration tree is loaded.
//
// A Loader is bound to a destination tree and a format adapter. Load parses
// the named file and appends its top-level children to the bound tree, in
// document order, include directives included. A child whose key is
// IncludeKey additionally names another file, which is loaded the same way
// right after the directive is appended, with paths resolved relative to the
// file that named it. Failures never abort a load; each one is recorded as a
// diagnostic line and the remaining siblings continue.
package include
