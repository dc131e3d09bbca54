// Package naming parses and normalizes component paths.
//
// Every component lives at an absolute, slash-separated path such as
// /atg/dynamo/MyComponent. Relative names are resolved against the parent
// of a base path, with "." and ".." segments normalized away.
package naming
