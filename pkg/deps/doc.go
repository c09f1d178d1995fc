// Package deps turns resolver output into ordered container install
// instructions.
//
// # Overview
//
// The upstream resolver (`llama stack list-deps`) prints one install directive
// per line: package tokens mixed with a few pip flags, in no particular order.
// This package makes that stream deterministic:
//
//  1. [Parser.ParseLine] tokenizes a line with POSIX shell quoting and splits
//     recognized [Flag] values from package tokens
//  2. [Normalizer] rewrites each package token through a fixed list of [Rule]
//     functions, then deduplicates and sorts
//  3. [Categorize] routes each [Directive] to exactly one [Category]
//  4. [Assemble] groups, sorts and concatenates the rendered instructions
//     after the pinned override
//
// # Flags
//
// Only four flags are recognized:
//
//   - --extra-index-url URL and --index-url URL select [ExtraIndex]
//   - --no-deps selects [NoDeps]
//   - --no-cache selects [NoCache]
//
// Index URLs must use the http or https scheme; a flag missing its value is a
// parse error. Index flags take precedence over --no-deps, which takes precedence over
// --no-cache. Directives without any of them are [Standard]. Other tokens
// starting with "--" are kept as packages unless [Parser.Strict] is set.
//
// # Normalization
//
// A token is decomposed into a [PackageSpec] (name, extras, rest) and passed
// through the rules in order:
//
//   - [QuoteComparison]: 'numpy>=1.20' is quoted so the shell does not see a redirection
//   - [ExtraPatch]: pymilvus==2.4.0 becomes pymilvus[milvus-lite]==2.4.0
//   - [DottedNamespace]: pkg.extra==0.5.1 becomes pkg[extra]==0.5.1
//
// Normalization is idempotent.
//
// # Assembly
//
//	directives, err := (&deps.Parser{}).ParseOutput(stdout)
//	body := deps.Assemble(directives, deps.Options{Pinned: []string{"'boto3==1.35.88'"}})
//	fmt.Println(body.String())
//
// The resulting [Body] always starts with the pinned override (when one is
// configured), followed by the standard, extra-index, no-deps and no-cache
// instructions, each group sorted by its rendered text.
package deps
