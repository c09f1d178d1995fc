// Package recipe renders the container build recipe from a template.
//
// Templates use named fields in braces. Two fields are defined:
//
//   - {dependencies}: the assembled install instructions (required)
//   - {llama_stack_install_source}: the optional install-from-source instruction
//
// Literal braces are doubled ({{ and }}). Rendering prepends a generated-file
// warning and drops every whitespace-only line, so an empty field does not
// leave a gap in the recipe.
//
// [Lint] parses each instruction with a shell parser before rendering and
// rejects redirections, command substitutions and command lists.
package recipe
