// Package content renders user-written post and comment bodies.
//
// Bodies are Markdown (GitHub flavoured). Render converts them to HTML and
// sanitizes the result with a policy for user-generated content, so the
// output is safe to embed. Excerpt and PlainText give a markup-free view for
// listings and terminals.
package content
