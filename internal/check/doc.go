// Package check verifies post files against the contract the site build
// expects: a terminated front matter block that decodes as key-value
// metadata, balanced fenced code blocks, and a body with no executable
// template logic.
package check
