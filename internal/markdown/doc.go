// Package markdown implements the post file workflows: front matter
// extraction, document loading from the filesystem, HTML preview rendering,
// body structure inspection, and composing documents back into well-formed
// source files.
package markdown
