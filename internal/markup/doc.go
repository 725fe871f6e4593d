// Package markup handles the target wiki's storage markup dialect.
//
// It wraps golang.org/x/net/html with fragment parse/serialize helpers
// and constructors for the dialect's macro elements (page links, expand
// sections, anchors, includes, image embeds, task lists).
//
// The discipline throughout the pipeline is parse once, mutate the
// tree, render once. Chained textual rewrites double-escape entities
// and interfere between passes, so no stage edits markup as text.
package markup
