// Package fleet models the raw train fleet payload fetched from the
// upstream feed.
//
// Records are loosely typed maps because the upstream schema is not
// contractually fixed; accessors check field presence and type instead
// of assuming a shape. The package also provides the
// tolerant payload decoder and the per-line analysis used for cycle
// summaries.
package fleet
