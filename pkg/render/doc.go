// Package render turns graphs and search results into DOT or SVG documents.
//
// The drawing itself lives in [nodelink]; this package picks the output
// format.
//
// [nodelink]: github.com/matzehuels/waypoint/pkg/render/nodelink
package render
