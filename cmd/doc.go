// Package cmd provides the command-line interface for seo.
//
// # Available Commands
//
//   - render: Render the head tags of a page file as HTML, JSON or YAML
//   - inspect: List the head tags found in an HTML document
//   - flipp: Print a signed Flipp social image URL
//   - favicon: Generate favicon assets, optionally watching the source
//   - preview: Serve a live preview of a page file
//   - version: Show build information
//
// # Command Examples
//
//	// Render the configured page
//	seo render
//
//	// Inspect a deployed page
//	curl -s https://example.com | seo inspect - --format json
//
//	// Sign an image URL
//	seo flipp blog --title "Hello" --description "World"
//
//	// Regenerate favicons on change
//	seo favicon logo.png --watch
//
// # Page Files
//
// render, flipp and preview read YAML page files:
//
//	values:
//	  title: About us
//	defaults:
//	  description: Acme makes anvils
//	extensions:
//	  twitter: true
//	flipp:
//	  alias: blog
package cmd
