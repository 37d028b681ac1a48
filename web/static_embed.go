// ABOUTME: Embeds the site's global assets and per-feature stylesheets for the HTTP server.
// ABOUTME: Paths under static/ mirror the URL paths they are served at (/assets, /features).
package web

import "embed"

//go:embed static/assets/* static/features/*/*.css
var StaticFS embed.FS
