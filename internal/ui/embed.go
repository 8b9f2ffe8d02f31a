// Package ui embeds the built rendering surface. The browser tab and the
// desktop webview shell both load this same bundle from the engine, which is
// half of what keeps the two surfaces identical.
package ui

import "embed"

//go:embed dist
var DistFS embed.FS
