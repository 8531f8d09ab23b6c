package html

import (
	"embed"
	"io/fs"
	"strings"
)

// Asset keys the renderer resolves through a theme's AssetURL resolver.
const (
	AssetKeyStylesheet = "portal.stylesheet"
	AssetKeyScript     = "portal.script"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed static/*.js static/*.css
var embeddedAssets embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want to
// extend the built-in markup.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the browser runtime (JS and CSS) so applications can serve
// it without a frontend build step.
//
// Typical mount:
//
//	mux.Handle("/static/",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(html.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "static")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// StaticAssetResolver maps the renderer's asset keys onto the files AssetsFS
// serves under the given mount prefix. Unknown keys resolve to "".
func StaticAssetResolver(prefix string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		switch key {
		case AssetKeyStylesheet:
			return prefix + "/portal.css"
		case AssetKeyScript:
			return prefix + "/portal.js"
		default:
			return ""
		}
	}
}
