package output

import (
	"fmt"
	"strings"
)

// HTMLOptions configures the pan/zoom viewer page.
type HTMLOptions struct {
	Path      string   // output HTML file
	SVGPath   string   // SVG referenced by the page
	Title     string
	MinHeight string
	Head      []string // extra head statements, script tags included
}

// WriteViewer writes an HTML page that displays the SVG with pan and
// zoom via the svg-pan-zoom library. The SVG and the script file are
// expected next to the page.
func WriteViewer(opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "gitdot"
	}
	if opts.MinHeight == "" {
		opts.MinHeight = "700px"
	}
	if len(opts.Head) == 0 {
		opts.Head = []string{`<script src="svg-pan-zoom.min.js"></script>`}
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>%[1]s</title>
    %[2]s
  </head>
  <body>
    <h3>%[1]s</h3>
    <div style="border-width:3px; border-style:solid; border-color:lightgrey;">
      <object id="digraph" type="image/svg+xml" data="%[3]s" style="width:100%%; min-height:%[4]s;">
        SVG not supported by this browser.
      </object>
    </div>
    <script>
      window.onload = function() {
        svgPanZoom('#digraph', {
          zoomEnabled: true,
          controlIconsEnabled: true,
          fit: true,
          center: true,
          maxZoom: 1000,
          zoomScaleSensitivity: 0.5
        });
      };
    </script>
  </body>
</html>
`, opts.Title, strings.Join(opts.Head, "\n    "), opts.SVGPath, opts.MinHeight)

	return WriteFileAtomic(opts.Path, []byte(page), 0o644)
}
