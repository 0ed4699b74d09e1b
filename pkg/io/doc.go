// Package io provides JSON import and export for page plans.
//
// # Overview
//
// A plan is the page assignment produced by [pipeline.Runner.Plan]: which
// image goes to which page, where, and whether it was turned. Exporting it
// lets external tools inspect a layout, and lets a layout be checked again
// later without decoding any image.
//
// # JSON Format
//
//	{
//	  "run_id": "5f0c...",
//	  "page": {"width_mm": 210, "height_mm": 297, "border_mm": 3, "dpi": 300},
//	  "container": {"width": 2410, "height": 3438},
//	  "pages": [
//	    {
//	      "index": 0,
//	      "items": [
//	        {
//	          "path": "scans/a.png",
//	          "source": {"w": 2000, "h": 1500},
//	          "content": {"w": 2000, "h": 1500},
//	          "margin": 6,
//	          "rect": {"x": 0, "y": 0, "w": 2012, "h": 1512},
//	          "rotated": false,
//	          "x_mm": 3.5, "y_mm": 3.5, "width_mm": 169.33, "height_mm": 127
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Rects are in container pixels; the *_mm fields are page millimeters
// measured from the top-left corner of the page.
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode a plan and check it: every page must be
// in order and non-empty, every rect must match its image and lie inside the
// container, and no two rects on a page may overlap.
//
// [pipeline.Runner.Plan]: github.com/matzehuels/pagepack/pkg/pipeline.Runner.Plan
package io
