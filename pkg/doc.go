// Package pkg provides the libraries behind pagepack.
//
// # Overview
//
// pagepack places raster images onto as few fixed-size PDF pages as it can.
// The pkg directory is organized by stage:
//
//  1. [images] - Expand inputs, measure images, flatten transparency
//  2. [packing] - Pack measured images into page containers
//  3. [placement] - Map packed rects to page millimeters and orientation
//  4. [document] - Embed oriented images into a PDF and write it atomically
//  5. [pipeline] - Orchestration (load → pack → render)
//
// # Architecture
//
// The typical data flow through pagepack:
//
//	Files and directories
//	         ↓
//	    [images] package (decode, shrink to caps, add margin)
//	         ↓
//	    [packing] package (assign descriptors to pages)
//	         ↓
//	    [placement] package (pixel rects → page mm, rotation)
//	         ↓
//	    [document] package (PDF pages)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Output = "scans.pdf"
//	result, err := runner.Execute(ctx, []string{"scans/"}, opts)
//
// # Supporting Packages
//
//   - [units]: millimeter and pixel conversion
//   - [config]: TOML settings file and named paper sizes
//   - [cache]: measurement cache (file, Redis, null)
//   - [errors]: error codes shared by every stage
//   - [observability]: pipeline and cache hooks
//   - [io]: JSON export and import of page plans
//   - [buildinfo]: version information
//
// [images]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/images
// [packing]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/packing
// [placement]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/placement
// [document]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/document
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/pipeline
// [units]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/units
// [config]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/io
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pagepack/pkg/buildinfo
package pkg
