// Package compose implements the cutout pipeline: decoding and normalizing
// uploaded images, extracting an alpha-segmented foreground, compositing it
// over a color or image background and encoding the result as PNG or JPEG.
package compose
