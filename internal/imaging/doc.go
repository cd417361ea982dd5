// Package imaging decodes input images, picks an output resolution from
// their size, and re-encodes generated images as opaque PNG.
package imaging
