// Package textutil normalizes user supplied names into tokens that are safe
// to embed in object storage keys and file names.
package textutil
