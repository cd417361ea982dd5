// Package pngquant shrinks oversized PNG files in place by shelling out to
// the pngquant binary when it is installed.
package pngquant
