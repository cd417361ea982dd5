// Package imagegen defines the provider-neutral image generation contract
// and the steps around a provider call: loading the image to edit, choosing
// the output resolution, and saving every returned image as opaque PNG.
//
// Providers live under internal/services (gemini, imagegateway) and satisfy
// Generator.
package imagegen
