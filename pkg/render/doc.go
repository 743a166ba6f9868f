// Package render builds typed node trees and serializes them to HTML.
//
// A tree is made of nodes: Text, Raw, Element, the composition kinds (Tuple,
// Array, Either, Optional, AnyNode) and the Attributed and Styled wrappers.
// Building a tree cannot fail and never mutates existing values, so a tree
// can be shared and rendered any number of times.
//
// # Basic Usage
//
// To render a node to a string:
//
//	r := render.NewRenderer(render.DefaultConfig())
//	html, err := r.RenderToString(node)
//
// To render a complete document:
//
//	out, err := r.RenderDocument(render.Document{
//	    Title: "Home",
//	    Body:  body,
//	})
//
// # Styles
//
// Styles applied with Element.Style or WithStyle are collected into a single
// stylesheet during the pass. Each distinct style gets a generated class name
// of the form "{property}-{N}", numbered from 0 in first-use order, so the
// same tree always renders to the same bytes. Documents emit the stylesheet
// in a <style> element inside <head>.
//
// # Streaming
//
// Stream delivers output in chunks no larger than the requested size:
//
//	for chunk, err := range r.Stream(ctx, page, render.StreamOptions{
//	    ChunkSize: 4096,
//	    Mode:      render.ModeBackpressure,
//	}) {
//	    ...
//	}
//
// In backpressure mode a producer goroutine renders ahead by at most one
// chunk, so memory stays bounded regardless of document size. Cancellation
// and consumer exit are observed at element boundaries.
//
// # Security
//
// Text and attribute values are always escaped. Raw and RawBytes bypass
// escaping and must only carry trusted content.
package render
