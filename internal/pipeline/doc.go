// Package pipeline implements the text-to-HTML conversion pipeline.
//
// The pipeline runs three strictly sequential phases over raw model output:
//   - Extraction: LaTeX math spans are captured in document order, their
//     \left/\right delimiters balanced, and the original text replaced with
//     positional placeholders that survive Markdown transformation.
//   - Transform: the placeholder-substituted text goes through Goldmark
//     (GFM tables, fenced code with syntax highlighting, hard line breaks).
//   - Restoration: placeholders are substituted back with their balanced
//     spans, HTML-escaped so markup characters inside math stay literal.
//
// The document shell wrapping the result declares the MathJax delimiter
// configuration matching exactly the two span forms extraction recognizes.
package pipeline
