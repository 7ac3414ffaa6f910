// Package extract turns a saved web page into the plain text that the
// content analyzer scores.
//
// Users often paste or save the whole HTML of an announcement page. The
// analyzer only cares about what a reader would see, so script, style
// and template bodies are dropped, block elements are separated by
// whitespace, runs of whitespace are collapsed and the result is
// normalized to NFC so that composed and decomposed characters match the
// same patterns.
package extract
