// Package packer converts a directory of GFF files to XML, or a directory
// of XML files back to GFF.
//
// The direction is chosen by the input directory. A directory holding a
// REPO_ROOT marker file is an XML tree produced by an earlier run: every
// .xml file below it, at any depth, is converted to <out>/<name>.<type>.
// Any other directory holds game files: each file directly inside it whose
// extension is in the configured type list is converted to
// <out>/<ext>/<name>.xml, and a REPO_ROOT marker is written to the output.
//
// Files that are not converted are listed, sorted, in <out>/unprocessed.txt.
// Conversions run on a bounded worker pool. A failed file does not stop the
// run; every failure is reported.
package packer
