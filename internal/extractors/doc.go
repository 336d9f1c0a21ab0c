// Package extractors provides implementations of the Extractor interface
// for various file formats. Each extractor knows how to turn one family
// of file extensions into plain text ready for chunking.
//
// Extractors are registered with the Registry at startup.
package extractors
