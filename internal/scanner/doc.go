// Package scanner walks a program graph dependency-first and turns every
// unit into assembly blocks: runtime metadata tables from the type
// descriptors, and translated code from the instruction blocks.
//
// One Session is one compilation run. It owns the type ownership table and
// the numeric type id counter, so ids are stable for a given graph and the
// order in which units are scanned. A Session is not safe for concurrent use.
package scanner
