// Package parser extracts raw documentation blocks from Macaulay2 source text.
//
// Two syntaxes are recognized. Labeled-section blocks:
//
//	doc ///
//	Key
//	  Ideal
//	Headline
//	  ideals of rings
//	///
//
// and key/value blocks whose list values use nested braces:
//
//	document {
//	    Key => {ideal, (ideal, List)},
//	    Headline => "make an ideal",
//	    SeeAlso => {Ring}
//	}
//
// # Basic Usage
//
//	p := parser.New()
//	result := p.Parse(types.RawFile{Path: "ideals.m2", Content: src})
//
//	for _, block := range result.Blocks {
//	    switch b := block.(type) {
//	    case types.DocBlock:
//	        fmt.Println(b.Sections["Headline"])
//	    case types.DocumentBlock:
//	        fmt.Println(b.Fields["Headline"].Text())
//	    }
//	}
//
// # Nested Delimiters
//
// A document block ends at the brace that returns the nesting depth to zero,
// so list values such as Key => {(ideal, List)} do not terminate the block
// early. ScanBalanced implements this depth count and can be used on its own.
//
// # Error Handling
//
// Parsing never fails. A document block whose braces never balance is
// consumed to end of input and reported in ParseResult.Errors:
//
//	if result.HasErrors() {
//	    for _, parseErr := range result.Errors {
//	        log.Printf("%s: %v", parseErr.File, &parseErr)
//	    }
//	}
package parser
