// Package errors provides structured errors for vtree.
//
// Every error carries a registered code (e.g. "E002") that maps to a
// category, a short message and a longer explanation. Engine precondition
// violations, config problems and wire protocol failures all use this
// type so callers can branch on the code with errors.As.
//
// # Usage
//
//	err := errors.New("E002").
//	    WithPath("div/ul/li[3]").
//	    WithSuggestion(`give each sibling a distinct key`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E002: Duplicate sibling key
//	//
//	//   at div/ul/li[3]
//	//
//	//   Two children of the same parent carry the same explicit key.
//	//
//	//   Hint: give each sibling a distinct key
package errors
