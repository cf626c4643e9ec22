// Package resolver follows indirect object references for the content
// stream parser.
//
// The object graph of a PDF file is read elsewhere; this package only needs
// a way to look objects up:
//
//	table := resolver.Table{
//	    {Number: 12}: core.Array{core.Name("ICCBased"), iccStream},
//	}
//	r := resolver.NewResolver(table)
//	res := resolver.NewResources(pageResources, r)
//	p := contentstream.NewParser(content,
//	    contentstream.WithResources(res),
//	    contentstream.WithResolver(r))
//
// Resolve follows chains of references and reports cycles. ResolveDeep
// also resolves references nested in dictionaries and arrays, up to the
// depth set with WithMaxDepth.
package resolver
