// Package interlinear discovers the document links published on the
// Online Interlinear Bible index pages.
//
// The package handles two concerns:
//
//  1. Deciding which hyperlinks belong to a document category (LinkFilter)
//  2. Fetching an index page and extracting the matching links (IndexFetcher)
//
// # Categories
//
// Two categories are built in, each with its own index page and link prefix:
//
//	OT: Hebrew_Index.htm, links like "OTpdf/gen1.pdf", saved under OTpdf/
//	NT: Greek_Index.htm,  links like "NTpdf/mat1.pdf", saved under NTpdf/
//
// # Link Extraction
//
//	fetcher := interlinear.NewIndexFetcher(client, log)
//	indexURL, _ := interlinear.OldTestament.IndexURL(interlinear.DefaultBaseURL)
//	links, err := fetcher.FetchLinks(ctx, indexURL, interlinear.OldTestament.Filter)
//	for _, href := range links {
//	    fmt.Println(href) // e.g. "OTpdf/gen1.pdf"
//	}
//
// Links are returned in document order. Both category filters are anchored
// on different directory prefixes, so their matched sets never overlap.
package interlinear
