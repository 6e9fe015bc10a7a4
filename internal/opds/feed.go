package opds

// FeedMetadata describes a feed as a whole.
type FeedMetadata struct {
	Title         string `json:"title"`
	NumberOfItems int    `json:"numberOfItems"`
	ItemsPerPage  int    `json:"itemsPerPage,omitempty"`
	CurrentPage   int    `json:"currentPage,omitempty"`
}

// Publication is one entry of an acquisition feed.
type Publication struct {
	Metadata Metadata `json:"metadata"`
	Links    []Link   `json:"links"`
	Images   []Link   `json:"images,omitempty"`
}

// Feed is an OPDS 2.0 feed document.
type Feed struct {
	Metadata     FeedMetadata  `json:"metadata"`
	Links        []Link        `json:"links,omitempty"`
	Publications []Publication `json:"publications"`
}

// NewFeed assembles an acquisition feed from a search response. Every record's
// metadata is validated; the first invalid record fails the whole feed rather
// than producing a partial one.
func NewFeed(title string, links []Link, resp *SearchResponse) (*Feed, error) {
	pubs := make([]Publication, 0, len(resp.Records))
	for _, rec := range resp.Records {
		md := rec.Metadata()
		if err := md.Validate(); err != nil {
			return nil, err
		}
		pubs = append(pubs, Publication{
			Metadata: md,
			Links:    rec.Links(),
			Images:   rec.Images(),
		})
	}

	page := 1
	if resp.Request.Limit > 0 {
		page = resp.Request.Offset/resp.Request.Limit + 1
	}

	return &Feed{
		Metadata: FeedMetadata{
			Title:         title,
			NumberOfItems: resp.Total,
			ItemsPerPage:  resp.Request.Limit,
			CurrentPage:   page,
		},
		Links:        links,
		Publications: pubs,
	}, nil
}

// NavigationLinks builds the outer navigation links for a provider, using the
// static constants it exposes.
func NavigationLinks(info ProviderInfo) []Link {
	return []Link{
		{Href: info.CatalogPath, Rel: "self", Type: "application/opds+json"},
		{Href: info.SearchPathTemplate, Rel: "search", Type: "application/opds+json"},
	}
}
