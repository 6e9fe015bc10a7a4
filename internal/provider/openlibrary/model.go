package openlibrary

import (
	"openlibrary-opds-provider/internal/opds"
)

// RecordType is the schema.org IRI every record currently classifies as.
// Classification should eventually inspect the detected media type; today it
// is a constant for every input, including empty documents.
const RecordType = "http://schema.org/Book"

// WorkDoc is a work-level document from the search endpoint. Every field is
// optional except Key.
type WorkDoc struct {
	Key                 string         `json:"key"`
	Title               string         `json:"title"`
	Subtitle            string         `json:"subtitle"`
	Description         string         `json:"description"`
	CoverID             int            `json:"cover_i"`
	EbookAccess         string         `json:"ebook_access"`
	Language            []string       `json:"language"`
	AuthorKey           []string       `json:"author_key"`
	AuthorName          []string       `json:"author_name"`
	NumberOfPagesMedian *int           `json:"number_of_pages_median"`
	Editions            *EditionsBlock `json:"editions"`
}

// EditionsBlock is the nested edition result set a work may embed when the
// search was made with editions=true.
type EditionsBlock struct {
	NumFound      int          `json:"numFound"`
	Start         int          `json:"start"`
	NumFoundExact bool         `json:"numFoundExact"`
	Docs          []EditionDoc `json:"docs"`
}

// EditionDoc is a concrete printing or ebook of a work. It shares the
// optional-field shape of WorkDoc so mapping can treat either as "the book";
// editions do not carry author lists in this API.
type EditionDoc struct {
	Key         string                `json:"key"`
	Title       string                `json:"title"`
	Subtitle    string                `json:"subtitle"`
	Description string                `json:"description"`
	CoverID     int                   `json:"cover_i"`
	EbookAccess string                `json:"ebook_access"`
	Language    []string              `json:"language"`
	Providers   []AcquisitionProvider `json:"providers"`
}

// AcquisitionProvider is one way of obtaining an edition's content.
type AcquisitionProvider struct {
	Access       string  `json:"access"`
	Format       string  `json:"format"`
	Price        float64 `json:"price"`
	URL          string  `json:"url"`
	ProviderName string  `json:"provider_name"`
}

// bookFields is the field shape works and editions have in common.
type bookFields struct {
	Key         string
	Title       string
	Subtitle    string
	Description string
	CoverID     int
	Language    []string
}

func (d *WorkDoc) book() bookFields {
	return bookFields{
		Key:         d.Key,
		Title:       d.Title,
		Subtitle:    d.Subtitle,
		Description: d.Description,
		CoverID:     d.CoverID,
		Language:    d.Language,
	}
}

func (e *EditionDoc) book() bookFields {
	return bookFields{
		Key:         e.Key,
		Title:       e.Title,
		Subtitle:    e.Subtitle,
		Description: e.Description,
		CoverID:     e.CoverID,
		Language:    e.Language,
	}
}

// effectiveBook picks the document that supplies display metadata and links:
// the first edition when the work has one, otherwise the work itself. The
// returned edition is nil when the work is its own effective book.
func (d *WorkDoc) effectiveBook() (bookFields, *EditionDoc) {
	if d.Editions != nil && len(d.Editions.Docs) > 0 {
		ed := &d.Editions.Docs[0]
		return ed.book(), ed
	}
	return d.book(), nil
}

// Record adapts one raw work document to the opds.Record contract. All views
// are derived fresh on every call.
type Record struct {
	doc     WorkDoc
	baseURL string
	langs   *languageTable
}

func newRecord(doc WorkDoc, baseURL string, langs *languageTable) *Record {
	return &Record{doc: doc, baseURL: baseURL, langs: langs}
}

// Type classifies the record. See RecordType.
func (r *Record) Type() string {
	return RecordType
}

// Links returns the two structural links for the effective book, followed by
// one acquisition link per provider entry when the effective book is an
// edition that carries any. Source order is preserved.
func (r *Record) Links() []opds.Link {
	book, edition := r.doc.effectiveBook()

	links := []opds.Link{
		{Rel: "self", Href: r.baseURL + book.Key, Type: "text/html"},
		{Rel: "alternate", Href: r.baseURL + book.Key + ".json", Type: "application/json"},
	}

	if edition == nil || len(edition.Providers) == 0 {
		return links
	}

	for _, p := range edition.Providers {
		links = append(links, opds.Link{
			Href: p.URL,
			Rel:  "http://opds-spec.org/acquisition/" + p.Access,
			Type: mimeForFormat(p.Format),
		})
	}
	return links
}

// Images returns the cover link for the effective book, or nil when it has no
// cover id. A work's cover is not used when the effective book is an edition.
func (r *Record) Images() []opds.Link {
	book, _ := r.doc.effectiveBook()
	if book.CoverID == 0 {
		return nil
	}
	return []opds.Link{
		{Href: coverURL(book.CoverID), Rel: "cover", Type: "image/jpeg"},
	}
}

// Metadata returns the normalized metadata bundle. Title, subtitle,
// description and languages come from the effective book; authors and page
// count always come from the work, because editions never carry them.
func (r *Record) Metadata() opds.Metadata {
	book, _ := r.doc.effectiveBook()

	var languages []string
	for _, code := range book.Language {
		if iso, ok := r.langs.Translate(code); ok {
			languages = append(languages, iso)
		}
	}

	return opds.Metadata{
		Type:        r.Type(),
		Title:       book.Title,
		Subtitle:    book.Subtitle,
		Author:      r.authors(),
		Description: stripMarkup(book.Description),
		Language:    languages,
		// TODO: use the edition-specific page count once the search API
		// exposes one; the work-level median is all we get today.
		NumberOfPages: r.doc.NumberOfPagesMedian,
	}
}

// authors pairs the Nth name with the Nth key from the work-level parallel
// arrays. When their lengths differ, pairing truncates at the shorter array;
// the upstream data is occasionally inconsistent and we preserve that
// behavior rather than guess a reconciliation.
func (r *Record) authors() []opds.Contributor {
	n := min(len(r.doc.AuthorName), len(r.doc.AuthorKey))
	if n == 0 {
		return nil
	}
	authors := make([]opds.Contributor, 0, n)
	for i := 0; i < n; i++ {
		authors = append(authors, opds.Contributor{
			Name: r.doc.AuthorName[i],
			Links: []opds.Link{
				{Href: r.baseURL + "/authors/" + r.doc.AuthorKey[i], Rel: "author", Type: "text/html"},
			},
		})
	}
	return authors
}
