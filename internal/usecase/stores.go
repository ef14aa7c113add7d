package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/prezzoscout/backend/internal/domain"
)

// StoreEntry describes one canonical retailer: the keywords that identify it
// in free-text store names, a site-search URL template with a single %s
// placeholder for the search key, and the domain used for logo lookup.
// PlusEncoded marks site searches that reject percent-encoded spaces.
type StoreEntry struct {
	Key         string
	Keywords    []string
	Template    string
	PlusEncoded bool
	Domain      string
}

// SearchKey is the store-search-friendly token derived once per product and
// reused across every per-store link, in both encodings templates need.
type SearchKey struct {
	Raw         string
	Encoded     string // percent-encoded
	PlusEncoded string // spaces joined with +
}

// NewSearchKey builds both encodings of a raw key.
func NewSearchKey(raw string) SearchKey {
	raw = strings.TrimSpace(raw)
	return SearchKey{
		Raw:         raw,
		Encoded:     url.QueryEscape(raw),
		PlusEncoded: strings.Join(strings.Fields(raw), "+"),
	}
}

// DefaultStores is the built-in canonical retailer table. It can be replaced
// wholesale from configuration so new retailers need no code change.
func DefaultStores() []StoreEntry {
	return []StoreEntry{
		{Key: "amazon", Keywords: []string{"amazon"}, Template: "https://www.amazon.it/s?k=%s", Domain: "amazon.it"},
		{Key: "mediaworld", Keywords: []string{"mediaworld", "media world"}, Template: "https://www.mediaworld.it/it/search.html?query=%s", Domain: "mediaworld.it"},
		{Key: "unieuro", Keywords: []string{"unieuro"}, Template: "https://www.unieuro.it/online/search?q=%s", Domain: "unieuro.it"},
		{Key: "euronics", Keywords: []string{"euronics"}, Template: "https://www.euronics.it/search.html?q=%s", Domain: "euronics.it"},
		{Key: "expert", Keywords: []string{"expert"}, Template: "https://www.expert.it/ricerca?q=%s", PlusEncoded: true, Domain: "expert.it"},
		{Key: "trony", Keywords: []string{"trony"}, Template: "https://www.trony.it/online/search?q=%s", Domain: "trony.it"},
		{Key: "comet", Keywords: []string{"comet"}, Template: "https://www.comet.it/search?q=%s", Domain: "comet.it"},
		{Key: "ebay", Keywords: []string{"ebay"}, Template: "https://www.ebay.it/sch/i.html?_nkw=%s", Domain: "ebay.it"},
		{Key: "monclick", Keywords: []string{"monclick"}, Template: "https://www.monclick.it/ricerca?q=%s", Domain: "monclick.it"},
		{Key: "eprice", Keywords: []string{"eprice"}, Template: "https://www.eprice.it/search?q=%s", Domain: "eprice.it"},
		{Key: "yeppon", Keywords: []string{"yeppon"}, Template: "https://www.yeppon.it/cerca?q=%s", Domain: "yeppon.it"},
	}
}

// StoreDirectory resolves free-text store names to canonical retailers and
// builds best-effort purchase links.
type StoreDirectory struct {
	entries []StoreEntry
}

// NewStoreDirectory creates a directory from the given entries, falling back
// to the built-in table when none are provided.
func NewStoreDirectory(entries []StoreEntry) *StoreDirectory {
	if len(entries) == 0 {
		entries = DefaultStores()
	}
	return &StoreDirectory{entries: entries}
}

// Match finds the canonical entry for a free-text store name by checking the
// lowercased, trimmed name against the canonical key and its keyword
// variants.
func (d *StoreDirectory) Match(storeName string) (StoreEntry, bool) {
	name := strings.ToLower(strings.TrimSpace(storeName))
	if name == "" {
		return StoreEntry{}, false
	}
	for _, entry := range d.entries {
		if strings.Contains(name, entry.Key) {
			return entry, true
		}
		for _, kw := range entry.Keywords {
			if strings.Contains(name, kw) {
				return entry, true
			}
		}
	}
	return StoreEntry{}, false
}

// ResolveLink picks a purchase URL for an offer, in priority order:
// a grounding-source URL matching the store (most trustworthy, it came from
// the live search step), then the canonical store's search template, then a
// generic web search on the store name and search key.
func (d *StoreDirectory) ResolveLink(storeName string, key SearchKey, sources []domain.GroundingSource) string {
	entry, matched := d.Match(storeName)

	if src, ok := groundedSource(storeName, entry.Key, matched, sources); ok {
		return src.URI
	}

	if matched {
		if entry.PlusEncoded {
			return fmt.Sprintf(entry.Template, key.PlusEncoded)
		}
		return fmt.Sprintf(entry.Template, key.Encoded)
	}

	return "https://www.google.com/search?q=" + url.QueryEscape(storeName+" "+key.Raw)
}

// groundedSource looks for a citation that belongs to the store: the URL
// contains the canonical key, or the URL contains the store name with
// whitespace stripped, or the title mentions the store name.
func groundedSource(storeName, canonicalKey string, matched bool, sources []domain.GroundingSource) (domain.GroundingSource, bool) {
	name := strings.ToLower(strings.TrimSpace(storeName))
	stripped := strings.Join(strings.Fields(name), "")

	for _, src := range sources {
		uri := strings.ToLower(src.URI)
		if matched && strings.Contains(uri, canonicalKey) {
			return src, true
		}
		if stripped != "" && strings.Contains(uri, stripped) {
			return src, true
		}
		if name != "" && strings.Contains(strings.ToLower(src.Title), name) {
			return src, true
		}
	}
	return domain.GroundingSource{}, false
}

// LogoURL guesses a favicon URL for the store. Known retailers use their
// configured domain; anything else gets a <name>.it guess. Rendering falls
// back to Badge when the image does not load.
func (d *StoreDirectory) LogoURL(storeName string) string {
	domainGuess := ""
	if entry, ok := d.Match(storeName); ok && entry.Domain != "" {
		domainGuess = entry.Domain
	} else {
		stripped := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(storeName))), "")
		if stripped == "" {
			return ""
		}
		domainGuess = stripped + ".it"
	}
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(domainGuess) + "&sz=128"
}

// Badge returns the two-letter text fallback shown when no logo resolves.
func Badge(storeName string) string {
	name := strings.TrimSpace(storeName)
	runes := []rune(name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}
