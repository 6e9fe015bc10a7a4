package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultLanguagesURL is the endpoint serving the full language code table.
const DefaultLanguagesURL = "http://openlibrary.org/query.json?type=/type/language&key&identifiers&limit=1000"

// languageStub is one entry of the language table response.
type languageStub struct {
	Key         string `json:"key"`
	Identifiers struct {
		ISO6391 []string `json:"iso_639_1"`
	} `json:"identifiers"`
}

// languageTable converts MARC language codes, as they appear in search
// results, into ISO 639-1 codes. The table is fetched at most once per
// process and is immutable after that; a failed fetch leaves it unpopulated
// so a later call may retry.
type languageTable struct {
	endpoint string
	client   *http.Client

	group singleflight.Group
	mu    sync.RWMutex
	codes map[string]string
}

func newLanguageTable(endpoint string, client *http.Client) *languageTable {
	return &languageTable{endpoint: endpoint, client: client}
}

// Ensure populates the table on first use. Concurrent callers share a single
// fetch and all observe the same completed table. A transport or parse
// failure propagates to every waiting caller; without the table no language
// can ever be translated, so it is never swallowed.
func (t *languageTable) Ensure(ctx context.Context) error {
	t.mu.RLock()
	populated := t.codes != nil
	t.mu.RUnlock()
	if populated {
		return nil
	}

	_, err, _ := t.group.Do("populate", func() (any, error) {
		t.mu.RLock()
		populated := t.codes != nil
		t.mu.RUnlock()
		if populated {
			return nil, nil
		}

		codes, err := t.fetch(ctx)
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		t.codes = codes
		t.mu.Unlock()
		return nil, nil
	})
	return err
}

// Translate returns the ISO 639-1 code for a MARC code. A code the table does
// not know yields ok=false, not an error.
func (t *languageTable) Translate(code string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	iso, ok := t.codes[code]
	return iso, ok
}

func (t *languageTable) fetch(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary: language table: http %d", resp.StatusCode)
	}

	var stubs []languageStub
	if err := json.NewDecoder(resp.Body).Decode(&stubs); err != nil {
		return nil, fmt.Errorf("openlibrary: language table: %w", err)
	}

	codes := make(map[string]string, len(stubs))
	for _, stub := range stubs {
		// The MARC code is the last path segment of keys like "/languages/eng".
		marc := stub.Key[strings.LastIndex(stub.Key, "/")+1:]
		if marc == "" || len(stub.Identifiers.ISO6391) == 0 {
			continue
		}
		codes[marc] = stub.Identifiers.ISO6391[0]
	}
	return codes, nil
}
