package engine

import (
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"
	"github.com/drummonds/posadmin/webapp"
)

type pageDocument struct {
	Title   string `json:"title"`
	Section string `json:"section"`
	Path    string `json:"path"`
	Module  string `json:"module"`
}

// SetupSearchDB builds an in-memory bleve index of every routed page, keyed
// by absolute path
func SetupSearchDB(router *webapp.Router) (bleve.Index, error) {
	Logger.Info("Creating bleve index mapping")
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		Logger.Error("Failed to create bleve index", "error", err)
		return nil, err
	}
	batch := index.NewBatch()
	for _, b := range router.Bindings() {
		if b.NotFound() {
			continue
		}
		doc := pageDocument{
			Title:   b.Route.Title,
			Section: b.Route.Section,
			Path:    strings.ReplaceAll(strings.Trim(b.Path, "/"), "/", " "),
			Module:  b.Route.Module,
		}
		if err := batch.Index(b.Path, doc); err != nil {
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		Logger.Error("Failed to index pages", "error", err)
		return nil, err
	}
	Logger.Info("Page search index ready", "pages", batch.Size())
	return index, nil
}

// SearchPages matches the term against page titles, sections and paths and
// returns the matching paths, best first
func SearchPages(term string, searchDB bleve.Index) ([]string, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	var queries []query.Query
	for _, word := range strings.Fields(term) {
		queries = append(queries, bleve.NewMatchQuery(word), bleve.NewPrefixQuery(word))
	}
	if len(queries) == 0 {
		return nil, nil
	}
	request := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	request.Size = 10
	results, err := searchDB.Search(request)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(results.Hits))
	for _, hit := range results.Hits {
		paths = append(paths, hit.ID)
	}
	return paths, nil
}
