package search

import (
	"encoding/json"

	"github.com/meilisearch/meilisearch-go"

	"vacancy-analytics/internal/models"
)

// TowerDocument is the search-index projection of an aggregated tower. Units
// are deliberately left out; the index answers the site's search box, the
// query engine answers everything else.
type TowerDocument struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Area        string  `json:"area"`
	TotalUnits  int     `json:"total_units"`
	VacantUnits int     `json:"vacant_units"`
	AverageRent float64 `json:"average_rent"`
}

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "towers",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "slug",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"area",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"area",
		"vacant_units",
		"average_rent",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"name",
		"vacant_units",
		"average_rent",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexTowers replaces the indexed documents with the given aggregation pass
func (s *SearchClient) IndexTowers(towers []models.Tower) error {
	if len(towers) == 0 {
		return nil
	}

	docs := make([]TowerDocument, 0, len(towers))
	for _, t := range towers {
		docs = append(docs, TowerDocument{
			Slug:        t.Slug,
			Name:        t.Name,
			Area:        t.Area,
			TotalUnits:  t.TotalUnits,
			VacantUnits: t.VacantUnits,
			AverageRent: t.AverageRent,
		})
	}

	_, err := s.client.Index(s.index).AddDocuments(docs)
	return err
}

// Search returns tower documents matching the query
func (s *SearchClient) Search(query string, limit int64) ([]TowerDocument, error) {
	if limit == 0 {
		limit = 20
	}

	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	// Convert hits to documents
	var docs []TowerDocument
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		var doc TowerDocument
		if err := json.Unmarshal(hitJSON, &doc); err != nil {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
