package chi

import (
	"time"

	"github.com/kailas-cloud/abmeta/internal/domain"
	domfetch "github.com/kailas-cloud/abmeta/internal/domain/fetch"
	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
	"github.com/kailas-cloud/abmeta/internal/usecase/mapping"
)

// RegisterItemRequest is the body of PUT /items/{id}.
type RegisterItemRequest struct {
	MBTrackID string `json:"mb_trackid"`
	Path      string `json:"path"`
}

// FetchRequest is the body of POST /fetch.
type FetchRequest struct {
	IDs   []string `json:"ids"`
	Write bool     `json:"write"`
}

// ImportRequest is the body of POST /imports.
type ImportRequest struct {
	IDs []string `json:"ids"`
}

// ItemResponse is an item with its stored attributes.
type ItemResponse struct {
	ID         string            `json:"id"`
	MBTrackID  string            `json:"mb_trackid,omitempty"`
	Path       string            `json:"path,omitempty"`
	Attributes map[string]string `json:"attributes"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
}

// ItemListResponse is the body of GET /items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Count int            `json:"count"`
}

// FetchResultResponse is the outcome for one item.
type FetchResultResponse struct {
	ID         string              `json:"id"`
	Status     domfetch.ItemStatus `json:"status"`
	Attributes int                 `json:"attributes"`
	Written    bool                `json:"written"`
	Error      string              `json:"error,omitempty"`
}

// FetchResponse is the body of POST /fetch and POST /imports.
type FetchResponse struct {
	Results []FetchResultResponse `json:"results"`
	Summary map[string]int        `json:"summary"`
}

// AttributeResponse is one mapped attribute.
type AttributeResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MapResponse is the body of POST /map.
type MapResponse struct {
	Attributes  []AttributeResponse  `json:"attributes"`
	Diagnostics []mapping.Diagnostic `json:"diagnostics"`
}

// SchemeResponse is the body of GET /scheme.
type SchemeResponse struct {
	Attributes      []string `json:"attributes"`
	CompositePolicy string   `json:"composite_policy"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func itemToResponse(it *domitem.Item) ItemResponse {
	resp := ItemResponse{
		ID:         it.ID(),
		MBTrackID:  it.MBTrackID(),
		Path:       it.Path(),
		Attributes: it.Attributes(),
	}
	if ts := it.UpdatedAt(); !ts.IsZero() {
		resp.UpdatedAt = &ts
	}
	return resp
}

func resultsToResponse(results []domfetch.Result) FetchResponse {
	resp := FetchResponse{
		Results: make([]FetchResultResponse, len(results)),
		Summary: make(map[string]int),
	}
	for i, r := range results {
		out := FetchResultResponse{
			ID:         r.ID(),
			Status:     r.Status(),
			Attributes: r.Attributes(),
			Written:    r.Written(),
		}
		if r.Err() != nil {
			out.Error = safeDomainMessage(r.Err())
		}
		resp.Results[i] = out
		resp.Summary[string(r.Status())]++
	}
	return resp
}

func attributesToResponse(attrs []domain.Attribute) []AttributeResponse {
	out := make([]AttributeResponse, len(attrs))
	for i, a := range attrs {
		out[i] = AttributeResponse{Name: a.Name, Value: a.String()}
	}
	return out
}
