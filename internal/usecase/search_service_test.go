package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/prezzoscout/backend/internal/domain"
)

// fakeGenerativeClient returns canned responses for service tests.
type fakeGenerativeClient struct {
	groundedText    string
	groundedSources []domain.GroundingSource
	groundedErr     error

	jsonText string
	jsonErr  error

	lastPrompt string
	calls      int
}

func (f *fakeGenerativeClient) GenerateGrounded(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	f.lastPrompt = prompt
	f.calls++
	if f.groundedErr != nil {
		return nil, f.groundedErr
	}
	return &domain.GenerationResult{Text: f.groundedText, Sources: f.groundedSources}, nil
}

func (f *fakeGenerativeClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	f.calls++
	return f.jsonText, f.jsonErr
}

func newTestSearchService(client domain.GenerativeClient) *SearchService {
	return NewSearchService(client, NewStoreDirectory(nil), SearchServiceConfig{})
}

func TestSearchService_Search_Success(t *testing.T) {
	client := &fakeGenerativeClient{
		groundedText: "Ecco i risultati:\n```json\n" + `{
			"productName": "Samsung Galaxy S25 Ultra 512GB",
			"cleanSearchQuery": "Samsung S25 Ultra",
			"imageUrl": "https://img.example.com/s25.png",
			"offers": [
				{"store": "Unieuro", "price": "499,00", "description": "512GB"},
				{"store": "Amazon", "price": "abc"},
				{"store": "MediaWorld", "price": 529.0}
			]
		}` + "\n```",
		groundedSources: []domain.GroundingSource{
			{Title: "MediaWorld", URI: "https://www.mediaworld.it/p/s25"},
		},
	}
	s := newTestSearchService(client)

	data, err := s.Search(context.Background(), "samsung s25")
	if err != nil {
		t.Fatalf("Search error = %v, want nil", err)
	}

	if data.ProductName != "Samsung Galaxy S25 Ultra 512GB" {
		t.Errorf("ProductName = %q", data.ProductName)
	}
	if data.ImageURL != "https://img.example.com/s25.png" {
		t.Errorf("ImageURL = %q, want the validated model URL", data.ImageURL)
	}
	if len(data.Offers) != 2 {
		t.Fatalf("offers = %d, want 2 (invalid price dropped)", len(data.Offers))
	}
	if data.BestPrice != 499.0 {
		t.Errorf("BestPrice = %v, want 499.0", data.BestPrice)
	}
	if data.AveragePrice != 514.0 {
		t.Errorf("AveragePrice = %v, want 514.0", data.AveragePrice)
	}
	if len(data.Sources) != 1 {
		t.Errorf("sources = %d, want passthrough of grounding citations", len(data.Sources))
	}
	if !regexp.MustCompile(`^\d{2}:\d{2}$`).MatchString(data.LastUpdated) {
		t.Errorf("LastUpdated = %q, want HH:MM", data.LastUpdated)
	}

	// The grounded MediaWorld citation must win over the search template.
	if data.Offers[1].Link != "https://www.mediaworld.it/p/s25" {
		t.Errorf("MediaWorld link = %q, want the grounded URL", data.Offers[1].Link)
	}

	if !strings.Contains(client.lastPrompt, `"samsung s25"`) {
		t.Errorf("prompt does not embed the user query: %q", client.lastPrompt)
	}
}

func TestSearchService_Search_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		query   string
		client  *fakeGenerativeClient
		wantErr error
	}{
		{
			name:    "empty query",
			query:   "   ",
			client:  &fakeGenerativeClient{},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "transport failure propagates",
			query:   "samsung s25",
			client:  &fakeGenerativeClient{groundedErr: domain.ErrGenerativeAPIFailure},
			wantErr: domain.ErrGenerativeAPIFailure,
		},
		{
			name:    "unparseable response",
			query:   "samsung s25",
			client:  &fakeGenerativeClient{groundedText: "mi dispiace, nessun risultato"},
			wantErr: domain.ErrResponseParse,
		},
		{
			name:    "no valid offers",
			query:   "samsung s25",
			client:  &fakeGenerativeClient{groundedText: `{"productName":"S25","offers":[{"store":"Amazon","price":"abc"}]}`},
			wantErr: domain.ErrNoOffersFound,
		},
		{
			name:    "empty offer list",
			query:   "samsung s25",
			client:  &fakeGenerativeClient{groundedText: `{"productName":"S25","offers":[]}`},
			wantErr: domain.ErrNoOffersFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSearchService(tc.client)
			_, err := s.Search(context.Background(), tc.query)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Search error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSearchService_Search_InvalidImageURLDropped(t *testing.T) {
	testCases := []struct {
		name     string
		imageURL string
	}{
		{name: "relative path", imageURL: "/images/s25.png"},
		{name: "non-web scheme", imageURL: "ftp://files.example.com/s25.png"},
		{name: "not a URL", imageURL: "niente immagine"},
		{name: "empty", imageURL: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeGenerativeClient{
				groundedText: `{"productName":"S25","imageUrl":"` + tc.imageURL + `","offers":[{"store":"Unieuro","price":"499,00"}]}`,
			}
			s := newTestSearchService(client)

			data, err := s.Search(context.Background(), "samsung s25")
			if err != nil {
				t.Fatalf("Search error = %v", err)
			}
			if data.ImageURL != "" {
				t.Errorf("ImageURL = %q, want absent", data.ImageURL)
			}
		})
	}
}

func TestSearchService_Search_NoCitationsYieldsEmptySourceList(t *testing.T) {
	client := &fakeGenerativeClient{
		groundedText: `{"productName":"S25","offers":[{"store":"Unieuro","price":"499,00"}]}`,
	}
	s := newTestSearchService(client)

	data, err := s.Search(context.Background(), "samsung s25")
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if data.Sources == nil {
		t.Fatal("Sources = nil, want empty list so it serializes as an array")
	}
	if got, _ := json.Marshal(data.Sources); string(got) != "[]" {
		t.Errorf("Sources serializes as %s, want []", got)
	}
}

func TestSearchService_Search_ProductNameFallsBackToQuery(t *testing.T) {
	client := &fakeGenerativeClient{
		groundedText: `{"offers":[{"store":"Unieuro","price":"499,00"}]}`,
	}
	s := newTestSearchService(client)

	data, err := s.Search(context.Background(), "frigorifero lg")
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if data.ProductName != "frigorifero lg" {
		t.Errorf("ProductName = %q, want the user query", data.ProductName)
	}
}

func TestDeriveSearchKey(t *testing.T) {
	testCases := []struct {
		name    string
		payload domain.ModelProductPayload
		query   string
		want    string
	}{
		{
			name:    "model clean query wins",
			payload: domain.ModelProductPayload{CleanSearchQuery: "Samsung S25 Ultra", ProductName: "Samsung Galaxy S25 Ultra 512GB Titanio"},
			query:   "il nuovo samsung",
			want:    "Samsung S25 Ultra",
		},
		{
			name:    "too-short clean query falls back to product name tokens",
			payload: domain.ModelProductPayload{CleanSearchQuery: "S", ProductName: "Samsung Galaxy S25 Ultra 512GB"},
			query:   "il nuovo samsung",
			want:    "Samsung Galaxy S25",
		},
		{
			name:    "missing everything falls back to query tokens",
			payload: domain.ModelProductPayload{},
			query:   "frigorifero lg due porte inox",
			want:    "frigorifero lg due",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := deriveSearchKey(&tc.payload, tc.query)
			if key.Raw != tc.want {
				t.Errorf("Raw = %q, want %q", key.Raw, tc.want)
			}
		})
	}
}

func TestNewSearchKey_Encodings(t *testing.T) {
	key := NewSearchKey(" Samsung S25 Ultra ")

	if key.Raw != "Samsung S25 Ultra" {
		t.Errorf("Raw = %q, want trimmed", key.Raw)
	}
	if key.Encoded != "Samsung+S25+Ultra" {
		t.Errorf("Encoded = %q", key.Encoded)
	}
	if key.PlusEncoded != "Samsung+S25+Ultra" {
		t.Errorf("PlusEncoded = %q", key.PlusEncoded)
	}
}
